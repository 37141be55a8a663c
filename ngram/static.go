package ngram

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/edsrzf/mmap-go"
)

// staticNodeRecord is the decoded form of one child block entry.
type staticNodeRecord struct {
	wordID             int32
	frequency          float32
	backoff            float32
	childrenBlockPos    int64
	childrenBlockCount  int32
}

// StaticDictionary is the read-only, mmap-backed n-gram trie used for the
// shipped baseline model (spec.md §4.6, §6). Its on-disk layout is a
// sequence of fixed-size child-block records addressed by byte offset,
// zero-copy loaded via mmap the way the teacher's MorphAnalyzer maps its
// DAWG file (analyzer/analyzer.go, loadInternal/bytesToSlice) — here
// records are decoded field-by-field from the mapped byte slice instead
// of reinterpreted with unsafe.Pointer, since the fixed little-endian
// layout is already owned by ngram/codec.go.
type StaticDictionary struct {
	mu       sync.Mutex
	file     *os.File
	data     mmap.MMap
	maxOrder int

	rootPos   int64
	rootCount int32
	rootFreq  float32
	rootBack  float32

	// loaded caches decoded child records per block start offset so
	// repeated lookups under the same prefix avoid re-decoding.
	loaded map[int64][]staticNodeRecord
}

// OpenStatic mmaps path and parses its header (spec.md §6 file layout).
func OpenStatic(path string) (*StaticDictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ngram: open static dictionary: %w", err)
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("ngram: mmap static dictionary: %w", err)
	}
	if len(data) < 4+staticRootRecordSize {
		data.Unmap()
		f.Close()
		return nil, fmt.Errorf("ngram: static dictionary truncated")
	}

	d := &StaticDictionary{
		file:     f,
		data:     data,
		maxOrder: int(readI32(data[0:4])),
		loaded:   make(map[int64][]staticNodeRecord),
	}
	d.rootPos = readI64(data[4:12])
	d.rootCount = readI32(data[12:16])
	d.rootFreq = readF32(data[16:20])
	d.rootBack = readF32(data[20:24])
	return d, nil
}

// Close unmaps the backing file.
func (d *StaticDictionary) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.data.Unmap(); err != nil {
		return err
	}
	return d.file.Close()
}

func (d *StaticDictionary) MaxOrder() int { return d.maxOrder }

// loadChildren decodes and caches the child-block starting at pos with
// count entries, grounded on the teacher's lazy predictNodes/predictEdges
// slicing in loadInternal: bytes already resident via mmap, decoded only
// on first touch.
func (d *StaticDictionary) loadChildren(pos int64, count int32) []staticNodeRecord {
	if count <= 0 || pos < 0 {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if cached, ok := d.loaded[pos]; ok {
		return cached
	}
	records := make([]staticNodeRecord, count)
	offset := pos
	for i := int32(0); i < count; i++ {
		rec := d.data[offset : offset+staticChildRecordSize]
		records[i] = staticNodeRecord{
			wordID:             readI32(rec[0:4]),
			frequency:          readF32(rec[4:8]),
			backoff:            readF32(rec[8:12]),
			childrenBlockPos:   readI64(rec[12:20]),
			childrenBlockCount: readI32(rec[20:24]),
		}
		offset += staticChildRecordSize
	}
	d.loaded[pos] = records
	return records
}

// findChildRecord binary-searches a loaded, wordID-sorted child block,
// grounded on the teacher's findChildGeneral (analyzer/analyzer.go).
func findChildRecord(records []staticNodeRecord, wordID int32) (staticNodeRecord, bool) {
	i := sort.Search(len(records), func(i int) bool { return records[i].wordID >= wordID })
	if i < len(records) && records[i].wordID == wordID {
		return records[i], true
	}
	return staticNodeRecord{}, false
}

// walkToPrefix returns the block position/count/frequency/backoff of the
// node reached by following prefix[startIndex:] from the root.
func (d *StaticDictionary) walkToPrefix(prefix []int32, startIndex int) (pos int64, count int32, freq, back float32, ok bool) {
	pos, count, freq, back = d.rootPos, d.rootCount, d.rootFreq, d.rootBack
	for i := startIndex; i < len(prefix); i++ {
		children := d.loadChildren(pos, count)
		rec, found := findChildRecord(children, prefix[i])
		if !found {
			return 0, 0, 0, 0, false
		}
		pos, count, freq, back = rec.childrenBlockPos, rec.childrenBlockCount, rec.frequency, rec.backoff
	}
	return pos, count, freq, back, true
}

// CheckChildrenLoading reports whether a child block has already been
// decoded and cached at block offset pos.
func (d *StaticDictionary) CheckChildrenLoading(pos int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.loaded[pos]
	return ok
}

// GetProbability mirrors DynamicDictionary.GetProbability's back-off
// recursion over the static, read-only shape.
func (d *StaticDictionary) GetProbability(prefix []int32, index, length int, word int32) float64 {
	if length <= 0 {
		return 0
	}
	pos, count, _, back, ok := d.walkToPrefix(prefix, index)
	if !ok {
		return 0
	}
	var freq float32
	if children := d.loadChildren(pos, count); children != nil {
		if rec, found := findChildRecord(children, word); found {
			freq = rec.frequency
		}
	}
	return float64(freq) + float64(back)*d.GetProbability(prefix, index+1, length-1, word)
}

// GetRawProbability returns only the node's own frequency for word.
func (d *StaticDictionary) GetRawProbability(prefix []int32, index, length int, word int32) (float64, error) {
	pos, count, _, _, ok := d.walkToPrefix(prefix, index)
	if !ok {
		return 0, fmt.Errorf("ngram: no node for prefix")
	}
	children := d.loadChildren(pos, count)
	rec, found := findChildRecord(children, word)
	if !found {
		return 0, nil
	}
	return float64(rec.frequency), nil
}

// ListNextWords returns every child of the node reached by prefix.
func (d *StaticDictionary) ListNextWords(prefix []int32, startIndex int) []ChildInfo {
	pos, count, _, _, ok := d.walkToPrefix(prefix, startIndex)
	if !ok {
		return nil
	}
	children := d.loadChildren(pos, count)
	out := make([]ChildInfo, len(children))
	for i, rec := range children {
		out[i] = ChildInfo{WordID: rec.wordID, Frequency: rec.frequency}
	}
	return out
}

// PutAndIncrementBy always fails: a static dictionary is immutable
// (spec.md §7 — calling a mutation on the static shape is a programmer
// error).
func (d *StaticDictionary) PutAndIncrementBy([]int32, int, int64) error {
	return ErrUnsupportedMutation
}

// UpdateProbabilities always fails for the same reason.
func (d *StaticDictionary) UpdateProbabilities([]float32) error {
	return ErrUnsupportedMutation
}

// Prune always fails for the same reason.
func (d *StaticDictionary) Prune() error {
	return ErrUnsupportedMutation
}
