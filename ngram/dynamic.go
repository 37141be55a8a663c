package ngram

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/steosofficial/predict4all/smoothing"
	"github.com/steosofficial/predict4all/trie"
)

// DynamicNode is a heap-resident node of the in-memory trie. blockPosition
// and blockCount are scratch fields used only while serializing.
type DynamicNode struct {
	wordID    int32
	count     int64
	frequency float32
	backoff   float32
	children  *trie.NodeMap[*DynamicNode]

	blockPosition int64
	blockCount    int32
}

func newDynamicNode(wordID int32) *DynamicNode { return &DynamicNode{wordID: wordID} }

func (n *DynamicNode) WordID() int32                  { return n.wordID }
func (n *DynamicNode) Frequency() float32              { return n.frequency }
func (n *DynamicNode) ChildrenBackoffWeight() float32  { return n.backoff }
func (n *DynamicNode) Count() int64                    { return n.count }

// DynamicDictionary is the fully in-memory, mutable n-gram trie used for
// training and the per-user model (spec.md §4.6).
type DynamicDictionary struct {
	mu       sync.Mutex // dynamic trie writes are serialized, per spec.md §5
	maxOrder int
	root     *DynamicNode
}

// NewDynamic creates an empty dynamic dictionary for the given order.
func NewDynamic(maxOrder int) *DynamicDictionary {
	return &DynamicDictionary{maxOrder: maxOrder, root: newDynamicNode(-1)}
}

func (d *DynamicDictionary) MaxOrder() int       { return d.maxOrder }
func (d *DynamicDictionary) Root() *DynamicNode  { return d.root }

// GetNodeForPrefix walks prefix[startIndex:] from the root.
func (d *DynamicDictionary) GetNodeForPrefix(prefix []int32, startIndex int) (*DynamicNode, bool) {
	n := d.root
	for i := startIndex; i < len(prefix); i++ {
		if n.children == nil {
			return nil, false
		}
		child, ok := n.children.Get(prefix[i])
		if !ok {
			return nil, false
		}
		n = child
	}
	return n, true
}

// CheckChildrenLoading reports whether n has at least one child. For the
// dynamic shape children are always resident, so this is a presence check.
func (d *DynamicDictionary) CheckChildrenLoading(n *DynamicNode) bool {
	return n.children != nil && n.children.Size() > 0
}

// PutAndIncrementBy walks or creates the path for ngram[startIndex:] and
// adds inc to the terminal node's count (spec.md §4.6, dynamic only).
func (d *DynamicDictionary) PutAndIncrementBy(ngram []int32, startIndex int, inc int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := d.root
	for i := startIndex; i < len(ngram); i++ {
		if n.children == nil {
			n.children = trie.NewNodeMap[*DynamicNode]()
		}
		child, ok := n.children.Get(ngram[i])
		if !ok {
			child = newDynamicNode(ngram[i])
			n.children.Put(ngram[i], child)
		}
		n = child
	}
	n.count += inc
}

// GetProbability is the interpolated back-off recursion of spec.md §4.6:
// freq(word at this level) + backoff * GetProbability(shorter context).
func (d *DynamicDictionary) GetProbability(prefix []int32, index, length int, word int32) float64 {
	if length <= 0 {
		return 0
	}
	n, ok := d.GetNodeForPrefix(prefix, index)
	if !ok {
		return 0
	}
	var freq float32
	if n.children != nil {
		if child, ok := n.children.Get(word); ok {
			freq = child.frequency
		}
	}
	return float64(freq) + float64(n.backoff)*d.GetProbability(prefix, index+1, length-1, word)
}

// GetRawProbability returns only the node's own frequency for word,
// erroring if the prefix node is missing (spec.md §4.6).
func (d *DynamicDictionary) GetRawProbability(prefix []int32, index, length int, word int32) (float64, error) {
	n, ok := d.GetNodeForPrefix(prefix, index)
	if !ok {
		return 0, fmt.Errorf("ngram: no node for prefix")
	}
	if n.children == nil {
		return 0, nil
	}
	child, ok := n.children.Get(word)
	if !ok {
		return 0, nil
	}
	return float64(child.frequency), nil
}

// ListNextWords returns every child of the node reached by prefix.
func (d *DynamicDictionary) ListNextWords(prefix []int32, startIndex int) []ChildInfo {
	n, ok := d.GetNodeForPrefix(prefix, startIndex)
	if !ok || n.children == nil {
		return nil
	}
	out := make([]ChildInfo, 0, n.children.Size())
	n.children.ForEachEntry(func(id int32, child *DynamicNode) {
		out = append(out, ChildInfo{WordID: id, Frequency: child.frequency})
	})
	return out
}

// Histograms walks the trie and returns, for each order 1..maxOrder, the
// distribution of child counts (spec.md §4.6: "Cn_k = number of k-grams
// with count = n"), feeding smoothing.ComputeD.
func (d *DynamicDictionary) Histograms() []smoothing.Histogram {
	hists := make([]smoothing.Histogram, d.maxOrder)
	for i := range hists {
		hists[i] = make(smoothing.Histogram)
	}
	var walk func(n *DynamicNode, depth int)
	walk = func(n *DynamicNode, depth int) {
		if n.children == nil {
			return
		}
		n.children.ForEachEntry(func(_ int32, child *DynamicNode) {
			order := depth + 1
			if order-1 < len(hists) {
				hists[order-1][child.count]++
			}
			walk(child, depth+1)
		})
	}
	walk(d.root, 0)
	return hists
}

// UpdateProbabilities recomputes frequency and childrenBackoffWeight for
// every node using absolute discounting with per-order D (spec.md §4.6).
func (d *DynamicDictionary) UpdateProbabilities(D []float32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	updateNodeProbabilities(d.root, 0, D)
}

// UpdateProbabilitiesUnder re-smooths only the sub-tree under prefix.
func (d *DynamicDictionary) UpdateProbabilitiesUnder(prefix []int32, D []float32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, ok := d.GetNodeForPrefix(prefix, 0)
	if !ok {
		return fmt.Errorf("ngram: no node for prefix")
	}
	updateNodeProbabilities(n, len(prefix), D)
	return nil
}

func updateNodeProbabilities(n *DynamicNode, depth int, D []float32) {
	order := depth + 1
	recomputeNode(n, dOrder(D, order))
	if n.children != nil {
		n.children.ForEachEntry(func(_ int32, child *DynamicNode) {
			updateNodeProbabilities(child, depth+1, D)
		})
	}
}

// recomputeNode applies the two closed-form smoothing identities of
// spec.md §4.6 to n's direct children only.
func recomputeNode(n *DynamicNode, dk float32) {
	if n.children == nil || n.children.Size() == 0 {
		n.backoff = 0
		return
	}
	var total int64
	n.children.ForEachEntry(func(_ int32, child *DynamicNode) { total += child.count })

	var freqSum float32
	if total > 0 {
		n.children.ForEachEntry(func(_ int32, child *DynamicNode) {
			f := float32(child.count) - dk
			if f < 0 {
				f = 0
			}
			f /= float32(total)
			child.frequency = f
			freqSum += f
		})
	}
	n.backoff = 1 - freqSum
}

func dOrder(D []float32, order int) float32 {
	if order-1 >= 0 && order-1 < len(D) {
		return D[order-1]
	}
	if len(D) > 0 {
		return D[len(D)-1]
	}
	return 0.5
}

// Prune applies cfg's pruning method bottom-up, re-running local
// smoothing on each parent after its edge decisions (spec.md §4.7).
//
// WEIGHTED_DIFFERENCE pruning here uses a deliberately simplified
// divergence estimate: a child's own smoothed frequency, rather than the
// full before/after interpolated probability (which would require
// threading the whole ancestor-prefix context through a bottom-up walk).
// See DESIGN.md.
func (d *DynamicDictionary) Prune(cfg smoothing.Config, D []float32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	pruneSubtree(d.root, 0, cfg, D)
}

func pruneSubtree(n *DynamicNode, depth int, cfg smoothing.Config, D []float32) {
	if n.children == nil {
		return
	}
	order := depth + 1
	n.children.ForEachEntry(func(_ int32, child *DynamicNode) {
		pruneSubtree(child, depth+1, cfg, D)
	})

	if cfg.PruningMethod == smoothing.PruneNone {
		return
	}

	dk := dOrder(D, order)
	var toRemove []int32
	switch cfg.PruningMethod {
	case smoothing.PruneRawCount, smoothing.PruneOrderCount:
		n.children.ForEachEntry(func(key int32, child *DynamicNode) {
			if cfg.ShouldPruneByCount(order, child.count) {
				toRemove = append(toRemove, key)
			}
		})
	case smoothing.PruneWeightedDifferenceRawProb, smoothing.PruneWeightedDifferenceFullProb:
		recomputeNode(n, dk)
		n.children.ForEachEntry(func(key int32, child *DynamicNode) {
			if float64(child.frequency) < cfg.NGramPruningWeightedDifferenceThreshold {
				toRemove = append(toRemove, key)
			}
		})
	}
	for _, key := range toRemove {
		n.children.Remove(key)
	}
	recomputeNode(n, dk)
}

// Save serializes the trie in the binary layout of spec.md §6.
// includeCount persists the raw count alongside probabilities, producing
// the dynamic-reopenable format; omit it to produce the static format.
func (d *DynamicDictionary) Save(w io.Writer, includeCount bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	recordSize := int64(staticChildRecordSize)
	rootSize := int64(staticRootRecordSize)
	if includeCount {
		recordSize = dynamicChildRecordSize
		rootSize = dynamicRootRecordSize
	}

	bodyStart := int64(4) + rootSize
	assignOffsets(d.root, bodyStart, recordSize)

	var buf bytes.Buffer
	writeI32(&buf, int32(d.maxOrder))
	writeI64(&buf, d.root.blockPosition)
	writeI32(&buf, d.root.blockCount)
	writeF32(&buf, d.root.frequency)
	writeF32(&buf, d.root.backoff)
	if includeCount {
		writeI64(&buf, d.root.count)
	}
	if err := writeBlocks(&buf, d.root, includeCount); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// assignOffsets assigns childrenBlockPosition/childrenCount to every node
// in the subtree rooted at n, in depth-first block order, starting the
// first block at offset (an absolute byte position from file start).
func assignOffsets(n *DynamicNode, offset int64, recordSize int64) int64 {
	if n.children == nil || n.children.Size() == 0 {
		n.blockPosition = -1
		n.blockCount = 0
		return offset
	}
	keys := sortedChildKeys(n.children)
	n.blockPosition = offset
	n.blockCount = int32(len(keys))
	offset += int64(len(keys)) * recordSize
	for _, key := range keys {
		child, _ := n.children.Get(key)
		offset = assignOffsets(child, offset, recordSize)
	}
	return offset
}

func writeBlocks(buf *bytes.Buffer, n *DynamicNode, includeCount bool) error {
	if n.children == nil || n.children.Size() == 0 {
		return nil
	}
	keys := sortedChildKeys(n.children)
	for _, key := range keys {
		child, _ := n.children.Get(key)
		writeI32(buf, child.wordID)
		writeF32(buf, child.frequency)
		writeF32(buf, child.backoff)
		writeI64(buf, child.blockPosition)
		writeI32(buf, child.blockCount)
		if includeCount {
			writeI64(buf, child.count)
		}
	}
	for _, key := range keys {
		child, _ := n.children.Get(key)
		if err := writeBlocks(buf, child, includeCount); err != nil {
			return err
		}
	}
	return nil
}

func sortedChildKeys(m *trie.NodeMap[*DynamicNode]) []int32 {
	var keys []int32
	m.ForEachKey(func(k int32) { keys = append(keys, k) })
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
