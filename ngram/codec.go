package ngram

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Fixed record sizes for the on-disk layout of spec.md §6. The static
// layout omits the count field; the dynamic layout (used when reopening
// a dynamic dictionary for further training) appends it.
const (
	staticChildRecordSize  = 4 + 4 + 4 + 8 + 4     // wordId,freq,backoff,blockPos,blockCount
	staticRootRecordSize   = 8 + 4 + 4 + 4          // blockPos,blockCount,freq,backoff
	dynamicChildRecordSize = staticChildRecordSize + 8 // + count
	dynamicRootRecordSize  = staticRootRecordSize + 8  // + count
)

func writeI32(buf *bytes.Buffer, v int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	buf.Write(b[:])
}

func writeI64(buf *bytes.Buffer, v int64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	buf.Write(b[:])
}

func writeF32(buf *bytes.Buffer, v float32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
	buf.Write(b[:])
}

func readI32(b []byte) int32 { return int32(binary.LittleEndian.Uint32(b)) }
func readI64(b []byte) int64 { return int64(binary.LittleEndian.Uint64(b)) }
func readF32(b []byte) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b)) }
