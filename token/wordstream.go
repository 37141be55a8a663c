package token

import (
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// WordRecordType discriminates the word-stream record shapes (§4.1).
type WordRecordType uint8

const (
	WordRecordSimple WordRecordType = iota
	WordRecordUser
	WordRecordEquivalenceClass
	WordRecordTag
)

// WordRecord is the on-disk shape of a Word (dict.Word is the in-memory
// counterpart; this package stays free of a dict import so the codec can
// be unit-tested without the dictionary's case-policy machinery).
type WordRecord struct {
	Type             WordRecordType
	ID               int32
	Text             string // Simple/User
	ProbFactor       float32
	ModifiedByUser   bool
	ModifiedBySystem bool
	ForceInvalid     bool
	ForceValid       bool
	UsageCount       int32 // User only
	LastUseEpochMs   int64 // User only
	ClassKind        EquivalenceClassKind // EquivalenceClass only
	Tag              TagKind              // Tag only
}

// WordStreamWriter gzip-compresses the word stream, per spec.md §4.1 /
// §6 ("Gzip-compressed binary stream of word records").
type WordStreamWriter struct {
	gz *gzip.Writer
}

func NewWordStreamWriter(w io.Writer) *WordStreamWriter {
	return &WordStreamWriter{gz: gzip.NewWriter(w)}
}

func (w *WordStreamWriter) Close() error { return w.gz.Close() }

func (w *WordStreamWriter) Write(rec WordRecord) error {
	if err := writeU8(w.gz, byte(rec.Type)); err != nil {
		return err
	}
	if err := writeI32(w.gz, rec.ID); err != nil {
		return err
	}
	switch rec.Type {
	case WordRecordSimple, WordRecordUser:
		if err := writeString(w.gz, rec.Text); err != nil {
			return err
		}
		if err := writeF32(w.gz, rec.ProbFactor); err != nil {
			return err
		}
		if err := writeBool(w.gz, rec.ModifiedByUser); err != nil {
			return err
		}
		if err := writeBool(w.gz, rec.ModifiedBySystem); err != nil {
			return err
		}
		if err := writeBool(w.gz, rec.ForceInvalid); err != nil {
			return err
		}
		if err := writeBool(w.gz, rec.ForceValid); err != nil {
			return err
		}
		if rec.Type == WordRecordUser {
			if err := writeI32(w.gz, rec.UsageCount); err != nil {
				return err
			}
			if err := writeI64(w.gz, rec.LastUseEpochMs); err != nil {
				return err
			}
		}
	case WordRecordEquivalenceClass:
		return writeU8(w.gz, byte(rec.ClassKind))
	case WordRecordTag:
		return writeU8(w.gz, byte(rec.Tag))
	default:
		return fmt.Errorf("%w: %d", ErrUnknownTokenType, rec.Type)
	}
	return nil
}

// WordStreamReader decodes a gzip-compressed word stream.
type WordStreamReader struct {
	gz *gzip.Reader
}

func NewWordStreamReader(r io.Reader) (*WordStreamReader, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("token: open word stream: %w", err)
	}
	return &WordStreamReader{gz: gz}, nil
}

func (r *WordStreamReader) Close() error { return r.gz.Close() }

func (r *WordStreamReader) Read() (WordRecord, error) {
	typeByte, err := readU8(r.gz)
	if err != nil {
		return WordRecord{}, err // propagates io.EOF unchanged
	}
	id, err := readI32(r.gz)
	if err != nil {
		return WordRecord{}, fmt.Errorf("%w: id", ErrTruncatedRecord)
	}
	rec := WordRecord{Type: WordRecordType(typeByte), ID: id}
	switch rec.Type {
	case WordRecordSimple, WordRecordUser:
		text, err := readString(r.gz)
		if err != nil {
			return WordRecord{}, fmt.Errorf("token: decode word text: %w", err)
		}
		rec.Text = text
		if rec.ProbFactor, err = readF32(r.gz); err != nil {
			return WordRecord{}, fmt.Errorf("%w: probFactor", ErrTruncatedRecord)
		}
		if rec.ModifiedByUser, err = readBool(r.gz); err != nil {
			return WordRecord{}, fmt.Errorf("%w: modifiedByUser", ErrTruncatedRecord)
		}
		if rec.ModifiedBySystem, err = readBool(r.gz); err != nil {
			return WordRecord{}, fmt.Errorf("%w: modifiedBySystem", ErrTruncatedRecord)
		}
		if rec.ForceInvalid, err = readBool(r.gz); err != nil {
			return WordRecord{}, fmt.Errorf("%w: forceInvalid", ErrTruncatedRecord)
		}
		if rec.ForceValid, err = readBool(r.gz); err != nil {
			return WordRecord{}, fmt.Errorf("%w: forceValid", ErrTruncatedRecord)
		}
		if rec.Type == WordRecordUser {
			cnt, err := readI32(r.gz)
			if err != nil {
				return WordRecord{}, fmt.Errorf("%w: usageCount", ErrTruncatedRecord)
			}
			rec.UsageCount = cnt
			last, err := readI64(r.gz)
			if err != nil {
				return WordRecord{}, fmt.Errorf("%w: lastUseEpochMillis", ErrTruncatedRecord)
			}
			rec.LastUseEpochMs = last
		}
	case WordRecordEquivalenceClass:
		b, err := readU8(r.gz)
		if err != nil {
			return WordRecord{}, fmt.Errorf("%w: classKind", ErrTruncatedRecord)
		}
		rec.ClassKind = EquivalenceClassKind(b)
	case WordRecordTag:
		b, err := readU8(r.gz)
		if err != nil {
			return WordRecord{}, fmt.Errorf("%w: tag", ErrTruncatedRecord)
		}
		rec.Tag = TagKind(b)
	default:
		return WordRecord{}, fmt.Errorf("%w: %d", ErrUnknownTokenType, rec.Type)
	}
	return rec, nil
}

// ReadAllWords drains a WordStreamReader, treating io.EOF as a normal end.
func ReadAllWords(r *WordStreamReader) ([]WordRecord, error) {
	var out []WordRecord
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, err
		}
		out = append(out, rec)
	}
}

// --- small scalar helpers shared by the token stream and word stream codecs.

func writeU8(w io.Writer, v byte) error {
	_, err := w.Write([]byte{v})
	return err
}

func readU8(r io.Reader) (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func writeBool(w io.Writer, v bool) error {
	if v {
		return writeU8(w, 1)
	}
	return writeU8(w, 0)
}

func readBool(r io.Reader) (bool, error) {
	b, err := readU8(r)
	return b != 0, err
}

func writeI32(w io.Writer, v int32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(v))
	_, err := w.Write(buf[:])
	return err
}

func readI32(r io.Reader) (int32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(buf[:])), nil
}

func writeI64(w io.Writer, v int64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	_, err := w.Write(buf[:])
	return err
}

func readI64(r io.Reader) (int64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(buf[:])), nil
}

func writeF32(w io.Writer, v float32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
	_, err := w.Write(buf[:])
	return err
}

func readF32(r io.Reader) (float32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[:])), nil
}
