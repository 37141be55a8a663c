package token

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Decode errors are fatal to the current operation, per spec.md §7. EOF is
// the only non-error end-of-stream signal.
var (
	ErrUnknownTokenType = errors.New("token: unknown type byte in stream")
	ErrTruncatedRecord  = errors.New("token: truncated record")
)

// StreamWriter encodes Tokens as "[type:u8][payload]" per spec.md §4.1.
// It mirrors the teacher's style of writing fixed binary headers directly
// with encoding/binary rather than a general-purpose serialization library.
type StreamWriter struct {
	w *bufio.Writer
}

func NewStreamWriter(w io.Writer) *StreamWriter {
	return &StreamWriter{w: bufio.NewWriter(w)}
}

func (sw *StreamWriter) Flush() error { return sw.w.Flush() }

func (sw *StreamWriter) Write(t Token) error {
	if err := sw.w.WriteByte(byte(t.Kind)); err != nil {
		return err
	}
	switch t.Kind {
	case KindWord:
		return writeString(sw.w, t.Text)
	case KindEquivalenceClass:
		if err := sw.w.WriteByte(byte(t.ClassKind)); err != nil {
			return err
		}
		return writeString(sw.w, t.ClassText)
	case KindSeparator:
		return sw.w.WriteByte(byte(t.Separator))
	case KindTag:
		return sw.w.WriteByte(byte(t.Tag))
	default:
		return fmt.Errorf("%w: %d", ErrUnknownTokenType, t.Kind)
	}
}

func writeString(w io.Writer, s string) error {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(s)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

// StreamReader decodes the token stream written by StreamWriter.
type StreamReader struct {
	r *bufio.Reader
}

func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{r: bufio.NewReader(r)}
}

// Read returns the next Token, or io.EOF at a clean end of stream. Any
// other error is fatal to the current decode, per spec.md §7.
func (sr *StreamReader) Read() (Token, error) {
	kindByte, err := sr.r.ReadByte()
	if err != nil {
		return Token{}, err // propagates io.EOF unchanged
	}
	switch Kind(kindByte) {
	case KindWord:
		text, err := readString(sr.r)
		if err != nil {
			return Token{}, fmt.Errorf("token: decode word: %w", err)
		}
		return NewWord(text), nil
	case KindEquivalenceClass:
		classByte, err := sr.r.ReadByte()
		if err != nil {
			return Token{}, fmt.Errorf("%w: equivalence class id: %v", ErrTruncatedRecord, err)
		}
		text, err := readString(sr.r)
		if err != nil {
			return Token{}, fmt.Errorf("token: decode equivalence class: %w", err)
		}
		return NewEquivalenceClass(EquivalenceClassKind(classByte), text), nil
	case KindSeparator:
		sepByte, err := sr.r.ReadByte()
		if err != nil {
			return Token{}, fmt.Errorf("%w: separator id: %v", ErrTruncatedRecord, err)
		}
		return NewSeparator(SeparatorID(sepByte)), nil
	case KindTag:
		tagByte, err := sr.r.ReadByte()
		if err != nil {
			return Token{}, fmt.Errorf("%w: tag id: %v", ErrTruncatedRecord, err)
		}
		return NewTag(TagKind(tagByte)), nil
	default:
		return Token{}, fmt.Errorf("%w: %d", ErrUnknownTokenType, kindByte)
	}
}

func readString(r io.Reader) (string, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%w: string length", ErrTruncatedRecord)
		}
		return "", err
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("%w: string body", ErrTruncatedRecord)
	}
	return string(buf), nil
}

// ReadAll drains a StreamReader into a slice, treating io.EOF as a normal
// end of stream.
func ReadAll(sr *StreamReader) ([]Token, error) {
	var out []Token
	for {
		t, err := sr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, err
		}
		out = append(out, t)
	}
}
