package snapshot

import (
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"fortio.org/safecast"
)

// offsetMap converts snapshot offsets to byte offsets. units[i] is the byte
// offset of UTF-16 unit i; the second unit of a surrogate pair maps to the
// start of its rune. A nil units slice means offsets are already bytes.
type offsetMap struct {
	units []uint32
	size  int
}

func newOffsetMap(text []byte, enc Encoding) (*offsetMap, error) {
	m := &offsetMap{size: len(text)}
	if enc == EncodingUTF8 || isASCII(text) {
		return m, nil
	}
	m.units = make([]uint32, 0, len(text)+1)
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRune(text[i:])
		n := utf16.RuneLen(r)
		if n < 1 {
			n = 1
		}
		at, err := safecast.Conv[uint32](i)
		if err != nil {
			return nil, fmt.Errorf("text too large: %w", err)
		}
		for range n {
			m.units = append(m.units, at)
		}
		i += size
	}
	end, err := safecast.Conv[uint32](len(text))
	if err != nil {
		return nil, fmt.Errorf("text too large: %w", err)
	}
	m.units = append(m.units, end)
	return m, nil
}

// byteOffset converts off; the end of the text is a valid offset.
func (m *offsetMap) byteOffset(off int) (uint32, error) {
	if m.units == nil {
		if off < 0 || off > m.size {
			return 0, fmt.Errorf("%w: %d (text is %d bytes)", ErrOffsetRange, off, m.size)
		}
		return safecast.Conv[uint32](off)
	}
	if off < 0 || off >= len(m.units) {
		return 0, fmt.Errorf("%w: %d (text is %d UTF-16 units)", ErrOffsetRange, off, len(m.units)-1)
	}
	return m.units[off], nil
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
