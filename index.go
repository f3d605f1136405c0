package fonttools

import (
	"fmt"
	"math"

	"github.com/tdewolff/parse/v2"
)

// ErrBadIndex is returned for malformed INDEX data.
var ErrBadIndex = fmt.Errorf("bad INDEX")

// ParseIndex parses a CFF INDEX and returns its items and the number of bytes it occupies. The items are slices of b.
func ParseIndex(b []byte) ([][]byte, int, error) {
	if len(b) < 2 {
		return nil, 0, fmt.Errorf("%w: truncated count", ErrBadIndex)
	}
	r := parse.NewBinaryReaderBytes(b)
	count := int(r.ReadUint16())
	if count == 0 {
		return [][]byte{}, 2, nil
	} else if len(b) < 3 {
		return nil, 0, fmt.Errorf("%w: truncated offSize", ErrBadIndex)
	}

	offSize := int(r.ReadUint8())
	if offSize == 0 || 4 < offSize {
		return nil, 0, fmt.Errorf("%w: offSize %d", ErrBadIndex, offSize)
	} else if len(b)-3 < offSize*(count+1) {
		return nil, 0, fmt.Errorf("%w: truncated offsets", ErrBadIndex)
	}

	offset := make([]int, count+1)
	for i := range offset {
		switch offSize {
		case 1:
			offset[i] = int(r.ReadUint8())
		case 2:
			offset[i] = int(r.ReadUint16())
		case 3:
			offset[i] = int(r.ReadUint24())
		default:
			offset[i] = int(r.ReadUint32())
		}
	}

	// offsets are relative to the byte before the data
	start := 3 + offSize*(count+1) - 1
	if offset[0] != 1 {
		return nil, 0, fmt.Errorf("%w: first offset %d", ErrBadIndex, offset[0])
	}
	items := make([][]byte, count)
	for i := 0; i < count; i++ {
		if offset[i+1] < offset[i] || len(b)-start < offset[i+1] {
			return nil, 0, fmt.Errorf("%w: offset %d out of range", ErrBadIndex, i+1)
		}
		items[i] = b[start+offset[i] : start+offset[i+1]]
	}
	return items, start + offset[count], nil
}

func indexOffSize(n int) int {
	if n <= 0xFF {
		return 1
	} else if n <= 0xFFFF {
		return 2
	} else if n <= 0xFFFFFF {
		return 3
	}
	return 4
}

// WriteIndex encodes the items as a CFF INDEX.
func WriteIndex(items [][]byte) ([]byte, error) {
	if math.MaxUint16 < len(items) {
		return nil, fmt.Errorf("%w: too many items", ErrBadIndex)
	} else if len(items) == 0 {
		return []byte{0, 0}, nil
	}

	size := 0
	for _, item := range items {
		size += len(item)
	}
	if math.MaxUint32-1 < int64(size) {
		return nil, fmt.Errorf("%w: too much data", ErrBadIndex)
	}

	offSize := indexOffSize(size + 1)
	w := parse.NewBinaryWriter(make([]byte, 0, 3+offSize*(len(items)+1)+size))
	w.WriteUint16(uint16(len(items)))
	w.WriteUint8(uint8(offSize))
	offset := 1
	for i := 0; i <= len(items); i++ {
		switch offSize {
		case 1:
			w.WriteUint8(uint8(offset))
		case 2:
			w.WriteUint16(uint16(offset))
		case 3:
			w.WriteUint24(uint32(offset))
		default:
			w.WriteUint32(uint32(offset))
		}
		if i < len(items) {
			offset += len(items[i])
		}
	}
	for _, item := range items {
		w.WriteBytes(item)
	}
	return w.Bytes(), nil
}

// NewSubrs returns undecoded programs for the items of a subroutine or CharStrings INDEX.
func NewSubrs(t Type, items [][]byte) []*Program {
	subrs := make([]*Program, len(items))
	for i, item := range items {
		subrs[i] = NewProgram(t, item)
	}
	return subrs
}
