package amf

import (
	"io"
	"math"

	"github.com/pkg/errors"

	"github.com/go-flv/flvdec/utils/pio"
)

var (
	ErrUnsupportedMarker = errors.New("amf: unsupported type marker")
	ErrMissingObjectEnd  = errors.New("amf: object not terminated by end marker")
	ErrDepthLimit        = errors.New("amf: value nesting too deep")
)

// DefaultMaxDepth bounds recursion on adversarial input. Real metadata
// rarely nests more than three or four levels.
const DefaultMaxDepth = 32

// DecodeValue decodes one AMF0 value from the front of b and returns it
// with the number of bytes consumed. Exhausting b mid-value fails with
// io.ErrUnexpectedEOF; the input is expected to be complete.
func DecodeValue(b []byte) (Value, int, error) {
	return DecodeValueDepth(b, DefaultMaxDepth)
}

// DecodeValueDepth is DecodeValue with an explicit recursion cap.
func DecodeValueDepth(b []byte, maxDepth int) (Value, int, error) {
	d := decoder{b: b}
	v, err := d.value(maxDepth)
	if err != nil {
		return nil, d.pos, err
	}
	return v, d.pos, nil
}

// DecodeString decodes a short-string value (marker 0x02), the form
// script-data property names use.
func DecodeString(b []byte) (string, int, error) {
	d := decoder{b: b}
	m, err := d.u8()
	if err != nil {
		return "", d.pos, err
	}
	if m != StringMarker {
		return "", d.pos, errors.Wrapf(ErrUnsupportedMarker, "want string, got marker 0x%02x", m)
	}
	s, err := d.string16()
	return s, d.pos, err
}

type decoder struct {
	b   []byte
	pos int
}

func (d *decoder) take(n int) ([]byte, error) {
	if len(d.b)-d.pos < n {
		return nil, io.ErrUnexpectedEOF
	}
	b := d.b[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *decoder) u8() (uint8, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *decoder) string16() (string, error) {
	b, err := d.take(2)
	if err != nil {
		return "", err
	}
	s, err := d.take(int(pio.U16BE(b)))
	if err != nil {
		return "", err
	}
	return string(s), nil
}

func (d *decoder) string32() (string, error) {
	b, err := d.take(4)
	if err != nil {
		return "", err
	}
	s, err := d.take(int(pio.U32BE(b)))
	if err != nil {
		return "", err
	}
	return string(s), nil
}

func (d *decoder) value(depth int) (Value, error) {
	if depth <= 0 {
		return nil, ErrDepthLimit
	}
	marker, err := d.u8()
	if err != nil {
		return nil, err
	}
	switch marker {
	case NumberMarker:
		b, err := d.take(8)
		if err != nil {
			return nil, err
		}
		return math.Float64frombits(pio.U64BE(b)), nil
	case BooleanMarker:
		v, err := d.u8()
		if err != nil {
			return nil, err
		}
		return v != 0, nil
	case StringMarker:
		s, err := d.string16()
		if err != nil {
			return nil, err
		}
		return s, nil
	case ObjectMarker:
		pairs, err := d.pairs(depth - 1)
		if err != nil {
			return nil, err
		}
		return Object(pairs), nil
	case MovieClipMarker:
		s, err := d.string16()
		if err != nil {
			return nil, err
		}
		return MovieClip(s), nil
	case NullMarker:
		return nil, nil
	case UndefinedMarker:
		return Undefined{}, nil
	case ReferenceMarker:
		b, err := d.take(2)
		if err != nil {
			return nil, err
		}
		return Reference(pio.U16BE(b)), nil
	case EcmaArrayMarker:
		// The declared count is advisory; pairs terminate on the end
		// marker exactly like an object.
		if _, err := d.take(4); err != nil {
			return nil, err
		}
		pairs, err := d.pairs(depth - 1)
		if err != nil {
			return nil, err
		}
		return EcmaArray(pairs), nil
	case StrictArrayMarker:
		b, err := d.take(4)
		if err != nil {
			return nil, err
		}
		count := pio.U32BE(b)
		arr := make(StrictArray, 0, minInt(int(count), 1024))
		for i := uint32(0); i < count; i++ {
			v, err := d.value(depth - 1)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case DateMarker:
		b, err := d.take(10)
		if err != nil {
			return nil, err
		}
		return Date{
			Millis:         math.Float64frombits(pio.U64BE(b[:8])),
			TimezoneOffset: pio.I16BE(b[8:10]),
		}, nil
	case LongStringMarker:
		s, err := d.string32()
		if err != nil {
			return nil, err
		}
		return LongString(s), nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedMarker, "marker 0x%02x", marker)
	}
}

// pairs reads (key, value) properties until the end marker 00 00 09.
// A zero-length key terminates only when followed by the end marker;
// otherwise it is an ordinary (if unusual) property.
func (d *decoder) pairs(depth int) ([]Pair, error) {
	var out []Pair
	for {
		kb, err := d.take(2)
		if err != nil {
			return nil, errors.WithMessage(ErrMissingObjectEnd, "input ended inside object")
		}
		keyLen := int(pio.U16BE(kb))
		if keyLen == 0 {
			m, err := d.u8()
			if err != nil {
				return nil, errors.WithMessage(ErrMissingObjectEnd, "input ended inside object")
			}
			if m == ObjectEndMarker {
				return out, nil
			}
			// Empty key with a real value: rewind the marker byte and
			// decode it as this pair's value.
			d.pos--
		}
		key, err := d.take(keyLen)
		if err != nil {
			return nil, errors.WithMessage(ErrMissingObjectEnd, "input ended inside object key")
		}
		v, err := d.value(depth)
		if err != nil {
			return nil, err
		}
		out = append(out, Pair{Key: string(key), Value: v})
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
