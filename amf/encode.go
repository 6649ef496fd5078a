package amf

import (
	"io"
	"math"

	"github.com/pkg/errors"

	"github.com/go-flv/flvdec/utils/pio"
)

var ErrUnsupportedValue = errors.New("amf: cannot encode value of this type")

// EncodeValue writes one AMF0 value, marker included. Go strings encode
// as short strings when they fit in 16 bits of length and as long
// strings otherwise.
func EncodeValue(w io.Writer, v Value) error {
	var scratch [10]byte
	switch t := v.(type) {
	case nil:
		return writeByte(w, NullMarker)
	case Undefined:
		return writeByte(w, UndefinedMarker)
	case float64:
		if err := writeByte(w, NumberMarker); err != nil {
			return err
		}
		pio.PutU64BE(scratch[:8], math.Float64bits(t))
		_, err := w.Write(scratch[:8])
		return err
	case int:
		return EncodeValue(w, float64(t))
	case bool:
		if err := writeByte(w, BooleanMarker); err != nil {
			return err
		}
		if t {
			return writeByte(w, 1)
		}
		return writeByte(w, 0)
	case string:
		if len(t) > 0xffff {
			return EncodeValue(w, LongString(t))
		}
		if err := writeByte(w, StringMarker); err != nil {
			return err
		}
		return writeString16(w, t)
	case LongString:
		if err := writeByte(w, LongStringMarker); err != nil {
			return err
		}
		pio.PutU32BE(scratch[:4], uint32(len(t)))
		if _, err := w.Write(scratch[:4]); err != nil {
			return err
		}
		_, err := io.WriteString(w, string(t))
		return err
	case MovieClip:
		if err := writeByte(w, MovieClipMarker); err != nil {
			return err
		}
		return writeString16(w, string(t))
	case Reference:
		if err := writeByte(w, ReferenceMarker); err != nil {
			return err
		}
		pio.PutU16BE(scratch[:2], uint16(t))
		_, err := w.Write(scratch[:2])
		return err
	case Object:
		if err := writeByte(w, ObjectMarker); err != nil {
			return err
		}
		return writePairs(w, t)
	case EcmaArray:
		if err := writeByte(w, EcmaArrayMarker); err != nil {
			return err
		}
		pio.PutU32BE(scratch[:4], uint32(len(t)))
		if _, err := w.Write(scratch[:4]); err != nil {
			return err
		}
		return writePairs(w, t)
	case StrictArray:
		if err := writeByte(w, StrictArrayMarker); err != nil {
			return err
		}
		pio.PutU32BE(scratch[:4], uint32(len(t)))
		if _, err := w.Write(scratch[:4]); err != nil {
			return err
		}
		for _, el := range t {
			if err := EncodeValue(w, el); err != nil {
				return err
			}
		}
		return nil
	case Date:
		if err := writeByte(w, DateMarker); err != nil {
			return err
		}
		pio.PutU64BE(scratch[:8], math.Float64bits(t.Millis))
		pio.PutI16BE(scratch[8:10], t.TimezoneOffset)
		_, err := w.Write(scratch[:10])
		return err
	default:
		return errors.Wrapf(ErrUnsupportedValue, "%T", v)
	}
}

func writePairs(w io.Writer, pairs []Pair) error {
	for _, p := range pairs {
		if err := writeString16(w, p.Key); err != nil {
			return err
		}
		if err := EncodeValue(w, p.Value); err != nil {
			return err
		}
	}
	_, err := w.Write([]byte{0x00, 0x00, ObjectEndMarker})
	return err
}

func writeString16(w io.Writer, s string) error {
	var l [2]byte
	pio.PutU16BE(l[:], uint16(len(s)))
	if _, err := w.Write(l[:]); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func writeByte(w io.Writer, b byte) error {
	_, err := w.Write([]byte{b})
	return err
}
