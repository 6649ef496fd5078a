// Package amf implements the AMF0 scripting-value encoding used by FLV
// script-data tags. Values decode to a small dynamic type set: float64,
// bool, string, LongString, Object, EcmaArray, StrictArray, Date,
// Reference, MovieClip, nil and Undefined.
package amf

// AMF0 type markers.
const (
	NumberMarker      = 0x00
	BooleanMarker     = 0x01
	StringMarker      = 0x02
	ObjectMarker      = 0x03
	MovieClipMarker   = 0x04
	NullMarker        = 0x05
	UndefinedMarker   = 0x06
	ReferenceMarker   = 0x07
	EcmaArrayMarker   = 0x08
	ObjectEndMarker   = 0x09
	StrictArrayMarker = 0x0a
	DateMarker        = 0x0b
	LongStringMarker  = 0x0c
)

// Value is one decoded AMF0 value. The concrete type is one of:
// float64, bool, string, LongString, Object, EcmaArray, StrictArray,
// Date, Reference, MovieClip, Undefined, or nil for Null.
type Value interface{}

// Pair is a named property inside an Object or EcmaArray. Order is
// preserved as found on the wire.
type Pair struct {
	Key   string
	Value Value
}

// Object is an ordered property list terminated on the wire by the
// empty-key end marker (00 00 09).
type Object []Pair

// EcmaArray is wire-compatible with Object apart from a leading
// advisory count; the count is not trusted for termination.
type EcmaArray []Pair

type StrictArray []Value

// LongString is a string with a 4-byte length prefix (marker 0x0c).
type LongString string

// MovieClip is a movie clip path (marker 0x04, reserved but seen in the
// wild).
type MovieClip string

// Reference is an index into the sender's object table. The table is
// not reconstructed here; resolving the index is the caller's concern.
type Reference uint16

type Undefined struct{}

// Date carries epoch milliseconds and the raw timezone offset field.
// The offset is kept verbatim, not applied.
type Date struct {
	Millis         float64
	TimezoneOffset int16
}

// Get returns the value for key and whether it was present.
func (o Object) Get(key string) (Value, bool) {
	for _, p := range o {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

func (a EcmaArray) Get(key string) (Value, bool) {
	return Object(a).Get(key)
}
