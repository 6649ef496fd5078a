package amf

import (
	"bytes"
	"io"
	"math"
	"reflect"
	"testing"

	"github.com/pkg/errors"
)

func TestDecodeString(t *testing.T) {
	b := []byte{0x02, 0x00, 0x03, 'f', 'o', 'o'}
	v, n, err := DecodeValue(b)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(b) {
		t.Fatalf("consumed %d, want %d", n, len(b))
	}
	if v != "foo" {
		t.Fatalf("got %#v, want foo", v)
	}
}

func TestDecodeNumberPi(t *testing.T) {
	b := []byte{0x00, 0x40, 0x09, 0x21, 0xfb, 0x54, 0x44, 0x2d, 0x18}
	v, _, err := DecodeValue(b)
	if err != nil {
		t.Fatal(err)
	}
	f, ok := v.(float64)
	if !ok || math.Abs(f-math.Pi) > 1e-15 {
		t.Fatalf("got %#v, want pi", v)
	}
}

func TestDecodeSimpleValues(t *testing.T) {
	cases := []struct {
		name string
		b    []byte
		want Value
	}{
		{"true", []byte{0x01, 0x01}, true},
		{"false", []byte{0x01, 0x00}, false},
		{"null", []byte{0x05}, nil},
		{"undefined", []byte{0x06}, Undefined{}},
		{"reference", []byte{0x07, 0x00, 0x2a}, Reference(42)},
		{"longstring", []byte{0x0c, 0x00, 0x00, 0x00, 0x02, 'h', 'i'}, LongString("hi")},
		{"movieclip", []byte{0x04, 0x00, 0x01, 'x'}, MovieClip("x")},
	}
	for _, c := range cases {
		v, n, err := DecodeValue(c.b)
		if err != nil {
			t.Errorf("%s: %v", c.name, err)
			continue
		}
		if n != len(c.b) {
			t.Errorf("%s: consumed %d of %d", c.name, n, len(c.b))
		}
		if !reflect.DeepEqual(v, c.want) {
			t.Errorf("%s: got %#v, want %#v", c.name, v, c.want)
		}
	}
}

func TestDecodeObject(t *testing.T) {
	b := []byte{
		0x03,
		0x00, 0x01, 'a', 0x00, 0x3f, 0xf0, 0, 0, 0, 0, 0, 0, // a: 1.0
		0x00, 0x01, 'b', 0x01, 0x01, // b: true
		0x00, 0x00, 0x09,
	}
	v, n, err := DecodeValue(b)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(b) {
		t.Fatalf("consumed %d, want %d", n, len(b))
	}
	want := Object{{Key: "a", Value: float64(1)}, {Key: "b", Value: true}}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("got %#v, want %#v", v, want)
	}
}

func TestDecodeObjectMissingEndMarker(t *testing.T) {
	b := []byte{
		0x03,
		0x00, 0x01, 'a', 0x01, 0x01,
		// input ends without 00 00 09
	}
	_, _, err := DecodeValue(b)
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Cause(err) != ErrMissingObjectEnd {
		t.Fatalf("got %v, want ErrMissingObjectEnd", err)
	}
}

func TestDecodeObjectEmptyKeyPair(t *testing.T) {
	// A zero-length key followed by anything but 0x09 is a real pair.
	b := []byte{
		0x03,
		0x00, 0x00, 0x01, 0x01, // "": true
		0x00, 0x00, 0x09,
	}
	v, _, err := DecodeValue(b)
	if err != nil {
		t.Fatal(err)
	}
	want := Object{{Key: "", Value: true}}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("got %#v, want %#v", v, want)
	}
}

func TestDecodeEcmaArrayAdvisoryCount(t *testing.T) {
	// Declared count says 99 but termination is the end marker.
	b := []byte{
		0x08, 0x00, 0x00, 0x00, 0x63,
		0x00, 0x01, 'k', 0x02, 0x00, 0x01, 'v',
		0x00, 0x00, 0x09,
	}
	v, n, err := DecodeValue(b)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(b) {
		t.Fatalf("consumed %d, want %d", n, len(b))
	}
	want := EcmaArray{{Key: "k", Value: "v"}}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("got %#v, want %#v", v, want)
	}
}

func TestDecodeStrictArray(t *testing.T) {
	b := []byte{
		0x0a, 0x00, 0x00, 0x00, 0x02,
		0x00, 0x3f, 0xf0, 0, 0, 0, 0, 0, 0,
		0x00, 0x40, 0x00, 0, 0, 0, 0, 0, 0,
	}
	v, _, err := DecodeValue(b)
	if err != nil {
		t.Fatal(err)
	}
	want := StrictArray{float64(1), float64(2)}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("got %#v, want %#v", v, want)
	}
}

func TestDecodeDate(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeValue(&buf, Date{Millis: 1234567890000, TimezoneOffset: -120}); err != nil {
		t.Fatal(err)
	}
	v, _, err := DecodeValue(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	d, ok := v.(Date)
	if !ok || d.Millis != 1234567890000 || d.TimezoneOffset != -120 {
		t.Fatalf("got %#v", v)
	}
}

func TestDecodeUnsupportedMarker(t *testing.T) {
	_, _, err := DecodeValue([]byte{0x0d})
	if errors.Cause(err) != ErrUnsupportedMarker {
		t.Fatalf("got %v, want ErrUnsupportedMarker", err)
	}
}

func TestDecodeShortInput(t *testing.T) {
	_, _, err := DecodeValue([]byte{0x00, 0x40, 0x09})
	if errors.Cause(err) != io.ErrUnexpectedEOF {
		t.Fatalf("got %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestDecodeDepthLimit(t *testing.T) {
	// Strict arrays each wrapping one element recurse without bound.
	var b []byte
	for i := 0; i < 100; i++ {
		b = append(b, 0x0a, 0x00, 0x00, 0x00, 0x01)
	}
	b = append(b, 0x05)
	_, _, err := DecodeValueDepth(b, 16)
	if errors.Cause(err) != ErrDepthLimit {
		t.Fatalf("got %v, want ErrDepthLimit", err)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	values := []Value{
		float64(3.5),
		true,
		"foo",
		Object{{Key: "a", Value: float64(1)}, {Key: "b", Value: true}},
		StrictArray{float64(1), float64(2)},
		nil,
		LongString("long"),
		EcmaArray{{Key: "duration", Value: float64(28.133)}},
		Reference(7),
		Undefined{},
	}
	for _, want := range values {
		var buf bytes.Buffer
		if err := EncodeValue(&buf, want); err != nil {
			t.Fatalf("encode %#v: %v", want, err)
		}
		got, n, err := DecodeValue(buf.Bytes())
		if err != nil {
			t.Fatalf("decode %#v: %v", want, err)
		}
		if n != buf.Len() {
			t.Errorf("%#v: consumed %d of %d", want, n, buf.Len())
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("round trip: got %#v, want %#v", got, want)
		}
	}
}

func TestParseMetaData(t *testing.T) {
	props := EcmaArray{
		{Key: "duration", Value: float64(28.133)},
		{Key: "width", Value: float64(464)},
		{Key: "height", Value: float64(348)},
		{Key: "videocodecid", Value: float64(4)},
		{Key: "audiocodecid", Value: float64(2)},
		{Key: "framerate", Value: float64(30)},
		{Key: "stereo", Value: true},
		{Key: "encoder", Value: "Lavf58.29.100"},
	}
	m := ParseMetaData([]Pair{{Key: MetaDataName, Value: props}})
	if m == nil {
		t.Fatal("no metadata found")
	}
	if m.Duration != 28.133 || m.Width != 464 || m.Height != 348 {
		t.Errorf("dimensions wrong: %+v", m)
	}
	if m.VideoCodecID != 4 || m.AudioCodecID != 2 || m.FrameRate != 30 {
		t.Errorf("codec info wrong: %+v", m)
	}
	if !m.Stereo || m.Encoder != "Lavf58.29.100" {
		t.Errorf("flags wrong: %+v", m)
	}

	if ParseMetaData([]Pair{{Key: "onCuePoint", Value: Object{}}}) != nil {
		t.Error("unexpected metadata from onCuePoint")
	}
}
