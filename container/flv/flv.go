// Package flv decodes the FLV container format incrementally: the
// 9-byte file header followed by (previous-tag-size, tag) pairs, with
// audio, video and script-data payload decoding. Input may arrive in
// chunks of any size; the Demuxer suspends with ErrNeedMoreData instead
// of failing when a structure is split across chunks.
package flv

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/go-flv/flvdec/utils/pio"
)

const (
	HeaderLen      = 9
	TagHeaderLen   = 11
	PrevTagSizeLen = 4
)

var signature = []byte{'F', 'L', 'V'}

// Header is the decoded 9-byte file header.
type Header struct {
	Version    uint8
	HasAudio   bool
	HasVideo   bool
	DataOffset uint32
}

// ParseHeader decodes exactly the first HeaderLen bytes of a stream.
// The audio flag is bit 2 of the flags byte and the video flag bit 0.
// Bytes between HeaderLen and DataOffset, if any, are not consumed
// here; the demuxer skips them before tag parsing begins.
func ParseHeader(b []byte) (*Header, error) {
	if len(b) < HeaderLen {
		return nil, errors.Errorf("header needs %d bytes, have %d", HeaderLen, len(b))
	}
	if !bytes.Equal(b[:3], signature) {
		return nil, errors.Errorf("bad signature % x", b[:3])
	}
	flags := b[4]
	h := &Header{
		Version:    b[3],
		HasAudio:   flags&0x04 != 0,
		HasVideo:   flags&0x01 != 0,
		DataOffset: pio.U32BE(b[5:9]),
	}
	if h.DataOffset < HeaderLen {
		return nil, errors.Errorf("data offset %d below header size", h.DataOffset)
	}
	return h, nil
}
