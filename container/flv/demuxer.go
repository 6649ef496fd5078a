package flv

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/go-flv/flvdec/amf"
	"github.com/go-flv/flvdec/av"
	"github.com/go-flv/flvdec/configure"
	"github.com/go-flv/flvdec/utils/pio"
	"github.com/go-flv/flvdec/utils/pool"
	"github.com/go-flv/flvdec/utils/uid"
)

type demuxState int

const (
	stateHeader demuxState = iota
	statePrevTagSize
	stateTagHeader
	statePayload
	stateDone
)

// Options tune a single Demuxer instance.
type Options struct {
	// MaxAMFDepth caps script-data value nesting. Zero means
	// amf.DefaultMaxDepth.
	MaxAMFDepth int

	// StrictPrevTagSize turns previous-tag-size mismatches from a
	// warning into a fatal error, for validation tooling.
	StrictPrevTagSize bool
}

// DefaultOptions reads the configured defaults.
func DefaultOptions() Options {
	return Options{
		MaxAMFDepth:       configure.Config.GetInt("max_amf_depth"),
		StrictPrevTagSize: configure.Config.GetBool("strict_prev_tag_size"),
	}
}

// Demuxer walks an FLV byte stream tag by tag. It is a pull parser:
// each Next call receives every byte not yet reported consumed and
// either yields one tag, suspends for more input, finishes, or fails
// fatally. A Demuxer serves exactly one stream; independent streams get
// independent instances and need no synchronization between them.
type Demuxer struct {
	uid    string
	opt    Options
	state  demuxState
	header *Header

	gap            uint32 // bytes left to skip between header and data offset
	expectPrevSize uint32 // header+payload size of the previously decoded tag
	consumed       uint64
	pending        *Tag

	// last seen timestamps, for the advisory monotonicity check
	lastAudioTS uint32
	lastVideoTS uint32

	pool *pool.Pool
	err  error
}

func NewDemuxer() *Demuxer {
	return NewDemuxerOptions(DefaultOptions())
}

func NewDemuxerOptions(opt Options) *Demuxer {
	if opt.MaxAMFDepth <= 0 {
		opt.MaxAMFDepth = amf.DefaultMaxDepth
	}
	return &Demuxer{
		uid:  uid.NewId(),
		opt:  opt,
		pool: pool.NewPool(),
	}
}

// Header returns the decoded file header, or nil before it has been
// parsed.
func (d *Demuxer) Header() *Header {
	return d.header
}

// Consumed is the total number of bytes reported consumed so far; it is
// also the absolute offset of the next unparsed byte.
func (d *Demuxer) Consumed() uint64 {
	return d.consumed
}

// Next decodes the next tag from data, which must start at the first
// not-yet-consumed byte of the stream. atEOF tells the demuxer whether
// the input can still grow. The outcomes are:
//
//	tag, n, nil            one tag decoded, n bytes consumed
//	nil, n, ErrNeedMoreData structure incomplete; append input, retry
//	nil, n, io.EOF          clean end of stream at a tag boundary
//	nil, n, *ParseError     fatal; no further tags will be yielded
//
// Bytes reported consumed are never re-read: the caller may discard
// them from its buffer.
func (d *Demuxer) Next(data []byte, atEOF bool) (*Tag, int, error) {
	if d.err != nil {
		return nil, 0, d.err
	}
	if d.state == stateDone {
		return nil, 0, io.EOF
	}

	n := 0
	for {
		switch d.state {
		case stateHeader:
			if len(data) < HeaderLen {
				if atEOF {
					return nil, n, d.fatal(ErrMalformedHeader, d.consumed, "input ends inside file header")
				}
				return nil, n, ErrNeedMoreData
			}
			h, err := ParseHeader(data[:HeaderLen])
			if err != nil {
				return nil, n, d.fatal(ErrMalformedHeader, d.consumed, err.Error())
			}
			d.header = h
			d.gap = h.DataOffset - HeaderLen
			data = d.advance(data, &n, HeaderLen)
			d.state = statePrevTagSize
			log.WithField("demuxer", d.uid).Debugf("flv header: version=%d audio=%v video=%v offset=%d",
				h.Version, h.HasAudio, h.HasVideo, h.DataOffset)

		case statePrevTagSize:
			if d.gap > 0 {
				skip := len(data)
				if uint32(skip) > d.gap {
					skip = int(d.gap)
				}
				data = d.advance(data, &n, skip)
				d.gap -= uint32(skip)
				if d.gap > 0 {
					if atEOF {
						return nil, n, d.fatal(ErrMalformedHeader, d.consumed, "input ends before data offset")
					}
					return nil, n, ErrNeedMoreData
				}
			}
			if len(data) == 0 {
				if atEOF {
					d.state = stateDone
					return nil, n, io.EOF
				}
				return nil, n, ErrNeedMoreData
			}
			if len(data) < PrevTagSizeLen {
				if atEOF {
					return nil, n, d.fatal(ErrTruncatedPayload, d.consumed, "input ends inside previous tag size")
				}
				return nil, n, ErrNeedMoreData
			}
			if prev := pio.U32BE(data[:PrevTagSizeLen]); prev != d.expectPrevSize {
				if d.opt.StrictPrevTagSize {
					return nil, n, d.fatal(ErrPrevTagSize, d.consumed,
						fmt.Sprintf("got %d, expected %d", prev, d.expectPrevSize))
				}
				log.WithField("demuxer", d.uid).Warnf("previous tag size %d at offset %d, expected %d",
					prev, d.consumed, d.expectPrevSize)
			}
			data = d.advance(data, &n, PrevTagSizeLen)
			d.state = stateTagHeader

		case stateTagHeader:
			if len(data) == 0 && atEOF {
				// Stream ended right after a trailing previous-tag-size.
				d.state = stateDone
				return nil, n, io.EOF
			}
			if len(data) < TagHeaderLen {
				if atEOF {
					return nil, n, d.fatal(ErrTruncatedPayload, d.consumed, "input ends inside tag header")
				}
				return nil, n, ErrNeedMoreData
			}
			d.pending = &Tag{}
			if err := d.pending.ParseTagHeader(data[:TagHeaderLen]); err != nil {
				return nil, n, d.fatal(ErrUnknownTagType, d.consumed, err.Error())
			}
			if sid := d.pending.StreamID(); sid != 0 {
				log.WithField("demuxer", d.uid).Debugf("reserved stream id %d at offset %d", sid, d.consumed)
			}
			data = d.advance(data, &n, TagHeaderLen)
			d.state = statePayload

		case statePayload:
			size := int(d.pending.flvt.dataSize)
			if len(data) < size {
				if atEOF {
					return nil, n, d.fatal(ErrTruncatedPayload, d.consumed,
						fmt.Sprintf("payload needs %d bytes, %d before end of input", size, len(data)))
				}
				return nil, n, ErrNeedMoreData
			}
			payloadOff := d.consumed
			buf := d.pool.Get(size)
			copy(buf, data[:size])
			d.pending.data = buf
			d.pending.body = buf

			switch d.pending.flvt.fType {
			case av.TAG_AUDIO, av.TAG_VIDEO:
				fn, err := d.pending.ParseMediaTagHeader(buf, d.pending.IsVideo())
				if err != nil {
					return nil, n, d.fatal(ErrTruncatedPayload, payloadOff, err.Error())
				}
				if fn > size {
					return nil, n, d.fatal(ErrPayloadOverrun, payloadOff,
						fmt.Sprintf("framing used %d of %d bytes", fn, size))
				}
				d.pending.body = buf[fn:]
			case av.TAG_SCRIPTDATAAMF0:
				pos, err := d.pending.parseScriptData(d.opt.MaxAMFDepth)
				if err != nil {
					return nil, n, d.fatal(ErrAmfDecode, payloadOff+uint64(pos), err.Error())
				}
				if pos > size {
					return nil, n, d.fatal(ErrPayloadOverrun, payloadOff,
						fmt.Sprintf("script data used %d of %d bytes", pos, size))
				}
			}

			log.WithField("demuxer", d.uid).Tracef("%s tag: size=%d ts=%d",
				av.TagTypeString(d.pending.flvt.fType), size, d.pending.flvt.timeStamp)
			d.recTimestamp(d.pending)
			d.expectPrevSize = uint32(TagHeaderLen + size)
			data = d.advance(data, &n, size)
			d.state = statePrevTagSize

			tag := d.pending
			d.pending = nil
			return tag, n, nil
		}
	}
}

func (d *Demuxer) advance(data []byte, n *int, k int) []byte {
	*n += k
	d.consumed += uint64(k)
	return data[k:]
}

func (d *Demuxer) fatal(kind error, offset uint64, detail string) error {
	e := &ParseError{Kind: kind, Offset: offset, Detail: detail}
	d.err = e
	return e
}

// recTimestamp tracks the last audio/video timestamps. The format does
// not require monotonicity, so a regression is only logged.
func (d *Demuxer) recTimestamp(tag *Tag) {
	ts := tag.Timestamp()
	switch tag.flvt.fType {
	case av.TAG_AUDIO:
		if ts < d.lastAudioTS {
			log.WithField("demuxer", d.uid).Debugf("audio timestamp went backwards: %d < %d", ts, d.lastAudioTS)
		}
		d.lastAudioTS = ts
	case av.TAG_VIDEO:
		if ts < d.lastVideoTS {
			log.WithField("demuxer", d.uid).Debugf("video timestamp went backwards: %d < %d", ts, d.lastVideoTS)
		}
		d.lastVideoTS = ts
	}
}
