package flv

import (
	"github.com/pkg/errors"

	"github.com/go-flv/flvdec/amf"
	"github.com/go-flv/flvdec/av"
	"github.com/go-flv/flvdec/utils/pio"
)

type flvTag struct {
	fType     uint8
	dataSize  uint32
	timeStamp uint32 // reassembled from the 24-bit field and the extension byte
	streamID  uint32 // reserved, 0 in practice
}

type mediaTag struct {
	// SoundFormat: UB[4]
	// 0 = Linear PCM, platform endian
	// 1 = ADPCM
	// 2 = MP3
	// 3 = Linear PCM, little endian
	// 4 = Nellymoser 16-kHz mono
	// 5 = Nellymoser 8-kHz mono
	// 6 = Nellymoser
	// 7 = G.711 A-law logarithmic PCM
	// 8 = G.711 mu-law logarithmic PCM
	// 10 = AAC
	// 11 = Speex
	// 14 = MP3 8-kHz
	// 15 = Device-specific sound
	soundFormat uint8

	// SoundRate: UB[2]
	// 0 = 5.5-kHz  1 = 11-kHz  2 = 22-kHz  3 = 44-kHz
	soundRate uint8

	// SoundSize: UB[1], 0 = 8-bit, 1 = 16-bit samples
	soundSize uint8

	// SoundType: UB[1], 0 = mono, 1 = stereo
	soundType uint8

	// 0 = AAC sequence header, 1 = AAC raw
	aacPacketType uint8

	// 1 = key frame, 2 = inter frame, 3 = disposable inter frame,
	// 4 = generated key frame, 5 = video info/command frame
	frameType uint8

	// 1 = JPEG, 2 = Sorenson H.263, 3 = Screen video, 4 = On2 VP6,
	// 5 = On2 VP6 with alpha, 6 = Screen video v2, 7 = AVC
	codecID uint8

	// 0 = AVC sequence header, 1 = AVC NALU, 2 = AVC end of sequence
	avcPacketType uint8

	// compositionTime = PTS - DTS, milliseconds, signed 24-bit
	compositionTime int32
}

// Tag is one decoded FLV tag: the common 11-byte header, the decoded
// media framing fields, the full payload, and for script tags the
// decoded AMF0 pairs.
type Tag struct {
	flvt   flvTag
	mediat mediaTag
	data   []byte // the full DataSize payload
	body   []byte // payload after the framing fields (opaque codec bytes)
	script []amf.Pair
}

var (
	_ av.AudioPacketHeader = (*Tag)(nil)
	_ av.VideoPacketHeader = (*Tag)(nil)
)

func (tag *Tag) Type() uint8 {
	return tag.flvt.fType
}

func (tag *Tag) DataSize() uint32 {
	return tag.flvt.dataSize
}

// Timestamp is the full 32-bit decode timestamp in milliseconds,
// including the extension byte.
func (tag *Tag) Timestamp() uint32 {
	return tag.flvt.timeStamp
}

func (tag *Tag) StreamID() uint32 {
	return tag.flvt.streamID
}

func (tag *Tag) IsAudio() bool {
	return tag.flvt.fType == av.TAG_AUDIO
}

func (tag *Tag) IsVideo() bool {
	return tag.flvt.fType == av.TAG_VIDEO
}

func (tag *Tag) IsScriptData() bool {
	return tag.flvt.fType == av.TAG_SCRIPTDATAAMF0
}

func (tag *Tag) SoundFormat() uint8 {
	return tag.mediat.soundFormat
}

func (tag *Tag) SoundRate() uint8 {
	return tag.mediat.soundRate
}

func (tag *Tag) SoundSize() uint8 {
	return tag.mediat.soundSize
}

func (tag *Tag) SoundType() uint8 {
	return tag.mediat.soundType
}

func (tag *Tag) AACPacketType() uint8 {
	return tag.mediat.aacPacketType
}

func (tag *Tag) FrameType() uint8 {
	return tag.mediat.frameType
}

func (tag *Tag) IsKeyFrame() bool {
	return tag.mediat.frameType == av.FRAME_KEY
}

func (tag *Tag) IsSeq() bool {
	return tag.mediat.frameType == av.FRAME_KEY &&
		tag.mediat.avcPacketType == av.AVC_SEQHDR
}

func (tag *Tag) CodecID() uint8 {
	return tag.mediat.codecID
}

func (tag *Tag) AVCPacketType() uint8 {
	return tag.mediat.avcPacketType
}

func (tag *Tag) CompositionTime() int32 {
	return tag.mediat.compositionTime
}

// Data is the complete tag payload, DataSize bytes.
func (tag *Tag) Data() []byte {
	return tag.data
}

// Body is the opaque codec payload after the framing fields. For script
// tags it equals Data.
func (tag *Tag) Body() []byte {
	return tag.body
}

// ScriptData returns the decoded (name, value) pairs of a script tag,
// in wire order.
func (tag *Tag) ScriptData() []amf.Pair {
	return tag.script
}

// MetaData returns the typed onMetaData view of a script tag, or nil.
func (tag *Tag) MetaData() *amf.MetaData {
	return amf.ParseMetaData(tag.script)
}

// ParseTagHeader decodes the common 11-byte tag header. Tag types other
// than audio, video and script data are rejected; FLV defines no others.
func (tag *Tag) ParseTagHeader(b []byte) error {
	if len(b) < TagHeaderLen {
		return errors.Errorf("tag header needs %d bytes, have %d", TagHeaderLen, len(b))
	}
	switch b[0] {
	case av.TAG_AUDIO, av.TAG_VIDEO, av.TAG_SCRIPTDATAAMF0:
	default:
		return errors.Errorf("tag type %d", b[0])
	}
	tag.flvt.fType = b[0]
	tag.flvt.dataSize = pio.U24BE(b[1:4])
	tag.flvt.timeStamp = uint32(b[7])<<24 | pio.U24BE(b[4:7])
	tag.flvt.streamID = pio.U24BE(b[8:11])
	return nil
}

// ParseMediaTagHeader decodes the audio or video framing fields at the
// start of b and returns how many bytes they occupied. b must be the
// full DataSize payload; a payload shorter than the framing minimum is
// an error.
func (tag *Tag) ParseMediaTagHeader(b []byte, isVideo bool) (n int, err error) {
	switch isVideo {
	case false:
		n, err = tag.parseAudioHeader(b)
	case true:
		n, err = tag.parseVideoHeader(b)
	}
	return
}

func (tag *Tag) parseAudioHeader(b []byte) (n int, err error) {
	if len(b) < 1 {
		err = errors.Errorf("audio data len=%d below framing minimum", len(b))
		return
	}
	flags := b[0]
	tag.mediat.soundFormat = flags >> 4
	tag.mediat.soundRate = (flags >> 2) & 0x3
	tag.mediat.soundSize = (flags >> 1) & 0x1
	tag.mediat.soundType = flags & 0x1
	n++

	switch tag.mediat.soundFormat {
	case av.SOUND_AAC:
		if len(b) < 2 {
			err = errors.Errorf("aac audio data len=%d below framing minimum", len(b))
			return
		}
		tag.mediat.aacPacketType = b[1]
		n++
	}
	return
}

func (tag *Tag) parseVideoHeader(b []byte) (n int, err error) {
	if len(b) < 1 {
		err = errors.Errorf("video data len=%d below framing minimum", len(b))
		return
	}
	flags := b[0]
	tag.mediat.frameType = flags >> 4
	tag.mediat.codecID = flags & 0xf
	n++

	if tag.mediat.codecID == av.VIDEO_H264 {
		if len(b) < 5 {
			err = errors.Errorf("avc video data len=%d below framing minimum", len(b))
			return
		}
		tag.mediat.avcPacketType = b[1]
		tag.mediat.compositionTime = pio.I24BE(b[2:5])
		n += 4
	}
	return
}

// parseScriptData decodes the payload as repeated (name, value) pairs
// until it is exhausted. Returns the payload position where decoding
// failed, for diagnostics.
func (tag *Tag) parseScriptData(maxDepth int) (int, error) {
	b := tag.data
	pos := 0
	var pairs []amf.Pair
	for pos < len(b) {
		name, n, err := amf.DecodeString(b[pos:])
		if err != nil {
			return pos + n, err
		}
		pos += n
		v, n, err := amf.DecodeValueDepth(b[pos:], maxDepth)
		if err != nil {
			return pos + n, err
		}
		pos += n
		pairs = append(pairs, amf.Pair{Key: name, Value: v})
	}
	tag.script = pairs
	return pos, nil
}
