package av

import "fmt"

// FLV tag types. 8, 9 and 18 are the only values the container defines.
const (
	TAG_AUDIO          = 8
	TAG_VIDEO          = 9
	TAG_SCRIPTDATAAMF0 = 18
)

// SoundFormat, the high nibble of the audio flags byte.
const (
	SOUND_PCM              = 0
	SOUND_ADPCM            = 1
	SOUND_MP3              = 2
	SOUND_PCM_LE           = 3
	SOUND_NELLYMOSER_16KHZ = 4
	SOUND_NELLYMOSER_8KHZ  = 5
	SOUND_NELLYMOSER       = 6
	SOUND_ALAW             = 7
	SOUND_MULAW            = 8
	SOUND_AAC              = 10
	SOUND_SPEEX            = 11
	SOUND_MP3_8KHZ         = 14
	SOUND_DEVICE_SPECIFIC  = 15
)

// SoundRate (2 bits) and SoundSize / SoundType (1 bit each).
const (
	SOUND_5_5Khz = 0
	SOUND_11Khz  = 1
	SOUND_22Khz  = 2
	SOUND_44Khz  = 3

	SOUND_8BIT  = 0
	SOUND_16BIT = 1

	SOUND_MONO   = 0
	SOUND_STEREO = 1

	AAC_SEQHDR = 0
	AAC_RAW    = 1
)

// Video frame types and codec ids, the two nibbles of the video flags
// byte, plus the AVC packet types that follow for codec 7.
const (
	FRAME_KEY        = 1
	FRAME_INTER      = 2
	FRAME_DISPOSABLE = 3
	FRAME_GENERATED  = 4
	FRAME_COMMAND    = 5

	VIDEO_JPEG       = 1
	VIDEO_H263       = 2
	VIDEO_SCREEN     = 3
	VIDEO_VP6        = 4
	VIDEO_VP6_ALPHA  = 5
	VIDEO_SCREEN2    = 6
	VIDEO_H264       = 7
	VIDEO_REAL_H263  = 8
	VIDEO_MPEG4PART2 = 9

	AVC_SEQHDR = 0
	AVC_NALU   = 1
	AVC_EOS    = 2
)

// SampleRates maps the 2-bit sound rate class to Hz.
var SampleRates = [4]int{5500, 11025, 22050, 44100}

// PacketHeader is what payload decoding attaches to a tag: either an
// AudioPacketHeader or a VideoPacketHeader.
type PacketHeader interface {
}

type AudioPacketHeader interface {
	PacketHeader
	SoundFormat() uint8
	AACPacketType() uint8
}

type VideoPacketHeader interface {
	PacketHeader
	IsKeyFrame() bool
	IsSeq() bool
	CodecID() uint8
	CompositionTime() int32
}

func TagTypeString(t uint8) string {
	switch t {
	case TAG_AUDIO:
		return "audio"
	case TAG_VIDEO:
		return "video"
	case TAG_SCRIPTDATAAMF0:
		return "scriptdata"
	default:
		return fmt.Sprintf("unknown(%d)", t)
	}
}
