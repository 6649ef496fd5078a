package amf

// MetaDataName is the conventional script-data property carrying stream
// properties.
const MetaDataName = "onMetaData"

// MetaData is the typed view of the usual onMetaData properties. Zero
// values mean the encoder did not write the field.
type MetaData struct {
	Duration      float64
	Width         int
	Height        int
	FrameRate     float64
	VideoCodecID  int
	VideoDataRate float64
	AudioCodecID  int
	AudioDataRate float64
	SampleRate    int
	SampleSize    int
	Stereo        bool
	Encoder       string
	FileSize      float64
}

// ParseMetaData extracts the typed metadata from decoded script-data
// pairs. It returns nil when no onMetaData property with an
// object/array value is present.
func ParseMetaData(pairs []Pair) *MetaData {
	for _, p := range pairs {
		if p.Key != MetaDataName {
			continue
		}
		var props []Pair
		switch t := p.Value.(type) {
		case Object:
			props = t
		case EcmaArray:
			props = t
		default:
			continue
		}
		return metaDataFromProps(props)
	}
	return nil
}

func metaDataFromProps(props []Pair) *MetaData {
	m := &MetaData{}
	for _, p := range props {
		switch p.Key {
		case "duration":
			m.Duration = number(p.Value)
		case "width":
			m.Width = int(number(p.Value))
		case "height":
			m.Height = int(number(p.Value))
		case "framerate", "fps":
			m.FrameRate = number(p.Value)
		case "videocodecid":
			m.VideoCodecID = int(number(p.Value))
		case "videodatarate":
			m.VideoDataRate = number(p.Value)
		case "audiocodecid":
			m.AudioCodecID = int(number(p.Value))
		case "audiodatarate":
			m.AudioDataRate = number(p.Value)
		case "audiosamplerate":
			m.SampleRate = int(number(p.Value))
		case "audiosamplesize":
			m.SampleSize = int(number(p.Value))
		case "stereo":
			b, _ := p.Value.(bool)
			m.Stereo = b
		case "encoder":
			s, _ := p.Value.(string)
			m.Encoder = s
		case "filesize":
			m.FileSize = number(p.Value)
		}
	}
	return m
}

func number(v Value) float64 {
	f, _ := v.(float64)
	return f
}
