// Package metacache keeps the decoder-facing facts about a stream that
// later tags depend on: the onMetaData payload and the AAC/AVC sequence
// headers. Players joining mid-stream need all three replayed before
// any media tag makes sense.
package metacache

import (
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"

	"github.com/go-flv/flvdec/amf"
	"github.com/go-flv/flvdec/av"
	"github.com/go-flv/flvdec/configure"
	"github.com/go-flv/flvdec/container/flv"
	"github.com/go-flv/flvdec/utils/uid"
)

var ErrBadKey = errors.New("metacache: invalid stream key")

// StreamInfo is everything cached for one stream.
type StreamInfo struct {
	Key        string
	Meta       *amf.MetaData
	MetaPairs  []amf.Pair
	AACSeqHdr  *flv.Tag
	AVCSeqHdr  *flv.Tag
	LastUpdate time.Time
}

// Store maps stream keys to their cached StreamInfo. Entries expire on
// the TTL given at construction; a zero TTL keeps them forever.
type Store struct {
	data *cache.Cache
}

func NewStore(ttl time.Duration) *Store {
	exp := cache.NoExpiration
	sweep := time.Duration(0)
	if ttl > 0 {
		exp = ttl
		sweep = ttl
	}
	return &Store{data: cache.New(exp, sweep)}
}

// NewKey mints a fresh stream key.
func (s *Store) NewKey() string {
	return uid.NewId()
}

// Observe feeds one decoded tag into the cache. Only tags carrying
// stream-level state are retained; everything else is a no-op.
func (s *Store) Observe(key string, tag *flv.Tag) error {
	if !configure.CheckAppName(key) {
		return errors.WithMessage(ErrBadKey, key)
	}
	switch {
	case tag.IsScriptData():
		pairs := tag.ScriptData()
		meta := tag.MetaData()
		if meta == nil {
			return nil
		}
		s.update(key, func(info *StreamInfo) {
			info.Meta = meta
			info.MetaPairs = pairs
		})
	case tag.IsAudio():
		if tag.SoundFormat() != av.SOUND_AAC || tag.AACPacketType() != av.AAC_SEQHDR {
			return nil
		}
		s.update(key, func(info *StreamInfo) {
			info.AACSeqHdr = tag
		})
	case tag.IsVideo():
		if !tag.IsSeq() {
			return nil
		}
		s.update(key, func(info *StreamInfo) {
			info.AVCSeqHdr = tag
		})
	}
	return nil
}

func (s *Store) update(key string, fn func(*StreamInfo)) {
	info := &StreamInfo{Key: key}
	if v, ok := s.data.Get(key); ok {
		info = v.(*StreamInfo)
	}
	fn(info)
	info.LastUpdate = time.Now()
	s.data.SetDefault(key, info)
}

// Get returns the cached info for key, if any.
func (s *Store) Get(key string) (*StreamInfo, bool) {
	v, ok := s.data.Get(key)
	if !ok {
		return nil, false
	}
	return v.(*StreamInfo), true
}

func (s *Store) Delete(key string) {
	s.data.Delete(key)
}

// Keys lists every live stream key.
func (s *Store) Keys() []string {
	items := s.data.Items()
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	return keys
}
