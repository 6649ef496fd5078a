package pool

// Pool is a bump allocator for tag payload copies. The demuxer hands out
// one slice per decoded tag; when the arena fills up a fresh one is
// allocated and slices handed out earlier stay valid for as long as
// their tags are referenced.
type Pool struct {
	pos int
	buf []byte
}

const maxpoolsize = 500 * 1024

func (pool *Pool) Get(size int) []byte {
	if size > maxpoolsize {
		return make([]byte, size)
	}
	if maxpoolsize-pool.pos < size {
		pool.pos = 0
		pool.buf = make([]byte, maxpoolsize)
	}
	b := pool.buf[pool.pos : pool.pos+size]
	pool.pos += size
	return b
}

func NewPool() *Pool {
	return &Pool{
		buf: make([]byte, maxpoolsize),
	}
}
