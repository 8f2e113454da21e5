package warehouse

import "sync"

var scratchPool = sync.Pool{
	New: func() any {
		class := Config.scratchPoolSize
		if class < 64 {
			class = 64
		}
		buf := make([]uint32, 0, class)
		return &buf
	},
}

// getScratch borrows a zeroed word buffer of at least n words. Callers must
// release it with putScratch on every exit path, including error returns.
func getScratch(n int) []uint32 {
	ptr := scratchPool.Get().(*[]uint32)
	buf := *ptr
	if cap(buf) < n {
		buf = make([]uint32, n)
	} else {
		buf = buf[:n]
		for i := range buf {
			buf[i] = 0
		}
	}
	return buf
}

// putScratch returns a buffer obtained from getScratch to the pool.
func putScratch(buf []uint32) {
	buf = buf[:0]
	scratchPool.Put(&buf)
}
