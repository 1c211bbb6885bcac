package fts

import (
	"fmt"
	"math/bits"
)

// pathBuffer is the scratch area where entry paths are composed. Its size
// is always a power of two. Entries refer to it by length only, so growing
// it never invalidates them.
type pathBuffer struct {
	buf []byte
}

// pow2 returns the smallest power of two not less than n.
func pow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// reserve makes room for at least n bytes, keeping the content.
func (b *pathBuffer) reserve(n int) error {
	if n <= len(b.buf) {
		return nil
	}
	if n > MaxPathBuffer {
		return fmt.Errorf("%w: path buffer of %d bytes", ErrNameTooLong, n)
	}
	buf := make([]byte, pow2(n))
	copy(buf, b.buf)
	b.buf = buf
	return nil
}

func (b *pathBuffer) cap() int { return len(b.buf) }

func (b *pathBuffer) put(off int, s string) {
	copy(b.buf[off:], s)
}

func (b *pathBuffer) slash(off int) {
	b.buf[off] = '/'
}

func (b *pathBuffer) endsWithSlash(n int) bool {
	return n > 0 && b.buf[n-1] == '/'
}

func (b *pathBuffer) String(n int) string {
	return string(b.buf[:n])
}
