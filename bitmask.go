package warehouse

// Package-level bitmask primitives. A Mask is a little-endian sequence of
// 32-bit words with no trailing zero word; bit k lives in word k>>5 at
// 1<<(k&31). Every mask-producing path in this package routes through Trim
// so that equality, hashing, and the set predicates below never need to
// special-case length differences caused purely by trailing zeros.
type Mask []uint32

// Trim drops trailing zero words so two masks describing the same bits are
// byte-for-byte identical regardless of how they were built up.
func Trim(m Mask) Mask {
	n := len(m)
	for n > 0 && m[n-1] == 0 {
		n--
	}
	return m[:n]
}

// Test reports whether bit k is set. A k beyond the mask's length is false.
func Test(m Mask, k uint32) bool {
	word := k >> 5
	if int(word) >= len(m) {
		return false
	}
	return m[word]&(1<<(k&31)) != 0
}

// Set returns a mask with bit k set, growing the backing slice if needed.
func Set(m Mask, k uint32) Mask {
	word := int(k >> 5)
	if word >= len(m) {
		grown := make(Mask, word+1)
		copy(grown, m)
		m = grown
	}
	m[word] |= 1 << (k & 31)
	return m
}

// Clear returns a mask with bit k cleared, re-trimming if it was the
// highest set bit.
func Clear(m Mask, k uint32) Mask {
	word := int(k >> 5)
	if word >= len(m) {
		return m
	}
	m[word] &^= 1 << (k & 31)
	return Trim(m)
}

// Equals performs trimmed word-by-word equality.
func Equals(a, b Mask) bool {
	a, b = Trim(a), Trim(b)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Hash returns a deterministic hash of the trimmed mask; equal masks hash
// identically. FNV-1a over the little-endian word stream.
func Hash(m Mask) uint32 {
	m = Trim(m)
	const offset = 2166136261
	const prime = 16777619
	h := uint32(offset)
	for _, w := range m {
		h ^= w & 0xff
		h *= prime
		h ^= (w >> 8) & 0xff
		h *= prime
		h ^= (w >> 16) & 0xff
		h *= prime
		h ^= (w >> 24) & 0xff
		h *= prime
	}
	return h
}

// Requires reports whether every bit set in needle is also set in haystack
// (a superset test). Vacuously true for an empty needle.
func Requires(needle, haystack Mask) bool {
	for i, w := range needle {
		if w == 0 {
			continue
		}
		if i >= len(haystack) {
			return false
		}
		if w&^haystack[i] != 0 {
			return false
		}
	}
	return true
}

// Includes reports whether needle is empty or overlaps haystack at all.
func Includes(needle, haystack Mask) bool {
	if len(Trim(needle)) == 0 {
		return true
	}
	n := min(len(needle), len(haystack))
	for i := 0; i < n; i++ {
		if needle[i]&haystack[i] != 0 {
			return true
		}
	}
	return false
}

// Excludes reports whether needle and haystack share no set bit.
func Excludes(needle, haystack Mask) bool {
	n := min(len(needle), len(haystack))
	for i := 0; i < n; i++ {
		if needle[i]&haystack[i] != 0 {
			return false
		}
	}
	return true
}

// clone returns an independent copy of a trimmed mask, used whenever a
// neighbor op needs to mutate a word without disturbing the source.
func (m Mask) clone() Mask {
	cp := make(Mask, len(m))
	copy(cp, m)
	return cp
}

// buildMask accumulates ids into a freshly-allocated, trimmed mask. The
// accumulation is staged in a stack array when the mask fits in 8 words and
// in a pooled scratch buffer otherwise, so archetype/filter construction
// from a component-id list doesn't grow-and-copy once per id.
func buildMask(ids []uint32) Mask {
	words := uint32(0)
	for _, id := range ids {
		if w := id>>5 + 1; w > words {
			words = w
		}
	}
	var stack [8]uint32
	var scratch []uint32
	if words <= uint32(len(stack)) {
		scratch = stack[:words]
	} else {
		scratch = getScratch(int(words))
		defer putScratch(scratch)
	}
	for _, id := range ids {
		scratch[id>>5] |= 1 << (id & 31)
	}
	return Trim(scratch).clone()
}
