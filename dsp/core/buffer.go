package core

// EnsureLen returns a slice of length n backed by buf whenever its capacity
// suffices. Growing past the capacity allocates, so callers on the audio
// path size buf once up front and keep the returned slice.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// CopyInto copies src into dst, clamped to the shorter of the two, and
// returns how many values were copied.
func CopyInto(dst, src []float64) int {
	n := min(len(dst), len(src))
	copy(dst[:n], src[:n])
	return n
}

// Zero clears buf in place.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}
