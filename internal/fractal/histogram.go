package fractal

// Histogram counts escape steps. Bucket i holds the number of pixels that
// escaped at step i; the last bucket is the in-set count.
type Histogram []int

func NewHistogram(fidelity int) Histogram {
	return make(Histogram, fidelity+1)
}

func (h Histogram) Add(step int) {
	h[step]++
}

// Merge adds other into h. Both must share the same fidelity.
func (h Histogram) Merge(other Histogram) {
	for i := range h {
		if i < len(other) {
			h[i] += other[i]
		}
	}
}

func (h Histogram) Total() int {
	total := 0
	for _, n := range h {
		total += n
	}
	return total
}

// Mode returns the most common step and its count. Ties go to the lowest
// step, so the result does not depend on how the grid was split.
func (h Histogram) Mode() (step, count int) {
	step = -1
	for i, n := range h {
		if n > count {
			step, count = i, n
		}
	}
	return step, count
}

// Min returns the lowest step with a non-zero count, or -1 if h is empty.
func (h Histogram) Min() int {
	for i, n := range h {
		if n > 0 {
			return i
		}
	}
	return -1
}

// Max returns the highest step with a non-zero count, or -1 if h is empty.
func (h Histogram) Max() int {
	for i := len(h) - 1; i >= 0; i-- {
		if h[i] > 0 {
			return i
		}
	}
	return -1
}
