package benchmarks

import "time"

// confusion counts binary predictions against labels.
type confusion struct {
	tp, fp, fn int
}

func countConfusion(preds, labels []bool) confusion {
	var c confusion
	for i, p := range preds {
		switch {
		case p && labels[i]:
			c.tp++
		case p && !labels[i]:
			c.fp++
		case !p && labels[i]:
			c.fn++
		}
	}
	return c
}

func (c confusion) precision() float64 {
	if c.tp+c.fp == 0 {
		return 0
	}
	return float64(c.tp) / float64(c.tp+c.fp)
}

func (c confusion) recall() float64 {
	if c.tp+c.fn == 0 {
		return 0
	}
	return float64(c.tp) / float64(c.tp+c.fn)
}

// f1 is the harmonic mean of precision and recall; 0 when both are 0.
func (c confusion) f1() float64 {
	p, r := c.precision(), c.recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// elapsedMs measures fn with the given clock.
func elapsedMs(now func() time.Time, fn func()) float64 {
	start := now()
	fn()
	return float64(now().Sub(start)) / float64(time.Millisecond)
}
