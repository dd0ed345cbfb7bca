package portfolio

// DrawdownTracker follows a running equity peak.
type DrawdownTracker struct {
	peak   float64
	maxDD  float64
	primed bool
}

// NewDrawdownTracker starts tracking from initial equity.
func NewDrawdownTracker(initial float64) *DrawdownTracker {
	return &DrawdownTracker{peak: initial, primed: initial > 0}
}

// Update feeds the next equity value and returns the current drawdown
// fraction from the peak. Non-positive values are ignored.
func (d *DrawdownTracker) Update(equity float64) float64 {
	if equity <= 0 {
		return 0
	}
	if !d.primed || equity > d.peak {
		d.peak = equity
		d.primed = true
	}
	dd := (d.peak - equity) / d.peak
	if dd > d.maxDD {
		d.maxDD = dd
	}
	return dd
}

// Peak returns the highest equity seen.
func (d *DrawdownTracker) Peak() float64 { return d.peak }

// MaxDrawdown returns the largest peak-to-trough fraction seen (0.2 = 20%).
func (d *DrawdownTracker) MaxDrawdown() float64 { return d.maxDD }

// MaxDrawdown computes the maximum peak-to-trough loss of an equity curve as
// a fraction. The first value seeds the peak; non-positive values are skipped.
func MaxDrawdown(equity []float64) float64 {
	if len(equity) == 0 {
		return 0
	}
	d := NewDrawdownTracker(equity[0])
	for _, v := range equity {
		d.Update(v)
	}
	return d.MaxDrawdown()
}
