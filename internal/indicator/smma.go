package indicator

// SMMA calculates the Smoothed Moving Average (Wilder-style smoothing).
// First value is SMA(period) at index period-1, then
// SMMA = (prev*(period-1) + price) / period.
func SMMA(prices []float64, period int) []float64 {
	out := undefinedSeries(len(prices))
	if period <= 0 || len(prices) < period {
		return out
	}

	sum := 0.0
	for _, p := range prices[:period] {
		sum += p
	}
	current := sum / float64(period)
	out[period-1] = current
	for i := period; i < len(prices); i++ {
		current = wilder(current, prices[i], period)
		out[i] = current
	}
	return out
}

func wilder(prev, x float64, period int) float64 {
	p := float64(period)
	return (prev*(p-1) + x) / p
}
