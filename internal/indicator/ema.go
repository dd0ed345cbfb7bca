package indicator

// EMA calculates the Exponential Moving Average seeded with the first price.
// Defined from index 0; multiplier is 2/(period+1).
func EMA(prices []float64, period int) []float64 {
	out := undefinedSeries(len(prices))
	if period <= 0 || len(prices) == 0 {
		return out
	}

	multiplier := 2.0 / float64(period+1)
	prev := prices[0]
	out[0] = prev
	for i := 1; i < len(prices); i++ {
		// EMA = (Price * multiplier) + (EMA_prev * (1 - multiplier))
		prev = prices[i]*multiplier + prev*(1-multiplier)
		out[i] = prev
	}
	return out
}
