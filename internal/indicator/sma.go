package indicator

// SMA calculates the Simple Moving Average over a rolling window.
// The first period-1 entries are undefined. O(n) with a running sum.
func SMA(prices []float64, period int) []float64 {
	out := undefinedSeries(len(prices))
	if period <= 0 {
		return out
	}

	sum := 0.0
	for i, p := range prices {
		sum += p
		if i >= period {
			// Drop the value leaving the window
			sum -= prices[i-period]
		}
		if i+1 >= period {
			out[i] = sum / float64(period)
		}
	}
	return out
}
