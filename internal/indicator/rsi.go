package indicator

// RSI calculates the Relative Strength Index using Wilder's smoothing method.
//
// Entries 0..period-1 are undefined. The first value, at index period, uses the
// simple mean of the first period gains and losses as the seed. A window with
// no losses saturates to 100.
func RSI(prices []float64, period int) []float64 {
	out := undefinedSeries(len(prices))
	if period <= 0 || len(prices) <= period {
		return out
	}

	avgGain, avgLoss := 0.0, 0.0
	for i := 1; i <= period; i++ {
		gain, loss := split(prices[i] - prices[i-1])
		avgGain += gain
		avgLoss += loss
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(prices); i++ {
		gain, loss := split(prices[i] - prices[i-1])
		avgGain = wilder(avgGain, gain, period)
		avgLoss = wilder(avgLoss, loss, period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func split(delta float64) (gain, loss float64) {
	if delta > 0 {
		return delta, 0
	}
	return 0, -delta
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - (100.0 / (1.0 + rs))
}
