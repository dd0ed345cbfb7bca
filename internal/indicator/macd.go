package indicator

// MACD returns fastEMA - slowEMA, undefined wherever either EMA is.
func MACD(prices []float64, fast, slow int) []float64 {
	f := EMA(prices, fast)
	s := EMA(prices, slow)

	out := undefinedSeries(len(prices))
	for i := range prices {
		if Defined(f[i]) && Defined(s[i]) {
			out[i] = f[i] - s[i]
		}
	}
	return out
}
