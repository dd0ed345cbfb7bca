package model

// Bar represents one trading day of OHLCV data for a single instrument.
// Date is an opaque label; ordering comes from the position in the series.
type Bar struct {
	Date   string  `json:"date" db:"date"`
	Open   float64 `json:"open" db:"open"`
	High   float64 `json:"high" db:"high"`
	Low    float64 `json:"low" db:"low"`
	Close  float64 `json:"close" db:"close"`
	Volume float64 `json:"volume" db:"volume"`
}

// Closes extracts the close price series from bars.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Volumes extracts the volume series from bars.
func Volumes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Volume
	}
	return out
}
