package features

// TrainTestSplit partitions ds chronologically: the first floor(n*ratio)
// examples train, the rest test. No shuffling; ratio is clamped to [0,1].
// The returned datasets share backing arrays with ds.
func TrainTestSplit(ds Dataset, ratio float64) (train, test Dataset) {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	n := ds.Len()
	cut := int(float64(n) * ratio)

	train = slice(ds, 0, cut)
	test = slice(ds, cut, n)
	return train, test
}

func slice(ds Dataset, from, to int) Dataset {
	out := Dataset{X: ds.X[from:to:to]}
	// FeatureVectors datasets carry no targets
	if len(ds.Y) == len(ds.X) {
		out.Y = ds.Y[from:to:to]
	}
	if len(ds.Index) == len(ds.X) {
		out.Index = ds.Index[from:to:to]
	}
	return out
}
