package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbered(n int) Dataset {
	ds := Dataset{}
	for i := 0; i < n; i++ {
		ds.X = append(ds.X, []float64{float64(i)})
		ds.Y = append(ds.Y, float64(i)*10)
		ds.Index = append(ds.Index, i+50)
	}
	return ds
}

func TestTrainTestSplit_80_20(t *testing.T) {
	ds := numbered(100)
	train, test := TrainTestSplit(ds, 0.8)

	assert.Equal(t, 80, train.Len())
	assert.Equal(t, 20, test.Len())
	assert.Len(t, train.Y, 80)
	assert.Len(t, test.Index, 20)
}

func TestTrainTestSplit_PreservesOrder(t *testing.T) {
	ds := numbered(37)
	train, test := TrainTestSplit(ds, 0.7)

	// floor(37*0.7) = 25
	require.Equal(t, 25, train.Len())
	require.Equal(t, 12, test.Len())

	joinedX := append(append([][]float64{}, train.X...), test.X...)
	joinedY := append(append([]float64{}, train.Y...), test.Y...)
	joinedIdx := append(append([]int{}, train.Index...), test.Index...)
	assert.Equal(t, ds.X, joinedX)
	assert.Equal(t, ds.Y, joinedY)
	assert.Equal(t, ds.Index, joinedIdx)

	// Train strictly precedes test in time
	assert.Less(t, train.Index[train.Len()-1], test.Index[0])
}

func TestTrainTestSplit_Bounds(t *testing.T) {
	ds := numbered(10)

	train, test := TrainTestSplit(ds, 0)
	assert.Equal(t, 0, train.Len())
	assert.Equal(t, 10, test.Len())

	train, test = TrainTestSplit(ds, 1.5)
	assert.Equal(t, 10, train.Len())
	assert.Equal(t, 0, test.Len())

	train, test = TrainTestSplit(Dataset{}, 0.8)
	assert.True(t, train.Empty())
	assert.True(t, test.Empty())
}

func TestTrainTestSplit_AppendDoesNotClobberTest(t *testing.T) {
	ds := numbered(10)
	train, test := TrainTestSplit(ds, 0.5)

	train.Y = append(train.Y, -1)
	assert.Equal(t, 50.0, test.Y[0])
}

func TestTrainTestSplit_WithoutTargets(t *testing.T) {
	ds := numbered(3)
	ds.Y = nil

	train, test := TrainTestSplit(ds, 0.5)
	assert.Equal(t, 1, train.Len())
	assert.Equal(t, 2, test.Len())
	assert.Nil(t, train.Y)
	assert.Nil(t, test.Y)
	assert.Equal(t, ds.Index[1:], test.Index)
}
