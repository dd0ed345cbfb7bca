// Package csvfeed loads daily OHLCV bars from a CSV file with the layout
// Date,Open,High,Low,Close,Volume. Quoting and escaping are not supported.
package csvfeed

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"pricelab/internal/model"
)

var (
	ErrHeader = errors.New("csv header must contain 'Date'")
	ErrParse  = errors.New("csv parse")
)

var columns = [...]string{"Date", "Open", "High", "Low", "Close", "Volume"}

// Load reads all bars from the file at path.
func Load(path string) ([]model.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv open: %w", err)
	}
	defer f.Close()

	bars, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bars, nil
}

// Parse reads bars from r. An empty input yields no bars and no error.
// Blank lines are skipped; any unparsable number fails the whole load.
func Parse(r io.Reader) ([]model.Bar, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !sc.Scan() {
		return nil, sc.Err()
	}
	if !strings.Contains(sc.Text(), "Date") {
		return nil, ErrHeader
	}

	var bars []model.Bar
	line := 1
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		bar, err := parseRow(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		bars = append(bars, bar)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("csv read: %w", err)
	}
	return bars, nil
}

func parseRow(text string) (model.Bar, error) {
	fields := strings.Split(text, ",")
	if len(fields) < len(columns) {
		return model.Bar{}, fmt.Errorf("%w: want %d columns, got %d", ErrParse, len(columns), len(fields))
	}

	var nums [5]float64
	for i := range nums {
		raw := strings.TrimSpace(fields[i+1])
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || !decimal(raw) || math.IsInf(v, 0) {
			return model.Bar{}, fmt.Errorf("%w: column %s: %q is not a number", ErrParse, columns[i+1], raw)
		}
		nums[i] = v
	}
	return model.Bar{
		Date:   strings.TrimSpace(fields[0]),
		Open:   nums[0],
		High:   nums[1],
		Low:    nums[2],
		Close:  nums[3],
		Volume: nums[4],
	}, nil
}

// Reader adapts a CSV file to model.BarReader. The symbol is ignored.
type Reader struct {
	path string
}

// NewReader returns a BarReader over the CSV file at path.
func NewReader(path string) *Reader {
	return &Reader{path: path}
}

func (r *Reader) ReadBars(ctx context.Context, _ string) ([]model.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Load(r.path)
}

func (r *Reader) Close() error { return nil }

// decimal reports whether s uses only decimal float syntax. ParseFloat also
// accepts NaN, Inf and hex floats.
func decimal(s string) bool {
	return s != "" && strings.Trim(s, "0123456789+-.eE") == ""
}
