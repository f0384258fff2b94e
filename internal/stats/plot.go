package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight   = 8
	minPlotWidth        = 10
	terminalWidthBackup = 80
)

var seriesMarkers = []byte{'*', '+', 'o', 'x'}

// PlotSeries renders a multi-row text plot for the provided series. Each
// series is scaled independently; min/max values are listed below the plot.
func PlotSeries(w io.Writer, title string, series []Series, width, height int) error {
	series = filterSeries(series)
	if len(series) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = autoPlotWidth()
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	grid := make([][]byte, height)
	for y := range grid {
		grid[y] = []byte(strings.Repeat(" ", width))
	}

	type bounds struct{ min, max float64 }
	ranges := make([]bounds, len(series))
	for si, s := range series {
		values := resample(s.Values, width)
		lo, hi := minMax(values)
		if math.Abs(hi-lo) < 1e-9 {
			lo--
			hi++
		}
		ranges[si] = bounds{min: lo, max: hi}
		marker := seriesMarkers[si%len(seriesMarkers)]
		for x, v := range values {
			pos := (v - lo) / (hi - lo)
			y := height - 1 - int(math.Round(pos*float64(height-1)))
			grid[y][x] = marker
		}
	}

	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	for _, row := range grid {
		if _, err := fmt.Fprintf(w, "| %s\n", string(row)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "+-%s\n", strings.Repeat("-", width)); err != nil {
		return err
	}
	for si, s := range series {
		marker := seriesMarkers[si%len(seriesMarkers)]
		if _, err := fmt.Fprintf(w, "%c %s (%.1f..%.1f)\n", marker, s.Name, ranges[si].min, ranges[si].max); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func filterSeries(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// resample stretches or shrinks values to exactly width samples.
func resample(values []float64, width int) []float64 {
	if len(values) == width {
		out := make([]float64, width)
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	if len(values) == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	for i := 0; i < width; i++ {
		pos := float64(i) * float64(len(values)-1) / float64(width-1)
		left := int(math.Floor(pos))
		right := int(math.Ceil(pos))
		if right >= len(values) {
			right = len(values) - 1
		}
		frac := pos - float64(left)
		out[i] = values[left]*(1-frac) + values[right]*frac
	}
	return out
}

func minMax(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func autoPlotWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = terminalWidthBackup
	}
	width -= 4 // frame and margin
	if width < minPlotWidth {
		width = minPlotWidth
	}
	return width
}
