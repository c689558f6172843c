package derive

import "math"

// MovingAverage computes a simple moving average over values with the given
// window. For the first window-1 points the average is taken over all points
// available so far (a growing window, not "undefined"), so early chart
// points are means of shorter prefixes.
func MovingAverage(values []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Volatility is the mean absolute percentage change across entities. An
// empty input yields zero.
func Volatility(changes []EntityChange) float64 {
	if len(changes) == 0 {
		return 0
	}
	var sum float64
	for _, c := range changes {
		sum += math.Abs(c.ChangePercent)
	}
	return sum / float64(len(changes))
}

// AverageChange is the arithmetic mean of percentage changes. An empty
// input yields zero.
func AverageChange(changes []EntityChange) float64 {
	if len(changes) == 0 {
		return 0
	}
	var sum float64
	for _, c := range changes {
		sum += c.ChangePercent
	}
	return sum / float64(len(changes))
}

// SeriesVolatility is the mean absolute step-to-step percentage change of
// one entity's close series (ascending time order). Fewer than two points
// yields zero.
func SeriesVolatility(closes []float64) float64 {
	if len(closes) < 2 {
		return 0
	}
	var sum float64
	steps := 0
	for i := 1; i < len(closes); i++ {
		sum += math.Abs(ChangePercent(closes[i], closes[i-1]))
		steps++
	}
	return sum / float64(steps)
}
