package domain

// Plot budgets per feed. Zero means the series is plotted in full.
const (
	KpPlotBudget   = 0
	WindPlotBudget = 300
	XrayPlotBudget = 300
)

// Stride returns the smallest step that keeps every-Nth sampling of n samples,
// plus the final sample, within budget points. A budget below 2 or a series
// that already fits yields 1.
func Stride(n, budget int) int {
	if budget < 2 || n <= budget {
		return 1
	}
	return (n - 1 + budget - 2) / (budget - 1)
}

// EveryNth keeps samples whose index is a multiple of n and always keeps the
// last sample.
func EveryNth(s Series, n int) Series {
	if n <= 1 || s.Len() == 0 {
		return s
	}

	last := s.Len() - 1
	out := make([]Sample, 0, last/n+2)
	for i := 0; i <= last; i += n {
		out = append(out, s.samples[i])
	}
	if last%n != 0 {
		out = append(out, s.samples[last])
	}
	return Series{samples: out}
}

// Downsample reduces s to at most budget samples for plotting without
// dropping the most recent one. A non-positive budget returns s unchanged.
func Downsample(s Series, budget int) Series {
	if budget <= 0 {
		return s
	}
	if budget == 1 {
		latest, ok := s.Latest()
		if !ok {
			return s
		}
		return Series{samples: []Sample{latest}}
	}
	return EveryNth(s, Stride(s.Len(), budget))
}
