package dtw

// Measure is the default Metric: a validated Options value shared by both
// query modes. Distance honours MemoryMode and Prune; Align always runs the
// full matrix without pruning.
//
// A Measure is immutable and safe for concurrent use.
type Measure struct {
	opts Options
}

var _ Metric = (*Measure)(nil)

// New validates opts and returns a Measure. ReturnPath and ReturnMatrix are
// ignored: the query method decides what is returned.
func New(opts Options) (*Measure, error) {
	opts.ReturnPath = false
	opts.ReturnMatrix = false
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return &Measure{opts: opts}, nil
}

// Default returns the unpruned distance-only Measure used for objective and
// validity scoring.
func Default() *Measure {
	return &Measure{opts: DefaultOptions()}
}

// Pruned returns the early-abandon Measure used for membership updates.
func Pruned() *Measure {
	o := DefaultOptions()
	o.Prune = true

	return &Measure{opts: o}
}

// Options returns a copy of the configuration.
func (m *Measure) Options() Options {
	return m.opts
}

// Distance returns the DTW distance between a and b.
func (m *Measure) Distance(a, b []float64) (float64, error) {
	d, _, err := DTW(a, b, &m.opts)

	return d, err
}

// Align returns distance, optimal path and cumulative-cost matrix.
func (m *Measure) Align(a, b []float64) (Alignment, error) {
	return Align(a, b, &m.opts)
}
