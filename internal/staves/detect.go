package staves

// ColumnSource exposes the detected rows of a binary edge mask one column at
// a time.
type ColumnSource interface {
	// Width returns the number of columns.
	Width() int

	// Positions returns the ascending rows detected in column.
	Positions(column int) []int
}

// Detect scans every column of src from left to right and returns the
// resulting staves.
func Detect(src ColumnSource, opts ...Option) ([]*Staff, error) {
	t := NewTracker(opts...)
	width := src.Width()
	for x := 0; x < width; x++ {
		if err := t.Push(x, src.Positions(x)); err != nil {
			return nil, err
		}
	}
	t.logger.Debug("staff scan complete",
		"columns", width,
		"staves", len(t.staves))
	return t.Staves(), nil
}
