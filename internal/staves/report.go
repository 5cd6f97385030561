package staves

// StaffSummary describes one detected staff.
type StaffSummary struct {
	// Index is the staff's creation order within its run.
	Index int `json:"index"`

	// FirstColumn and LastColumn bound the columns the staff was seen in.
	FirstColumn int `json:"first_column"`
	LastColumn  int `json:"last_column"`

	// Observations is the number of columns the staff absorbed clusters in.
	Observations int `json:"observations"`

	// Position and Slope are the final filtered state.
	Position float32 `json:"position"`
	Slope    float32 `json:"slope"`

	// History is included only when requested.
	History []Observation `json:"history,omitempty"`
}

// StavesResult contains detected staves.
type StavesResult struct {
	Width   int            `json:"width"`
	Height  int            `json:"height"`
	Staves  []StaffSummary `json:"staves"`
	Count   int            `json:"count"`
	Omitted int            `json:"omitted"`
}

// Summarize builds a result from staves, skipping those observed in fewer
// than minLength columns. Indices refer to the unfiltered order.
func Summarize(staves []*Staff, width, height, minLength int, includeHistory bool) *StavesResult {
	res := &StavesResult{
		Width:  width,
		Height: height,
		Staves: make([]StaffSummary, 0, len(staves)),
	}
	for i, s := range staves {
		if s.Len() < minLength {
			res.Omitted++
			continue
		}
		first, last := s.Span()
		sum := StaffSummary{
			Index:        i,
			FirstColumn:  first,
			LastColumn:   last,
			Observations: s.Len(),
			Position:     s.Position(),
			Slope:        s.Slope(),
		}
		if includeHistory {
			sum.History = s.History()
		}
		res.Staves = append(res.Staves, sum)
	}
	res.Count = len(res.Staves)
	return res
}

// Filter returns the staves observed in at least minLength columns.
func Filter(staves []*Staff, minLength int) []*Staff {
	out := make([]*Staff, 0, len(staves))
	for _, s := range staves {
		if s.Len() >= minLength {
			out = append(out, s)
		}
	}
	return out
}
