package domain

// DefaultSearchLimit is the number of results returned when the caller
// does not specify a limit.
const DefaultSearchLimit = 5

// SearchOptions controls a semantic search request.
type SearchOptions struct {
	// Limit is the maximum number of results to return.
	Limit int
}

// Normalized returns a copy with the limit defaulted. A zero or
// negative limit becomes DefaultSearchLimit, so the effective minimum
// is always 1.
func (o SearchOptions) Normalized() SearchOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultSearchLimit
	}
	return o
}
