package data

const (
	DEFAULT_PAGE_SIZE = 50
	MAX_PAGE_SIZE     = 100
)

type QueryParams struct {
	Skip      int    `json:"skip"`
	Limit     int    `json:"limit"`
	NextToken []byte `json:"nextToken"`
}

// GetLimit falls back to the store's default page size and never asks for
// more than a single page can hold.
func (q *QueryParams) GetLimit() *int32 {
	limit := int32(q.Limit)
	if limit <= 0 {
		limit = DEFAULT_PAGE_SIZE
	}
	if limit > MAX_PAGE_SIZE {
		limit = MAX_PAGE_SIZE
	}
	return &limit
}

type QueryResults[T interface{}] struct {
	Items     []T    `json:"items"`
	NextToken []byte `json:"nextToken,omitempty"`
}

// HasNext reports whether the store handed back a continuation.
func (q QueryResults[T]) HasNext() bool {
	return len(q.NextToken) > 0
}

type NextToken map[string]map[string]string
