package shared

const (
	// SearchLimit caps quick-search results.
	SearchLimit = 20
	// MaxCodeLength bounds entity codes.
	MaxCodeLength = 64
)
