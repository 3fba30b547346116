package domain

// Counts holds the current tally. Values never go below zero.
type Counts struct {
	Girls int `json:"girls"`
	Boys  int `json:"boys"`
}

// Total returns the sum of every group.
func (c Counts) Total() int {
	return c.Girls + c.Boys
}

// Of returns the count for g.
func (c Counts) Of(g Group) int {
	switch g {
	case GroupGirls:
		return c.Girls
	case GroupBoys:
		return c.Boys
	default:
		return 0
	}
}

// With returns a copy with g set to n.
func (c Counts) With(g Group, n int) Counts {
	switch g {
	case GroupGirls:
		c.Girls = n
	case GroupBoys:
		c.Boys = n
	}
	return c
}

// Clamp applies delta to n without going below zero.
func Clamp(n, delta int) int {
	if n+delta < 0 {
		return 0
	}
	return n + delta
}
