package domain

// PriceRange is an inclusive rate range.
type PriceRange struct {
	Min float64
	Max float64
}

// FilterCriteria narrows the speaker roster. Zero-valued fields do not constrain.
type FilterCriteria struct {
	Term      string
	Topics    []string
	Languages []string
	// Price is nil for the full price range.
	Price *PriceRange
}

// IsEmpty reports whether no criterion is set.
func (c FilterCriteria) IsEmpty() bool {
	return c.Term == "" && len(c.Topics) == 0 && len(c.Languages) == 0 && c.Price == nil
}
