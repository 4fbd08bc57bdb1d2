package core

// Category is the closed set of spending categories the aggregation layer
// knows about. Stored transactions may carry any string.
type Category string

const (
	Food          Category = "Food"
	Travel        Category = "Travel"
	Subscriptions Category = "Subscriptions"
	Other         Category = "Other"
)

var knownCategories = []Category{Food, Travel, Subscriptions, Other}

// KnownCategories returns the categories in display order.
func KnownCategories() []Category {
	return append([]Category(nil), knownCategories...)
}

// CategoryOf maps a stored category string onto the known set. Anything
// unrecognized, including the empty string, becomes Other.
func CategoryOf(s string) Category {
	switch c := Category(s); c {
	case Food, Travel, Subscriptions, Other:
		return c
	default:
		return Other
	}
}

// IsKnownCategory reports whether s names one of the known categories exactly.
func IsKnownCategory(s string) bool {
	switch Category(s) {
	case Food, Travel, Subscriptions, Other:
		return true
	}
	return false
}

func (c Category) String() string { return string(c) }
