package domain

// SortKey is the field contracts are ordered by
type SortKey string

const (
	SortByName SortKey = "name"
	SortBySize SortKey = "size"
)

// SortDirection is the ordering direction
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// SortSpec pairs a key with a direction
type SortSpec struct {
	Key       SortKey       `json:"key" yaml:"key"`
	Direction SortDirection `json:"direction" yaml:"direction"`
}

// DefaultSortSpec orders by size, smallest first
func DefaultSortSpec() SortSpec {
	return SortSpec{Key: SortBySize, Direction: SortAscending}
}

// Validate rejects any key or direction outside the four valid combinations
func (s SortSpec) Validate() error {
	if s.Key != SortByName && s.Key != SortBySize {
		return NewInvalidSortSpecError("key", string(s.Key))
	}
	if s.Direction != SortAscending && s.Direction != SortDescending {
		return NewInvalidSortSpecError("direction", string(s.Direction))
	}
	return nil
}

// String renders the sort spec in its "<key>,<direction>" config form
func (s SortSpec) String() string {
	return string(s.Key) + "," + string(s.Direction)
}
