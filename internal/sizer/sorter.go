package sizer

import (
	"cmp"
	"slices"
	"strings"

	"github.com/ludo-technologies/contractsize/domain"
)

// ParseSortSpec parses "<name|size>[,<asc|desc>]". An empty string yields the
// default size,asc and a missing direction means asc. Anything else that is
// not recognized is an error.
func ParseSortSpec(s string) (domain.SortSpec, error) {
	spec := domain.DefaultSortSpec()
	s = strings.TrimSpace(s)
	if s == "" {
		return spec, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) > 2 {
		return domain.SortSpec{}, domain.NewInvalidSortSpecError("spec", s)
	}

	if key := strings.ToLower(strings.TrimSpace(parts[0])); key != "" {
		spec.Key = domain.SortKey(key)
	}
	if len(parts) == 2 {
		spec.Direction = domain.SortDirection(strings.ToLower(strings.TrimSpace(parts[1])))
	}

	if err := spec.Validate(); err != nil {
		return domain.SortSpec{}, err
	}
	return spec, nil
}

// SortEntities returns a stably sorted copy of entities. Names compare
// case-sensitively on their display name; sizes compare in bytes.
func SortEntities(entities []domain.Entity, spec domain.SortSpec, disambiguate bool) ([]domain.Entity, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	compare := func(a, b domain.Entity) int {
		return cmp.Compare(a.Size.Bytes(), b.Size.Bytes())
	}
	if spec.Key == domain.SortByName {
		compare = func(a, b domain.Entity) int {
			return strings.Compare(a.DisplayName(disambiguate), b.DisplayName(disambiguate))
		}
	}

	sorted := slices.Clone(entities)
	if spec.Direction == domain.SortDescending {
		slices.SortStableFunc(sorted, func(a, b domain.Entity) int { return -compare(a, b) })
	} else {
		slices.SortStableFunc(sorted, compare)
	}
	return sorted, nil
}
