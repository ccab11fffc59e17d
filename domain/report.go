package domain

import "path/filepath"

// TotalLabel is the display name of the aggregate row
const TotalLabel = "Total"

// Entity is one measured contract artifact
type Entity struct {
	// Name is the artifact basename without extension
	Name string `json:"name" yaml:"name"`

	// QualifiedName is "<sourceName>:<contractName>", empty when unknown
	QualifiedName string `json:"qualified_name,omitempty" yaml:"qualified_name,omitempty"`

	// ArtifactPath is the file the size was read from
	ArtifactPath string `json:"artifact_path,omitempty" yaml:"artifact_path,omitempty"`

	Size SizeValue `json:"-" yaml:"-"`
}

// DisplayName returns the qualified name when disambiguation is requested
// and one is known, otherwise the short name.
func (e Entity) DisplayName(disambiguate bool) string {
	if disambiguate && e.QualifiedName != "" {
		return e.QualifiedName
	}
	return e.Name
}

// Key identifies the contract across runs: the qualified name when known,
// otherwise the artifact path
func (e Entity) Key() string {
	if e.QualifiedName != "" {
		return e.QualifiedName
	}
	if e.ArtifactPath != "" {
		return filepath.ToSlash(e.ArtifactPath)
	}
	return e.Name
}

// ReportRow is one rendered line of the report
type ReportRow struct {
	DisplayName string

	// Key is unique within a report and stable between runs; empty on the total row
	Key string

	Size        SizeValue
	Tier        Tier
	IsTotal     bool

	// Delta is the byte change since the previous recorded run; nil if unknown
	Delta *int64
}

// ContractKey returns Key, or the display name for rows built without one
func (r ReportRow) ContractKey() string {
	if r.Key != "" {
		return r.Key
	}
	return r.DisplayName
}

// Formatted returns the size in the report's display unit
func (r ReportRow) Formatted() string {
	return r.Size.Formatted()
}

// FormattedDelta returns the signed change, or "" when there is no previous size
func (r ReportRow) FormattedDelta() string {
	if r.Delta == nil {
		return ""
	}
	return FormatDelta(*r.Delta, r.Size.Unit())
}

// Report is the sorted, classified result of one sizing run
type Report struct {
	// Rows holds the contract rows in sort order, without the total
	Rows []ReportRow

	// Total is the aggregate row, never classified
	Total ReportRow

	Unit       SizeUnit
	Sort       SortSpec
	Threshold  ThresholdConfig
	Violations []Violation

	// HasHistory is set once previous sizes were applied
	HasHistory bool
}

// AllRows returns the contract rows followed by the total row
func (r *Report) AllRows() []ReportRow {
	rows := make([]ReportRow, 0, len(r.Rows)+1)
	rows = append(rows, r.Rows...)
	return append(rows, r.Total)
}

// TierCounts counts contract rows per tier
func (r *Report) TierCounts() map[Tier]int {
	counts := map[Tier]int{}
	for _, row := range r.Rows {
		counts[row.Tier]++
	}
	return counts
}

// PreviousSizes is the last recorded run, keyed by contract key
type PreviousSizes struct {
	Found      bool
	Contracts  map[string]int64
	TotalBytes int64
}

// ApplyPrevious fills per-row deltas from an earlier run. Contracts that did
// not exist previously keep a nil delta.
func (r *Report) ApplyPrevious(prev PreviousSizes) {
	r.HasHistory = true
	if !prev.Found {
		return
	}
	for i := range r.Rows {
		old, ok := prev.Contracts[r.Rows[i].ContractKey()]
		if !ok {
			continue
		}
		d := r.Rows[i].Size.Bytes() - old
		r.Rows[i].Delta = &d
	}
	d := r.Total.Size.Bytes() - prev.TotalBytes
	r.Total.Delta = &d
}
