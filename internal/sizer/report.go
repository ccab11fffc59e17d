package sizer

import (
	"fmt"
	"path/filepath"

	"github.com/ludo-technologies/contractsize/domain"
)

// ReportOptions shapes a report
type ReportOptions struct {
	Sort         domain.SortSpec
	Threshold    domain.ThresholdConfig
	Unit         domain.SizeUnit
	Disambiguate bool
}

// BuildReport totals, sorts and classifies entities.
//
// When thresholding is enabled and any contract is over the limit, the fully
// built report is returned together with a *domain.ContractTooLargeError so
// the caller can render it before failing.
func BuildReport(entities []domain.Entity, opts ReportOptions) (*domain.Report, error) {
	if len(entities) == 0 {
		return nil, domain.NewNoContractsError()
	}
	if !opts.Unit.IsValid() {
		return nil, domain.NewInvalidUnitError(opts.Unit)
	}

	total, err := domain.NewSizeValue(0, opts.Unit)
	if err != nil {
		return nil, err
	}
	for _, e := range entities {
		total = total.Add(e.Size)
	}

	sorted, err := SortEntities(entities, opts.Sort, opts.Disambiguate)
	if err != nil {
		return nil, err
	}

	report := &domain.Report{
		Rows:      make([]domain.ReportRow, 0, len(sorted)),
		Unit:      opts.Unit,
		Sort:      opts.Sort,
		Threshold: opts.Threshold,
		Total: domain.ReportRow{
			DisplayName: domain.TotalLabel,
			Size:        total,
			Tier:        domain.TierNone,
			IsTotal:     true,
		},
	}

	keys := uniqueKeys(sorted)
	for i, e := range sorted {
		// Entities may have been measured in another unit; the report shows one.
		size, err := domain.NewSizeValue(e.Size.Bytes(), opts.Unit)
		if err != nil {
			return nil, err
		}
		report.Rows = append(report.Rows, domain.ReportRow{
			DisplayName: e.DisplayName(opts.Disambiguate),
			Key:         keys[i],
			Size:        size,
			Tier:        Classify(e.Size.KiB(), opts.Threshold),
		})
	}

	report.Violations = CheckAll(sorted, opts.Threshold, opts.Disambiguate)
	if len(report.Violations) > 0 {
		return report, domain.NewContractTooLargeError(report.Violations)
	}
	return report, nil
}

// uniqueKeys returns one key per entity. Entities sharing a qualified name
// fall back to their artifact path; a clash that remains gets a #n suffix.
func uniqueKeys(entities []domain.Entity) []string {
	counts := make(map[string]int, len(entities))
	for _, e := range entities {
		counts[e.Key()]++
	}

	keys := make([]string, len(entities))
	seen := make(map[string]int, len(entities))
	for i, e := range entities {
		k := e.Key()
		if counts[k] > 1 && e.ArtifactPath != "" {
			k = filepath.ToSlash(e.ArtifactPath)
		}
		seen[k]++
		if n := seen[k]; n > 1 {
			k = fmt.Sprintf("%s#%d", k, n)
		}
		keys[i] = k
	}
	return keys
}
