package sizer

import "github.com/ludo-technologies/contractsize/domain"

// Classify places a size into a tier. Each boundary belongs to the lower tier:
// exactly 80% of the limit is ok, exactly the limit is a warning.
func Classify(sizeKiB float64, cfg domain.ThresholdConfig) domain.Tier {
	if !cfg.Enabled {
		return domain.TierNone
	}
	if sizeKiB <= cfg.WarningKiB() {
		return domain.TierOk
	} else if sizeKiB <= cfg.MaxSizeKiB {
		return domain.TierWarning
	}
	return domain.TierOver
}

// CheckAll reports every entity over the limit. Callers must not pass the
// aggregate total.
func CheckAll(entities []domain.Entity, cfg domain.ThresholdConfig, disambiguate bool) []domain.Violation {
	var violations []domain.Violation
	if !cfg.Enabled {
		return violations
	}
	for _, e := range entities {
		if Classify(e.Size.KiB(), cfg) == domain.TierOver {
			violations = append(violations, domain.Violation{
				Name:       e.DisplayName(disambiguate),
				SizeKiB:    e.Size.KiB(),
				MaxSizeKiB: cfg.MaxSizeKiB,
			})
		}
	}
	return violations
}
