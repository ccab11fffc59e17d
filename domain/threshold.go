package domain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/params"
)

// DefaultMaxContractSizeKiB is the deployed code limit introduced by EIP-170
// (24,576 bytes).
const DefaultMaxContractSizeKiB float64 = float64(params.MaxCodeSize) / BytesPerKiB

// WarningRatio is the fraction of the limit above which a contract is flagged
const WarningRatio = 0.8

// Tier classifies a contract size relative to the configured maximum
type Tier string

const (
	// TierNone marks rows that are not classified (the total row, or thresholding off)
	TierNone    Tier = "none"
	TierOk      Tier = "ok"
	TierWarning Tier = "warning"
	TierOver    Tier = "over"
)

// ThresholdConfig controls size classification and enforcement
type ThresholdConfig struct {
	Enabled    bool    `json:"enabled" yaml:"enabled"`
	MaxSizeKiB float64 `json:"max_size_kib" yaml:"max_size_kib"`
}

// DefaultThresholdConfig returns a disabled threshold at the default limit
func DefaultThresholdConfig() ThresholdConfig {
	return ThresholdConfig{Enabled: false, MaxSizeKiB: DefaultMaxContractSizeKiB}
}

// WarningKiB is the size above which contracts enter the warning tier
func (c ThresholdConfig) WarningKiB() float64 {
	return c.MaxSizeKiB * WarningRatio
}

// Violation records one contract above the maximum size
type Violation struct {
	Name       string  `json:"name" yaml:"name"`
	SizeKiB    float64 `json:"size_kib" yaml:"size_kib"`
	MaxSizeKiB float64 `json:"max_size_kib" yaml:"max_size_kib"`
}

// ContractTooLargeError carries every contract that exceeded the limit
type ContractTooLargeError struct {
	DomainError
	Violations []Violation
}

// NewContractTooLargeError builds the aggregate violation error
func NewContractTooLargeError(violations []Violation) *ContractTooLargeError {
	var sb strings.Builder
	for i, v := range violations {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("contract %s is bigger than %g KiB (%.2f KiB)", v.Name, v.MaxSizeKiB, v.SizeKiB))
	}
	return &ContractTooLargeError{
		DomainError: DomainError{
			Code:    ErrCodeContractTooLarge,
			Message: sb.String(),
		},
		Violations: violations,
	}
}

// Error implements the error interface
func (e *ContractTooLargeError) Error() string {
	return e.DomainError.Error()
}

// Unwrap exposes the coded DomainError to errors.As
func (e *ContractTooLargeError) Unwrap() error {
	return e.DomainError
}

// Names returns the violating contract names in report order
func (e *ContractTooLargeError) Names() []string {
	names := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		names = append(names, v.Name)
	}
	return names
}
