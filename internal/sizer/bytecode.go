// Package sizer measures deployed bytecode and builds sorted, classified size reports.
package sizer

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/contractsize/domain"
)

const hexPrefix = "0x"

// SizeOf returns the number of bytes encoded by a 0x-prefixed hex string.
// Characters after the prefix are not checked for hex validity: unlinked
// library placeholders have the same width as the address they stand for.
func SizeOf(bytecodeHex string) (int64, error) {
	if !strings.HasPrefix(bytecodeHex, hexPrefix) {
		return 0, domain.NewMalformedBytecodeError("missing 0x prefix")
	}
	digits := len(bytecodeHex) - len(hexPrefix)
	if digits%2 != 0 {
		return 0, domain.NewMalformedBytecodeError(fmt.Sprintf("odd number of hex digits (%d)", digits))
	}
	return int64(digits / 2), nil
}

// MeasureEntity sizes a contract's deployed bytecode and wraps it as an Entity
func MeasureEntity(name, qualifiedName, artifactPath, bytecodeHex string, unit domain.SizeUnit) (domain.Entity, error) {
	n, err := SizeOf(bytecodeHex)
	if err != nil {
		return domain.Entity{}, err
	}
	size, err := domain.NewSizeValue(n, unit)
	if err != nil {
		return domain.Entity{}, err
	}
	return domain.Entity{
		Name:          name,
		QualifiedName: qualifiedName,
		ArtifactPath:  artifactPath,
		Size:          size,
	}, nil
}
