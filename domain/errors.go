package domain

import "fmt"

// Error codes
const (
	ErrCodeInvalidInput         = "INVALID_INPUT"
	ErrCodeFileNotFound         = "FILE_NOT_FOUND"
	ErrCodeReadError            = "READ_ERROR"
	ErrCodeConfigError          = "CONFIG_ERROR"
	ErrCodeOutputError          = "OUTPUT_ERROR"
	ErrCodeStorageError         = "STORAGE_ERROR"
	ErrCodeUnsupportedFormat    = "UNSUPPORTED_FORMAT"
	ErrCodeInvalidUnit          = "INVALID_UNIT"
	ErrCodeMalformedBytecode    = "MALFORMED_BYTECODE"
	ErrCodeInvalidSortSpec      = "INVALID_SORT_SPEC"
	ErrCodeNoContracts          = "NO_CONTRACTS"
	ErrCodeNotAContractArtifact = "NOT_A_CONTRACT_ARTIFACT"
	ErrCodeContractTooLarge     = "CONTRACT_TOO_LARGE"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e DomainError) Unwrap() error {
	return e.Cause
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, cause error) error {
	return DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewInvalidInputError creates an invalid input error
func NewInvalidInputError(message string, cause error) error {
	return NewDomainError(ErrCodeInvalidInput, message, cause)
}

// NewValidationError creates a validation error without a cause
func NewValidationError(message string) error {
	return NewDomainError(ErrCodeInvalidInput, message, nil)
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string, cause error) error {
	return NewDomainError(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path), cause)
}

// NewReadError creates an error for an artifact that exists but cannot be read
func NewReadError(path string, cause error) error {
	return NewDomainError(ErrCodeReadError, fmt.Sprintf("failed to read %s", path), cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) error {
	return NewDomainError(ErrCodeConfigError, message, cause)
}

// NewOutputError creates an output error
func NewOutputError(message string, cause error) error {
	return NewDomainError(ErrCodeOutputError, message, cause)
}

// NewStorageError creates a history storage error
func NewStorageError(message string, cause error) error {
	return NewDomainError(ErrCodeStorageError, message, cause)
}

// NewUnsupportedFormatError creates an unsupported format error
func NewUnsupportedFormatError(format string) error {
	return NewDomainError(ErrCodeUnsupportedFormat, fmt.Sprintf("unsupported format: %s", format), nil)
}

// NewInvalidUnitError reports a size unit outside Bytes/Kibibytes
func NewInvalidUnitError(unit SizeUnit) error {
	return NewDomainError(ErrCodeInvalidUnit, fmt.Sprintf("invalid size unit: %d", int(unit)), nil)
}

// NewMalformedBytecodeError reports a bytecode string that is not 0x-prefixed whole bytes
func NewMalformedBytecodeError(reason string) error {
	return NewDomainError(ErrCodeMalformedBytecode, "malformed bytecode: "+reason, nil)
}

// NewInvalidSortSpecError names the offending sort field and value
func NewInvalidSortSpecError(field, value string) error {
	return NewDomainError(ErrCodeInvalidSortSpec,
		fmt.Sprintf("invalid sort %s %q (valid values: %s)", field, value, validSortValues(field)), nil)
}

// NewNoContractsError reports an empty contract set
func NewNoContractsError() error {
	return NewDomainError(ErrCodeNoContracts, "there are no compiled contracts to calculate the size", nil)
}

// NewNotAContractArtifactError reports a JSON file without deployedBytecode
func NewNotAContractArtifactError(path string) error {
	return NewDomainError(ErrCodeNotAContractArtifact,
		fmt.Sprintf("deployedBytecode not found in %s (it is not a contract artifact)", path), nil)
}

func validSortValues(field string) string {
	switch field {
	case "key":
		return "name, size"
	case "direction":
		return "asc, desc"
	default:
		return "<name|size>,<asc|desc>"
	}
}
