package domain

import (
	"errors"
	"strings"
	"testing"
)

// Error tests

func TestDomainError_Error(t *testing.T) {
	// Without cause
	err := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
	}
	expected := "[TEST_ERROR] Test message"
	if err.Error() != expected {
		t.Errorf("Expected '%s', got '%s'", expected, err.Error())
	}

	// With cause
	cause := errors.New("underlying error")
	errWithCause := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
		Cause:   cause,
	}
	expectedWithCause := "[TEST_ERROR] Test message: underlying error"
	if errWithCause.Error() != expectedWithCause {
		t.Errorf("Expected '%s', got '%s'", expectedWithCause, errWithCause.Error())
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
		Cause:   cause,
	}

	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	errNoCause := DomainError{Code: "TEST_ERROR", Message: "Test message"}
	if errNoCause.Unwrap() != nil {
		t.Error("Unwrap should return nil when no cause")
	}
}

func TestNewDomainError(t *testing.T) {
	cause := errors.New("cause")
	err := NewDomainError("CODE", "message", cause)

	domainErr, ok := err.(DomainError)
	if !ok {
		t.Fatal("Should return DomainError type")
	}
	if domainErr.Code != "CODE" {
		t.Errorf("Expected code 'CODE', got '%s'", domainErr.Code)
	}
	if domainErr.Message != "message" {
		t.Errorf("Expected message 'message', got '%s'", domainErr.Message)
	}
	if domainErr.Cause != cause {
		t.Error("Cause should be set")
	}
}

func TestErrorConstructors(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name     string
		err      error
		code     string
		contains string
	}{
		{"invalid input", NewInvalidInputError("bad input", cause), ErrCodeInvalidInput, "bad input"},
		{"validation", NewValidationError("size cannot be negative"), ErrCodeInvalidInput, "negative"},
		{"file not found", NewFileNotFoundError("artifacts/A.json", cause), ErrCodeFileNotFound, "file not found: artifacts/A.json"},
		{"read", NewReadError("artifacts/A.json", cause), ErrCodeReadError, "failed to read artifacts/A.json"},
		{"config", NewConfigError("bad config", nil), ErrCodeConfigError, "bad config"},
		{"output", NewOutputError("write failed", cause), ErrCodeOutputError, "write failed"},
		{"storage", NewStorageError("db locked", cause), ErrCodeStorageError, "db locked"},
		{"unsupported format", NewUnsupportedFormatError("xml"), ErrCodeUnsupportedFormat, "unsupported format: xml"},
		{"invalid unit", NewInvalidUnitError(SizeUnit(7)), ErrCodeInvalidUnit, "7"},
		{"malformed bytecode", NewMalformedBytecodeError("missing 0x prefix"), ErrCodeMalformedBytecode, "missing 0x prefix"},
		{"sort key", NewInvalidSortSpecError("key", "risk"), ErrCodeInvalidSortSpec, `key "risk" (valid values: name, size)`},
		{"sort direction", NewInvalidSortSpecError("direction", "up"), ErrCodeInvalidSortSpec, `direction "up" (valid values: asc, desc)`},
		{"no contracts", NewNoContractsError(), ErrCodeNoContracts, "no compiled contracts"},
		{"not an artifact", NewNotAContractArtifactError("build/x.json"), ErrCodeNotAContractArtifact, "build/x.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var domainErr DomainError
			if !errors.As(tt.err, &domainErr) {
				t.Fatalf("Expected DomainError, got %T", tt.err)
			}
			if domainErr.Code != tt.code {
				t.Errorf("Expected code %s, got %s", tt.code, domainErr.Code)
			}
			if !strings.Contains(tt.err.Error(), tt.contains) {
				t.Errorf("Error %q should contain %q", tt.err.Error(), tt.contains)
			}
		})
	}

	if !errors.Is(NewReadError("x", cause), cause) {
		t.Error("Read error should wrap its cause")
	}
}

func TestContractTooLargeError(t *testing.T) {
	err := NewContractTooLargeError([]Violation{
		{Name: "Big", SizeKiB: 25, MaxSizeKiB: 24},
		{Name: "Huge", SizeKiB: 40.123, MaxSizeKiB: 24},
	})

	msg := err.Error()
	if !strings.Contains(msg, "contract Big is bigger than 24 KiB (25.00 KiB)") {
		t.Errorf("Missing Big line in %q", msg)
	}
	if !strings.Contains(msg, "contract Huge is bigger than 24 KiB (40.12 KiB)") {
		t.Errorf("Missing Huge line in %q", msg)
	}
	if names := err.Names(); len(names) != 2 || names[0] != "Big" || names[1] != "Huge" {
		t.Errorf("Unexpected names %v", names)
	}

	var wrapped error = err
	var domainErr DomainError
	if !errors.As(wrapped, &domainErr) || domainErr.Code != ErrCodeContractTooLarge {
		t.Errorf("ContractTooLargeError should unwrap to a %s DomainError", ErrCodeContractTooLarge)
	}
}

// Size tests

func TestNewSizeValue(t *testing.T) {
	if _, err := NewSizeValue(-1, SizeUnitBytes); err == nil {
		t.Error("Expected error for negative size")
	}
	if _, err := NewSizeValue(10, SizeUnit(42)); err == nil {
		t.Error("Expected error for invalid unit")
	}

	v, err := NewSizeValue(2048, SizeUnitKibibytes)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if v.Bytes() != 2048 || v.KiB() != 2 || v.Value() != 2 {
		t.Errorf("Unexpected size %d bytes / %v KiB / %v value", v.Bytes(), v.KiB(), v.Value())
	}

	b, _ := NewSizeValue(2048, SizeUnitBytes)
	if b.Value() != 2048 {
		t.Errorf("Expected value 2048 in bytes, got %v", b.Value())
	}
}

func TestSizeValue_Formatted(t *testing.T) {
	tests := []struct {
		bytes int64
		unit  SizeUnit
		want  string
	}{
		{1234567, SizeUnitBytes, "1,234,567"},
		{0, SizeUnitBytes, "0"},
		{999, SizeUnitBytes, "999"},
		{1264128, SizeUnitKibibytes, "1,234.50"},
		{24576, SizeUnitKibibytes, "24.00"},
		{0, SizeUnitKibibytes, "0.00"},
		{5, SizeUnitKibibytes, "0.00"},
		{1023, SizeUnitKibibytes, "1.00"},
	}

	for _, tt := range tests {
		v, err := NewSizeValue(tt.bytes, tt.unit)
		if err != nil {
			t.Fatalf("NewSizeValue(%d) failed: %v", tt.bytes, err)
		}
		if got := v.Formatted(); got != tt.want {
			t.Errorf("Formatted(%d %s) = %q, want %q", tt.bytes, tt.unit, got, tt.want)
		}
	}
}

func TestSizeValue_Add(t *testing.T) {
	a, _ := NewSizeValue(1024, SizeUnitKibibytes)
	b, _ := NewSizeValue(512, SizeUnitBytes)

	sum := a.Add(b)
	if sum.Bytes() != 1536 {
		t.Errorf("Expected 1536 bytes, got %d", sum.Bytes())
	}
	if sum.Unit() != SizeUnitKibibytes {
		t.Errorf("Sum should keep receiver unit, got %s", sum.Unit())
	}
	if a.Bytes() != 1024 {
		t.Error("Add must not mutate the receiver")
	}
}

func TestFormatDelta(t *testing.T) {
	tests := []struct {
		delta int64
		unit  SizeUnit
		want  string
	}{
		{1024, SizeUnitBytes, "+1,024"},
		{-512, SizeUnitKibibytes, "-0.50"},
		{0, SizeUnitBytes, "0"},
		{2048, SizeUnitKibibytes, "+2.00"},
	}

	for _, tt := range tests {
		if got := FormatDelta(tt.delta, tt.unit); got != tt.want {
			t.Errorf("FormatDelta(%d, %s) = %q, want %q", tt.delta, tt.unit, got, tt.want)
		}
	}
}

func TestUnitFor(t *testing.T) {
	if UnitFor(true) != SizeUnitBytes {
		t.Error("size_in_bytes should select bytes")
	}
	if UnitFor(false) != SizeUnitKibibytes {
		t.Error("default should select KiB")
	}
	if SizeUnitBytes.String() != "bytes" || SizeUnitKibibytes.String() != "KiB" {
		t.Error("Unexpected unit labels")
	}
}

// Sort spec tests

func TestSortSpec_Validate(t *testing.T) {
	valid := []SortSpec{
		{SortByName, SortAscending},
		{SortByName, SortDescending},
		{SortBySize, SortAscending},
		{SortBySize, SortDescending},
	}
	for _, s := range valid {
		if err := s.Validate(); err != nil {
			t.Errorf("%s should be valid: %v", s, err)
		}
	}

	invalid := []SortSpec{
		{"", SortAscending},
		{SortBySize, ""},
		{"Size", SortAscending},
		{SortByName, "descending"},
	}
	for _, s := range invalid {
		if err := s.Validate(); err == nil {
			t.Errorf("%q should be invalid", s.String())
		}
	}

	if DefaultSortSpec().String() != "size,asc" {
		t.Errorf("Unexpected default sort %s", DefaultSortSpec())
	}
}

// Threshold tests

func TestDefaultThresholdConfig(t *testing.T) {
	cfg := DefaultThresholdConfig()
	if cfg.Enabled {
		t.Error("Threshold checking should be off by default")
	}
	if cfg.MaxSizeKiB != 24 {
		t.Errorf("Expected 24 KiB limit, got %v", cfg.MaxSizeKiB)
	}
	if cfg.WarningKiB() < 19.2 || cfg.WarningKiB() > 19.2001 {
		t.Errorf("Unexpected warning size %v", cfg.WarningKiB())
	}
}

// Report tests

func TestEntity_DisplayName(t *testing.T) {
	e := Entity{Name: "Token", QualifiedName: "contracts/Token.sol:Token"}
	if e.DisplayName(false) != "Token" {
		t.Errorf("Expected short name, got %s", e.DisplayName(false))
	}
	if e.DisplayName(true) != "contracts/Token.sol:Token" {
		t.Errorf("Expected qualified name, got %s", e.DisplayName(true))
	}

	bare := Entity{Name: "Legacy"}
	if bare.DisplayName(true) != "Legacy" {
		t.Errorf("Expected fallback to short name, got %s", bare.DisplayName(true))
	}
}

func TestEntity_Key(t *testing.T) {
	tests := []struct {
		entity Entity
		want   string
	}{
		{Entity{Name: "Token", QualifiedName: "contracts/Token.sol:Token", ArtifactPath: "artifacts/Token.json"}, "contracts/Token.sol:Token"},
		{Entity{Name: "Token", ArtifactPath: "out/Token.sol/Token.json"}, "out/Token.sol/Token.json"},
		{Entity{Name: "Token"}, "Token"},
	}
	for _, tt := range tests {
		if got := tt.entity.Key(); got != tt.want {
			t.Errorf("Key() = %s, want %s", got, tt.want)
		}
	}

	if (ReportRow{DisplayName: "Vault"}).ContractKey() != "Vault" {
		t.Error("A row without a key should fall back to its display name")
	}
}

func TestReport_ApplyPrevious_DuplicateDisplayNames(t *testing.T) {
	local, vendored := row(t, "Ownable", 100), row(t, "Ownable", 5000)
	local.Key = "contracts/Ownable.sol:Ownable"
	vendored.Key = "@openzeppelin/contracts/access/Ownable.sol:Ownable"
	report := &Report{Rows: []ReportRow{local, vendored}, Total: row(t, TotalLabel, 5100)}

	report.ApplyPrevious(PreviousSizes{
		Found: true,
		Contracts: map[string]int64{
			"contracts/Ownable.sol:Ownable":                      100,
			"@openzeppelin/contracts/access/Ownable.sol:Ownable": 4000,
		},
		TotalBytes: 4100,
	})

	if d := report.Rows[0].Delta; d == nil || *d != 0 {
		t.Errorf("Unchanged contract should have a zero delta, got %v", d)
	}
	if d := report.Rows[1].Delta; d == nil || *d != 1000 {
		t.Errorf("Expected +1000 for the vendored contract, got %v", d)
	}
}

func row(t *testing.T, name string, bytes int64) ReportRow {
	t.Helper()
	size, err := NewSizeValue(bytes, SizeUnitBytes)
	if err != nil {
		t.Fatal(err)
	}
	return ReportRow{DisplayName: name, Size: size, Tier: TierOk}
}

func TestReport_ApplyPrevious(t *testing.T) {
	report := &Report{
		Rows:  []ReportRow{row(t, "Token", 1000), row(t, "Vault", 3000)},
		Total: row(t, TotalLabel, 4000),
	}
	report.Total.IsTotal = true

	report.ApplyPrevious(PreviousSizes{
		Found:      true,
		Contracts:  map[string]int64{"Token": 1200},
		TotalBytes: 3500,
	})

	if !report.HasHistory {
		t.Error("HasHistory should be set")
	}
	if got := report.Rows[0].FormattedDelta(); got != "-200" {
		t.Errorf("Token delta = %q, want -200", got)
	}
	if report.Rows[1].Delta != nil {
		t.Error("New contract should have no delta")
	}
	if got := report.Total.FormattedDelta(); got != "+500" {
		t.Errorf("Total delta = %q, want +500", got)
	}
}

func TestReport_ApplyPrevious_FirstRun(t *testing.T) {
	report := &Report{Rows: []ReportRow{row(t, "Token", 1000)}, Total: row(t, TotalLabel, 1000)}
	report.ApplyPrevious(PreviousSizes{})

	if !report.HasHistory {
		t.Error("HasHistory should be set even without a previous run")
	}
	if report.Rows[0].Delta != nil || report.Total.Delta != nil {
		t.Error("No deltas expected on the first run")
	}
}

func TestReport_TierCounts(t *testing.T) {
	over := row(t, "C", 30000)
	over.Tier = TierOver
	report := &Report{
		Rows:  []ReportRow{row(t, "A", 1), row(t, "B", 2), over},
		Total: row(t, TotalLabel, 30003),
	}

	counts := report.TierCounts()
	if counts[TierOk] != 2 || counts[TierOver] != 1 || counts[TierWarning] != 0 {
		t.Errorf("Unexpected counts %v", counts)
	}
}

func TestOutputFormat_Constants(t *testing.T) {
	tests := []struct {
		format   OutputFormat
		expected string
	}{
		{OutputFormatText, "text"},
		{OutputFormatJSON, "json"},
		{OutputFormatYAML, "yaml"},
	}

	for _, tt := range tests {
		if string(tt.format) != tt.expected {
			t.Errorf("Expected '%s', got '%s'", tt.expected, string(tt.format))
		}
	}
}
