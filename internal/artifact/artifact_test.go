package artifact

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ludo-technologies/contractsize/domain"
	"github.com/ludo-technologies/contractsize/internal/testutil"
)

func code(err error) string {
	var de domain.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

func rel(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		r, err := filepath.Rel(root, p)
		testutil.AssertNoError(t, err)
		out = append(out, filepath.ToSlash(r))
	}
	return out
}

func TestRead(t *testing.T) {
	root := t.TempDir()
	path := testutil.WriteArtifact(t, root, testutil.Artifact{
		Path:         "Token.json",
		ContractName: "Token",
		SourceName:   "contracts/Token.sol",
		Bytes:        100,
	})

	a, err := Read(path)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, "contracts/Token.sol:Token", a.QualifiedName())
	testutil.AssertEqual(t, testutil.Bytecode(100), a.DeployedBytecode)
	testutil.AssertEqual(t, "Token", ShortName(path))
}

func TestRead_Errors(t *testing.T) {
	root := t.TempDir()
	noBytecode := testutil.WriteFile(t, root, "Interface.json", `{"contractName":"Interface","abi":[]}`)
	nullBytecode := testutil.WriteFile(t, root, "Null.json", `{"deployedBytecode":null}`)
	badShape := testutil.WriteFile(t, root, "Shape.json", `{"deployedBytecode":{"sourceMap":""}}`)
	notJSON := testutil.WriteFile(t, root, "broken.json", `{"deployedBytecode":`)

	tests := []struct {
		name string
		path string
		code string
	}{
		{"missing file", filepath.Join(root, "Nope.json"), domain.ErrCodeFileNotFound},
		{"directory", root, domain.ErrCodeReadError},
		{"invalid json", notJSON, domain.ErrCodeReadError},
		{"no deployedBytecode", noBytecode, domain.ErrCodeNotAContractArtifact},
		{"null deployedBytecode", nullBytecode, domain.ErrCodeNotAContractArtifact},
		{"object without code", badShape, domain.ErrCodeNotAContractArtifact},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(tt.path)
			testutil.AssertError(t, err)
			if got := code(err); got != tt.code {
				t.Errorf("Expected %s, got %s (%v)", tt.code, got, err)
			}
		})
	}
}

func TestRead_EmptyDeployedBytecode(t *testing.T) {
	// Interfaces and abstract contracts compile to "0x"
	path := testutil.WriteFile(t, t.TempDir(), "IERC20.json", `{"contractName":"IERC20","sourceName":"IERC20.sol","deployedBytecode":"0x"}`)
	a, err := Read(path)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, "0x", a.DeployedBytecode)
}

func TestRead_FoundryArtifact(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "Counter.json",
		`{"abi":[],"deployedBytecode":{"object":"0x6080604052","sourceMap":"","linkReferences":{}}}`)
	a, err := Read(path)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, "0x6080604052", a.DeployedBytecode)
	testutil.AssertEqual(t, "", a.QualifiedName())
}

func TestQualifiedName_Missing(t *testing.T) {
	if got := (ContractArtifact{ContractName: "A"}).QualifiedName(); got != "" {
		t.Errorf("Expected empty qualified name, got %q", got)
	}
}

func TestDiscover(t *testing.T) {
	root := testutil.HardhatProject(t)

	files, err := Discover(root)
	testutil.AssertNoError(t, err)

	want := []string{
		"contracts/Token.sol/Token.json",
		"contracts/Vault.sol/Vault.json",
		"contracts/test/TokenMock.sol/TokenMock.json",
	}
	if got := rel(t, root, files); !reflect.DeepEqual(got, want) {
		t.Errorf("Discover = %v, want %v", got, want)
	}
}

func TestDiscover_MissingRoot(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "artifacts"))
	if code(err) != domain.ErrCodeFileNotFound {
		t.Errorf("Expected FILE_NOT_FOUND, got %v", err)
	}
}

func TestFilter_Keep(t *testing.T) {
	tests := []struct {
		name   string
		filter domain.ArtifactFilter
		path   string
		keep   bool
	}{
		{"no filters", domain.ArtifactFilter{}, "a/Token.json", true},
		{"not json", domain.ArtifactFilter{}, "a/Token.txt", false},
		{"contracts match", domain.ArtifactFilter{Contracts: []string{"Token"}}, "a/Token.json", true},
		{"contracts miss", domain.ArtifactFilter{Contracts: []string{"Vault"}}, "a/Token.json", false},
		{"contracts any", domain.ArtifactFilter{Contracts: []string{"Vault", "^a/"}}, "a/Token.json", true},
		{"mock dropped", domain.ArtifactFilter{IgnoreMocks: true}, "a/TokenMock.json", false},
		{"mock case-insensitive", domain.ArtifactFilter{IgnoreMocks: true}, "a/ERC20MOCK.json", false},
		{"mock kept when off", domain.ArtifactFilter{}, "a/TokenMock.json", true},
		{"mock prefix not a mock", domain.ArtifactFilter{IgnoreMocks: true}, "a/MockToken.json", true},
		{"except match", domain.ArtifactFilter{Except: []string{"ERC20"}}, "a/ERC20.json", false},
		{"except beats contracts", domain.ArtifactFilter{Contracts: []string{"ERC"}, Except: []string{"ERC721"}}, "a/ERC721.json", false},
		{"blank pattern ignored", domain.ArtifactFilter{Contracts: []string{" "}}, "a/Token.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.Chdir(t, t.TempDir())
			f, err := NewFilter(tt.filter)
			testutil.AssertNoError(t, err)
			if got := f.Keep(tt.path); got != tt.keep {
				t.Errorf("Keep(%s) = %v, want %v", tt.path, got, tt.keep)
			}
		})
	}
}

func TestNewFilter_InvalidPattern(t *testing.T) {
	_, err := NewFilter(domain.ArtifactFilter{Except: []string{"ERC[20"}})
	if code(err) != domain.ErrCodeConfigError {
		t.Errorf("Expected CONFIG_ERROR, got %v", err)
	}
}

func TestNewFilter_IgnoreFile(t *testing.T) {
	dir := t.TempDir()
	ignorePath := testutil.WriteFile(t, dir, "sizeignore", "**/test/**\n")

	f, err := NewFilter(domain.ArtifactFilter{IgnoreFile: ignorePath})
	testutil.AssertNoError(t, err)
	testutil.AssertFalse(t, f.Keep("artifacts/contracts/test/Helper.sol/Helper.json"), "test artifacts should be ignored")
	testutil.AssertTrue(t, f.Keep("artifacts/contracts/Token.sol/Token.json"), "other artifacts should be kept")

	_, err = NewFilter(domain.ArtifactFilter{IgnoreFile: filepath.Join(dir, "missing")})
	if code(err) != domain.ErrCodeConfigError {
		t.Errorf("Expected CONFIG_ERROR for a missing explicit ignore file, got %v", err)
	}
}

func TestNewFilter_DefaultIgnoreFile(t *testing.T) {
	dir := t.TempDir()
	testutil.Chdir(t, dir)

	if _, err := NewFilter(domain.ArtifactFilter{}); err != nil {
		t.Fatalf("Missing default ignore file must be tolerated: %v", err)
	}

	if err := os.WriteFile(DefaultIgnoreFile, []byte("*Legacy*\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := NewFilter(domain.ArtifactFilter{})
	testutil.AssertNoError(t, err)
	testutil.AssertFalse(t, f.Keep("artifacts/LegacyVault.json"), "default ignore file should apply")
}

func TestSelect(t *testing.T) {
	root := testutil.HardhatProject(t)
	testutil.Chdir(t, t.TempDir())

	f, err := NewFilter(domain.ArtifactFilter{IgnoreMocks: true, Except: []string{"Vault"}})
	testutil.AssertNoError(t, err)

	files, err := Select(root, f)
	testutil.AssertNoError(t, err)
	if got := rel(t, root, files); !reflect.DeepEqual(got, []string{"contracts/Token.sol/Token.json"}) {
		t.Errorf("Select = %v", got)
	}
}
