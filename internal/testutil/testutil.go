// Package testutil provides helper functions for testing contractsize components
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Bytecode returns a 0x-prefixed hex string encoding n bytes
func Bytecode(n int) string {
	return "0x" + strings.Repeat("60", n)
}

// Artifact describes a fixture artifact file
type Artifact struct {
	// Path is relative to the artifacts root, e.g. "contracts/Token.sol/Token.json"
	Path         string
	ContractName string
	SourceName   string
	Bytes        int
}

// WriteArtifact writes a compiler-style artifact JSON under root and returns its path
func WriteArtifact(t *testing.T, root string, a Artifact) string {
	t.Helper()
	doc := map[string]any{
		"_format":          "hh-sol-artifact-1",
		"contractName":     a.ContractName,
		"sourceName":       a.SourceName,
		"abi":              []any{},
		"bytecode":         Bytecode(a.Bytes + 32),
		"deployedBytecode": Bytecode(a.Bytes),
	}
	data, err := json.Marshal(doc)
	AssertNoError(t, err)
	return WriteFile(t, root, a.Path, string(data))
}

// WriteFile writes content to root/rel, creating parent directories
func WriteFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// HardhatProject lays out a small artifacts tree with a token, a vault, a
// mock, a debug file and a build-info entry. It returns the artifacts root.
func HardhatProject(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "artifacts")
	WriteArtifact(t, root, Artifact{Path: "contracts/Token.sol/Token.json", ContractName: "Token", SourceName: "contracts/Token.sol", Bytes: 4 * 1024})
	WriteArtifact(t, root, Artifact{Path: "contracts/Vault.sol/Vault.json", ContractName: "Vault", SourceName: "contracts/Vault.sol", Bytes: 10 * 1024})
	WriteArtifact(t, root, Artifact{Path: "contracts/test/TokenMock.sol/TokenMock.json", ContractName: "TokenMock", SourceName: "contracts/test/TokenMock.sol", Bytes: 1024})
	WriteFile(t, root, "contracts/Token.sol/Token.dbg.json", `{"_format":"hh-sol-dbg-1","buildInfo":"../../build-info/abc.json"}`)
	WriteFile(t, root, "build-info/abc.json", `{"id":"abc","deployedBytecode":"0x00"}`)
	return root
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected error but got nil")
	}
}

// AssertEqual fails the test if expected != actual
func AssertEqual(t *testing.T, expected, actual any) {
	t.Helper()
	if expected != actual {
		t.Errorf("Expected %v, got %v", expected, actual)
	}
}

// AssertTrue fails the test if condition is false
func AssertTrue(t *testing.T, condition bool, msg string) {
	t.Helper()
	if !condition {
		t.Error(msg)
	}
}

// AssertFalse fails the test if condition is true
func AssertFalse(t *testing.T, condition bool, msg string) {
	t.Helper()
	if condition {
		t.Error(msg)
	}
}

// Chdir changes the working directory to dir for the duration of the test,
// restoring it on cleanup (equivalent to testing.T.Chdir from Go 1.24)
func Chdir(t *testing.T, dir string) {
	t.Helper()
	abs, err := filepath.Abs(dir)
	AssertNoError(t, err)
	oldwd, err := os.Getwd()
	AssertNoError(t, err)
	t.Setenv("PWD", abs)
	AssertNoError(t, os.Chdir(abs))
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			panic("testutil.Chdir: restoring working directory: " + err.Error())
		}
	})
}
