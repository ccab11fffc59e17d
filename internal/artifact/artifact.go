// Package artifact reads compiled contract artifacts and selects which ones
// are measured.
package artifact

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/contractsize/domain"
)

// ContractArtifact is the subset of a compiler artifact the sizer reads
type ContractArtifact struct {
	ContractName string `json:"contractName"`
	SourceName   string `json:"sourceName"`

	// DeployedBytecode is the 0x-prefixed runtime code
	DeployedBytecode string `json:"-"`
}

type rawArtifact struct {
	ContractName     string          `json:"contractName"`
	SourceName       string          `json:"sourceName"`
	DeployedBytecode json.RawMessage `json:"deployedBytecode"`
}

// decodeBytecode accepts the Hardhat/Truffle string form and the Foundry
// {"object": "0x..."} form
func decodeBytecode(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var obj struct {
		Object *string `json:"object"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Object != nil {
		return *obj.Object, true
	}
	return "", false
}

// QualifiedName returns "<sourceName>:<contractName>", or "" when either
// part is missing.
func (a ContractArtifact) QualifiedName() string {
	if a.SourceName == "" || a.ContractName == "" {
		return ""
	}
	return a.SourceName + ":" + a.ContractName
}

// ShortName is the artifact file name without its .json extension
func ShortName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".json")
}

// Read loads and decodes one artifact file. A JSON document without a
// usable deployedBytecode field is rejected.
func Read(path string) (ContractArtifact, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ContractArtifact{}, domain.NewFileNotFoundError(path, err)
		}
		return ContractArtifact{}, domain.NewReadError(path, err)
	}
	if !info.Mode().IsRegular() {
		return ContractArtifact{}, domain.NewReadError(path, errors.New("not a regular file"))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ContractArtifact{}, domain.NewReadError(path, err)
	}

	var raw rawArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return ContractArtifact{}, domain.NewReadError(path, err)
	}
	bytecode, ok := decodeBytecode(raw.DeployedBytecode)
	if !ok {
		return ContractArtifact{}, domain.NewNotAContractArtifactError(path)
	}
	return ContractArtifact{
		ContractName:     raw.ContractName,
		SourceName:       raw.SourceName,
		DeployedBytecode: bytecode,
	}, nil
}
