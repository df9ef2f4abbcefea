package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Artifact is a compiled contract as written by Hardhat
type Artifact struct {
	ContractName string
	ABI          abi.ABI
	Bytecode     []byte
}

type artifactFile struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     string          `json:"bytecode"`
}

// LoadArtifact reads a Hardhat artifact JSON file
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}
	return ParseArtifact(data)
}

// ParseArtifact decodes a Hardhat artifact
func ParseArtifact(data []byte) (*Artifact, error) {
	var file artifactFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode artifact: %w", err)
	}

	if len(file.ABI) == 0 {
		return nil, fmt.Errorf("artifact %q has no abi", file.ContractName)
	}
	parsed, err := abi.JSON(bytes.NewReader(file.ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse artifact abi: %w", err)
	}

	bytecode, err := hexutil.Decode(file.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("failed to decode artifact bytecode: %w", err)
	}
	if len(bytecode) == 0 {
		return nil, fmt.Errorf("artifact %q has empty bytecode", file.ContractName)
	}

	return &Artifact{
		ContractName: file.ContractName,
		ABI:          parsed,
		Bytecode:     bytecode,
	}, nil
}
