package contract

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrNoKeyConfigured is returned when neither a private key nor a keystore is given
var ErrNoKeyConfigured = errors.New("no signing key configured")

// Signer holds the local key that plays the part of the connected wallet
type Signer struct {
	address common.Address
	opts    *bind.TransactOpts
}

// NewSigner creates a signer for key on the given chain
func NewSigner(key *ecdsa.PrivateKey, chainID *big.Int) (*Signer, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	return &Signer{
		address: opts.From,
		opts:    opts,
	}, nil
}

// NewSignerFromHex creates a signer from a hex encoded private key, with or without 0x prefix
func NewSignerFromHex(hexKey string, chainID *big.Int) (*Signer, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return NewSigner(key, chainID)
}

// NewSignerFromKeystore creates a signer from an encrypted keystore file
func NewSignerFromKeystore(path, passphrase string, chainID *big.Int) (*Signer, error) {
	keyJSON, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore %s: %w", path, err)
	}
	key, err := keystore.DecryptKey(keyJSON, passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt keystore %s: %w", path, err)
	}
	return NewSigner(key.PrivateKey, chainID)
}

// LoadSigner picks the hex key if set, otherwise the keystore file.
// It returns ErrNoKeyConfigured when neither is set.
func LoadSigner(hexKey, keystorePath, passphrase string, chainID *big.Int) (*Signer, error) {
	switch {
	case hexKey != "":
		return NewSignerFromHex(hexKey, chainID)
	case keystorePath != "":
		return NewSignerFromKeystore(keystorePath, passphrase, chainID)
	default:
		return nil, ErrNoKeyConfigured
	}
}

// Address returns the signing account
func (s *Signer) Address() common.Address {
	return s.address
}

// TransactOpts returns transaction options bound to ctx that send value wei
func (s *Signer) TransactOpts(ctx context.Context, value *big.Int) *bind.TransactOpts {
	opts := *s.opts
	opts.Context = ctx
	opts.Value = value
	return &opts
}
