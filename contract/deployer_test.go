package contract

import (
	"context"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind/backends"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBytecode deploys a one byte runtime (STOP) so every call to it succeeds
const stubBytecode = "0x6001600c60003960016000f300"

func stubArtifactJSON() []byte {
	return []byte(fmt.Sprintf(`{"contractName":"FortuneBlock","abi":%s,"bytecode":%q}`, fortuneBlockABI, stubBytecode))
}

// newSimulatedChain returns a funded signer on a simulated chain that mines a block
// every interval until the test ends
func newSimulatedChain(t *testing.T, interval time.Duration) (*backends.SimulatedBackend, *Signer) {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	funds, _ := new(big.Int).SetString("100000000000000000000", 10)

	sim := backends.NewSimulatedBackend(core.GenesisAlloc{
		crypto.PubkeyToAddress(key.PublicKey): {Balance: funds},
	}, 10_000_000)

	signer, err := NewSigner(key, testChainID)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				sim.Commit()
			}
		}
	}()
	t.Cleanup(func() {
		close(done)
		sim.Close()
	})

	return sim, signer
}

func TestParseArtifact(t *testing.T) {
	t.Parallel()

	artifact, err := ParseArtifact(stubArtifactJSON())
	require.NoError(t, err)
	assert.Equal(t, "FortuneBlock", artifact.ContractName)
	assert.Len(t, artifact.Bytecode, 13)
	assert.Contains(t, artifact.ABI.Methods, "deposit")

	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: "nope"},
		{name: "missing abi", data: `{"contractName":"X","bytecode":"0x00"}`},
		{name: "empty bytecode", data: `{"contractName":"X","abi":[],"bytecode":"0x"}`},
		{name: "bad bytecode", data: `{"contractName":"X","abi":[],"bytecode":"zz"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseArtifact([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestDeployer_Deploy(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping simulated chain test in short mode")
	}

	sim, signer := newSimulatedChain(t, 50*time.Millisecond)
	artifact, err := ParseArtifact(stubArtifactJSON())
	require.NoError(t, err)

	deployer := NewDeployer(sim, signer, 3)
	deployer.SetPollInterval(20 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := deployer.Deploy(ctx, artifact)
	require.NoError(t, err)

	assert.NotEqual(t, common.Address{}, result.Address)
	assert.GreaterOrEqual(t, result.Confirmations, uint64(3))

	code, err := sim.CodeAt(ctx, result.Address, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00}, code)
}

func TestDeployer_DefaultConfirmations(t *testing.T) {
	t.Parallel()

	deployer := NewDeployer(nil, nil, 0)
	assert.Equal(t, uint64(DefaultConfirmations), deployer.confirmations)
}

func TestClient_DepositOnSimulatedChain(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping simulated chain test in short mode")
	}

	sim, signer := newSimulatedChain(t, 50*time.Millisecond)
	artifact, err := ParseArtifact(stubArtifactJSON())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deployer := NewDeployer(sim, signer, 1)
	deployer.SetPollInterval(20 * time.Millisecond)
	deployed, err := deployer.Deploy(ctx, artifact)
	require.NoError(t, err)

	client, err := NewClient(sim, deployed.Address, signer)
	require.NoError(t, err)

	account, ok := client.Account()
	require.True(t, ok)
	assert.Equal(t, signer.Address(), account)

	value := big.NewInt(1_000_000_000_000_000)
	tx, err := client.Deposit(ctx, 1, value)
	require.NoError(t, err)
	assert.Equal(t, 0, value.Cmp(tx.Value()))

	receipt, err := client.WaitMined(ctx, tx)
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)

	balance, err := sim.BalanceAt(ctx, deployed.Address, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, value.Cmp(balance))
}
