package repository

import (
	"context"
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Queryable is satisfied by both *pgxpool.Pool and pgx.Tx
type Queryable interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// uint256 values are stored as NUMERIC and travel as decimal text in both directions

func formatUint(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func parseUint(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return v, nil
}

func formatWei(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func parseWei(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid wei amount %q", s)
	}
	return v, nil
}

func formatUints(values []uint64) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = formatUint(v)
	}
	return out
}

func parseUints(values []string) ([]uint64, error) {
	out := make([]uint64, len(values))
	for i, s := range values {
		v, err := parseUint(s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func formatAddresses(addrs []common.Address) []string {
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = a.Hex()
	}
	return out
}

func parseAddresses(values []string) []common.Address {
	out := make([]common.Address, len(values))
	for i, s := range values {
		out[i] = common.HexToAddress(s)
	}
	return out
}
