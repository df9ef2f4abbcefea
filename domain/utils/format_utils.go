package utils

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// EtherDecimals is the number of decimals between wei and ether
const EtherDecimals = 18

// DefaultCurrencySymbol is shown next to ether amounts when none is configured
const DefaultCurrencySymbol = "GAS"

var (
	ErrEmptyAmount          = errors.New("amount is empty")
	ErrInvalidAmount        = errors.New("amount is not a number")
	ErrTooManyDecimalPlaces = errors.New("amount has more than 18 decimal places")
)

// FormatEther converts a wei amount to a decimal ether string.
// At least one fractional digit is always kept (1e18 -> "1.0").
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0.0"
	}
	str := decimal.NewFromBigInt(wei, -EtherDecimals).String()
	if !strings.Contains(str, ".") {
		str += ".0"
	}
	return str
}

// ParseEther converts a decimal ether string to wei
func ParseEther(value string) (*big.Int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, ErrEmptyAmount
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, value)
	}

	wei := d.Shift(EtherDecimals)
	if !wei.Equal(wei.Truncate(0)) {
		return nil, ErrTooManyDecimalPlaces
	}

	return wei.BigInt(), nil
}

// FormatAmount formats a wei amount with its currency symbol, e.g. "1.5 GAS"
func FormatAmount(wei *big.Int, symbol string) string {
	if symbol == "" {
		symbol = DefaultCurrencySymbol
	}
	return fmt.Sprintf("%s %s", FormatEther(wei), symbol)
}

// FormatEndTime formats a lottery end time for display in the given location
func FormatEndTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("Jan 2, 2006 3:04 PM MST")
}

// FormatDuration formats a duration in a human-readable format
// Examples: "2d 14h 30m", "3h 45m", "45m", "< 1m"
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return "< 1m"
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	var parts []string

	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}

	return strings.Join(parts, " ")
}

// FormatTimeRemaining returns "Ended" once end has passed, otherwise the remaining duration
func FormatTimeRemaining(end, now time.Time) string {
	if !now.Before(end) {
		return "Ended"
	}
	return FormatDuration(end.Sub(now))
}

// FormatIDList joins lottery IDs with commas, or returns "None" when empty
func FormatIDList(ids []uint64) string {
	if len(ids) == 0 {
		return "None"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(id, 10)
	}
	return strings.Join(parts, ", ")
}

// ShortAddress abbreviates an address to 0x1234…abcd
func ShortAddress(addr common.Address) string {
	hex := addr.Hex()
	return hex[:6] + "…" + hex[len(hex)-4:]
}

// FormatShortNotation formats a number using short notation (e.g., 50k instead of 50000)
func FormatShortNotation(value int64) string {
	absValue := value
	sign := ""
	if value < 0 {
		absValue = -value
		sign = "-"
	}

	switch {
	case absValue >= 1_000_000_000_000:
		return fmt.Sprintf("%s%.2fT", sign, float64(absValue)/1_000_000_000_000)
	case absValue >= 1_000_000_000:
		return fmt.Sprintf("%s%.2fB", sign, float64(absValue)/1_000_000_000)
	case absValue >= 1_000_000:
		return fmt.Sprintf("%s%.2fM", sign, float64(absValue)/1_000_000)
	case absValue >= 10_000:
		// No decimal places between 10k and 1M
		return fmt.Sprintf("%s%dk", sign, absValue/1_000)
	case absValue >= 1_000:
		// One decimal place under 10k
		return fmt.Sprintf("%s%.1fk", sign, float64(absValue)/1_000)
	default:
		return fmt.Sprintf("%s%d", sign, absValue)
	}
}

// FormatEtherShort formats a wei amount compactly for tight layouts such as images
func FormatEtherShort(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	d := decimal.NewFromBigInt(wei, -EtherDecimals)
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		return FormatShortNotation(d.IntPart())
	}
	return d.Round(4).String()
}
