package common

import (
	"fmt"
	"time"

	"fortuneblock/domain/utils"

	"github.com/ethereum/go-ethereum/common"
)

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}

// FormatAddressLink renders an address in code style with its short form as a hint
func FormatAddressLink(addr common.Address) string {
	return fmt.Sprintf("`%s` (%s)", addr.Hex(), utils.ShortAddress(addr))
}

// FormatCount pluralizes a count, e.g. "1 participant", "3 participants"
func FormatCount(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
