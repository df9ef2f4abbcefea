package entities

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// WalletLink associates a Discord user with a wallet address
type WalletLink struct {
	DiscordID int64          `db:"discord_id"`
	Address   common.Address `db:"address"`
	LinkedAt  time.Time      `db:"linked_at"`
}
