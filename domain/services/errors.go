package services

import "errors"

var (
	// ErrWalletNotConnected is returned for writes when no signing account is configured
	ErrWalletNotConnected = errors.New("wallet not connected")

	// ErrWalletNotLinked is returned when a chat user has not linked a wallet address
	ErrWalletNotLinked = errors.New("wallet not linked")

	// ErrInvalidDepositAmount is returned when a deposit amount is missing, malformed or not positive
	ErrInvalidDepositAmount = errors.New("invalid deposit amount")

	// ErrInvalidUsername is returned when a username fails validation
	ErrInvalidUsername = errors.New("invalid username")

	// ErrProfileNotFound is returned when an address has not registered a username
	ErrProfileNotFound = errors.New("profile not found")

	// ErrTransactionReverted is returned when a mined transaction has a failed status
	ErrTransactionReverted = errors.New("transaction reverted")

	// ErrTransactionNotFound is returned when no write with a hash was recorded
	ErrTransactionNotFound = errors.New("transaction not found")
)

// User-facing messages shown by the bot, the API and the CLI
const (
	MsgWalletNotConnected = "Please connect your wallet first"
	MsgWalletNotLinked    = "No wallet linked yet. Use /link with your wallet address, or pass an address."
	MsgInvalidDeposit     = "Please enter a valid deposit amount"
	MsgInvalidUsername    = "Please enter a username between 1 and 32 characters"
	MsgProfileNotFound    = "No profile found. Please register a username."
	MsgFetchLotteries     = "Failed to fetch lotteries"
	MsgFetchProfile       = "Failed to fetch profile"
	MsgDepositFailed      = "Deposit failed. Please try again."
	MsgDepositSucceeded   = "Deposit successful!"
	MsgRegisterFailed     = "Registration failed. Please try again."
	MsgTransactionUnknown = "No transaction with that hash was recorded"
	MsgFetchHistory       = "Failed to fetch transaction history"
)

// UserMessage maps a domain error to the message users see. Errors without a
// message of their own get fallback.
func UserMessage(err error, fallback string) string {
	switch {
	case errors.Is(err, ErrWalletNotConnected):
		return MsgWalletNotConnected
	case errors.Is(err, ErrWalletNotLinked):
		return MsgWalletNotLinked
	case errors.Is(err, ErrInvalidDepositAmount):
		return MsgInvalidDeposit
	case errors.Is(err, ErrInvalidUsername):
		return MsgInvalidUsername
	case errors.Is(err, ErrProfileNotFound):
		return MsgProfileNotFound
	case errors.Is(err, ErrTransactionNotFound):
		return MsgTransactionUnknown
	default:
		return fallback
	}
}
