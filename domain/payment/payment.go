package payment

import (
	"errors"

	"github.com/minimarket/goapi/base/ctx"
	"github.com/minimarket/goapi/domain"
)

var (
	// ErrInsufficientFunds is returned when the payer cannot cover the amount
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrTransferFailed is returned when the payment rail rejects the movement
	ErrTransferFailed = errors.New("transfer rejected by payment rail")
	// ErrInvalidAmount is returned for zero or malformed amounts
	ErrInvalidAmount = errors.New("transfer amount must be a positive integer")
)

// Transferer is the single capability the settlement engine needs from a
// payment rail. Implementations must either move the full amount or leave
// both parties untouched.
type Transferer interface {
	Transfer(c ctx.Ctx, from, to domain.Address, amount domain.TokenAmount) error
}

type Balance struct {
	Address   domain.Address     `json:"address" bson:"address"`
	Amount    domain.TokenAmount `json:"amount" bson:"amount"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}

// TokenInfo describes the settlement token.
type TokenInfo struct {
	ChainId  domain.ChainId `json:"chainId"`
	Address  domain.Address `json:"address"`
	Symbol   string         `json:"symbol"`
	Decimals uint8          `json:"decimals"`
}

type Usecase interface {
	GetBalance(c ctx.Ctx, address domain.Address) (*Balance, error)
	// Deposit credits a custodial balance after the operator has verified
	// the matching settlement token transfer on chain.
	Deposit(c ctx.Ctx, address domain.Address, amount domain.TokenAmount) (*Balance, error)
	TokenInfo(c ctx.Ctx) (*TokenInfo, error)
}

// BalanceRepo is the custodial balance ledger backing the default rail.
type BalanceRepo interface {
	Transferer

	// Get returns a zero balance rather than domain.ErrNotFound for unknown
	// addresses.
	Get(c ctx.Ctx, address domain.Address) (*Balance, error)

	// Credit adds amount to the address balance, creating it if absent.
	// Used when reconciling settlement token deposits.
	Credit(c ctx.Ctx, address domain.Address, amount domain.TokenAmount) error
}
