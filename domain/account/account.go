package account

import (
	"errors"
	"time"

	"github.com/minimarket/goapi/base/ctx"
	"github.com/minimarket/goapi/domain"
)

var (
	ErrInvalidNonce     = errors.New("invalid nonce")
	ErrInvalidSignature = errors.New("invalid signature")
)

type Account struct {
	Address   domain.Address `json:"address" bson:"address"`
	Nonce     int32          `json:"-" bson:"nonce"`
	CreatedAt time.Time      `json:"createdAt" bson:"createdAt"`
}

type Updater struct {
	Nonce int32 `bson:"nonce"`
}

type Repo interface {
	Get(c ctx.Ctx, address domain.Address) (*Account, error)
	Insert(c ctx.Ctx, a *Account) error
	Update(c ctx.Ctx, address domain.Address, updater *Updater) error
}

type Usecase interface {
	Get(c ctx.Ctx, address domain.Address) (*Account, error)
	Create(c ctx.Ctx, address domain.Address) (*Account, error)
	// GenerateNonce issues a fresh one-shot nonce to be embedded in the
	// signing message.
	GenerateNonce(c ctx.Ctx, address domain.Address) (int32, error)
	// ValidateSignature checks a personal-sign signature over the nonce
	// message and consumes the nonce.
	ValidateSignature(c ctx.Ctx, address domain.Address, signature string) error
}
