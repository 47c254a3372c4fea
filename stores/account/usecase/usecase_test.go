package usecase

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minimarket/goapi/base/ctx"
	"github.com/minimarket/goapi/domain"
	"github.com/minimarket/goapi/domain/account"
)

const signatureMsg = "Welcome to MiniMarket!\n\nNonce: %s"

type memRepo struct {
	accounts map[domain.Address]*account.Account
}

func newMemRepo() *memRepo {
	return &memRepo{accounts: map[domain.Address]*account.Account{}}
}

func (r *memRepo) Get(c ctx.Ctx, address domain.Address) (*account.Account, error) {
	a, ok := r.accounts[address.ToLower()]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memRepo) Insert(c ctx.Ctx, a *account.Account) error {
	r.accounts[a.Address.ToLower()] = a
	return nil
}

func (r *memRepo) Update(c ctx.Ctx, address domain.Address, updater *account.Updater) error {
	a, ok := r.accounts[address.ToLower()]
	if !ok {
		return domain.ErrNotFound
	}
	a.Nonce = updater.Nonce
	return nil
}

func TestNonceSignatureRoundTrip(t *testing.T) {
	c := ctx.Background()
	repo := newMemRepo()
	u := New(&AccountUseCaseCfg{Repo: repo, SignatureMsg: signatureMsg})

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := domain.Address(crypto.PubkeyToAddress(key.PublicKey).Hex())

	nonce, err := u.GenerateNonce(c, address)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, nonce, int32(0))

	msg := []byte(fmt.Sprintf(signatureMsg, strconv.Itoa(int(nonce))))
	sig, err := crypto.Sign(accounts.TextHash(msg), key)
	require.NoError(t, err)

	err = u.ValidateSignature(c, address, hexutil.Encode(sig))
	assert.NoError(t, err)

	// nonce is one-shot
	err = u.ValidateSignature(c, address, hexutil.Encode(sig))
	assert.ErrorIs(t, err, account.ErrInvalidNonce)
}

func TestValidateSignatureWrongSigner(t *testing.T) {
	c := ctx.Background()
	repo := newMemRepo()
	u := New(&AccountUseCaseCfg{Repo: repo, SignatureMsg: signatureMsg})

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := domain.Address(crypto.PubkeyToAddress(key.PublicKey).Hex())

	nonce, err := u.GenerateNonce(c, address)
	require.NoError(t, err)

	otherKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	msg := []byte(fmt.Sprintf(signatureMsg, strconv.Itoa(int(nonce))))
	sig, err := crypto.Sign(accounts.TextHash(msg), otherKey)
	require.NoError(t, err)

	err = u.ValidateSignature(c, address, hexutil.Encode(sig))
	assert.ErrorIs(t, err, account.ErrInvalidSignature)
}
