package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/minimarket/goapi/base/ctx"
	"github.com/minimarket/goapi/domain"
	"github.com/minimarket/goapi/domain/account"
	mAccount "github.com/minimarket/goapi/domain/account/mocks"
	"github.com/minimarket/goapi/stores/auth/usecase"
)

func TestSignAndParseToken(t *testing.T) {
	mockAccountUC := &mAccount.Usecase{}

	mockAccountUC.On("Get", mock.Anything, domain.Address("0xmy-address")).Return(nil, nil)
	mockAccountUC.On("ValidateSignature", mock.Anything, domain.Address("0xmy-address"), "signature").Return(nil)

	ctx := ctx.Background()
	u := usecase.New("jwt-secret", mockAccountUC)
	tkn, err := u.SignToken(ctx, "0xmy-address", "signature")
	assert.NoError(t, err)
	assert.NotEmpty(t, tkn)
	ads, err := u.ParseToken(ctx, tkn)
	assert.NoError(t, err)
	assert.Equal(t, "0xmy-address", ads)
}

func TestSignTokenRejectsBadSignature(t *testing.T) {
	mockAccountUC := &mAccount.Usecase{}

	mockAccountUC.On("Get", mock.Anything, domain.Address("0xmy-address")).Return(nil, nil)
	mockAccountUC.On("ValidateSignature", mock.Anything, domain.Address("0xmy-address"), "bogus").Return(account.ErrInvalidSignature)

	u := usecase.New("jwt-secret", mockAccountUC)
	_, err := u.SignToken(ctx.Background(), "0xmy-address", "bogus")
	assert.ErrorIs(t, err, account.ErrInvalidSignature)
}

func TestParseTokenRejectsForeignSecret(t *testing.T) {
	mockAccountUC := &mAccount.Usecase{}
	mockAccountUC.On("Get", mock.Anything, domain.Address("0xmy-address")).Return(nil, nil)
	mockAccountUC.On("ValidateSignature", mock.Anything, domain.Address("0xmy-address"), "signature").Return(nil)

	ctx := ctx.Background()
	signer := usecase.New("jwt-secret", mockAccountUC)
	tkn, err := signer.SignToken(ctx, "0xmy-address", "signature")
	assert.NoError(t, err)

	parser := usecase.New("other-secret", mockAccountUC)
	_, err = parser.ParseToken(ctx, tkn)
	assert.Error(t, err)
}
