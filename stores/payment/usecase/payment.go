package usecase

import (
	"sync"

	"github.com/minimarket/goapi/base/ctx"
	"github.com/minimarket/goapi/base/log"
	"github.com/minimarket/goapi/domain"
	"github.com/minimarket/goapi/domain/payment"
	"github.com/minimarket/goapi/service/chain/contract"
)

type PaymentUseCaseCfg struct {
	BalanceRepo  payment.BalanceRepo
	Erc20        contract.Erc20Contract
	ChainId      domain.ChainId
	TokenAddress domain.Address
}

type impl struct {
	balanceRepo  payment.BalanceRepo
	erc20        contract.Erc20Contract
	chainId      domain.ChainId
	tokenAddress domain.Address

	tokenMu   sync.Mutex
	tokenInfo *payment.TokenInfo
}

func New(cfg *PaymentUseCaseCfg) payment.Usecase {
	return &impl{
		balanceRepo:  cfg.BalanceRepo,
		erc20:        cfg.Erc20,
		chainId:      cfg.ChainId,
		tokenAddress: cfg.TokenAddress,
	}
}

func (im *impl) GetBalance(c ctx.Ctx, address domain.Address) (*payment.Balance, error) {
	return im.balanceRepo.Get(c, address)
}

func (im *impl) Deposit(c ctx.Ctx, address domain.Address, amount domain.TokenAmount) (*payment.Balance, error) {
	if err := im.balanceRepo.Credit(c, address, amount); err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"amount":  amount,
			"err":     err,
		}).Error("balanceRepo.Credit failed")
		return nil, err
	}
	return im.balanceRepo.Get(c, address)
}

// TokenInfo reads symbol and decimals from the token contract and caches
// them, they never change for a deployed token.
func (im *impl) TokenInfo(c ctx.Ctx) (*payment.TokenInfo, error) {
	im.tokenMu.Lock()
	defer im.tokenMu.Unlock()
	if im.tokenInfo != nil {
		return im.tokenInfo, nil
	}

	symbol, err := im.erc20.Symbol(c, int32(im.chainId), im.tokenAddress.ToLowerStr())
	if err != nil {
		c.WithField("err", err).Error("erc20.Symbol failed")
		return nil, err
	}
	decimals, err := im.erc20.Decimals(c, int32(im.chainId), im.tokenAddress.ToLowerStr())
	if err != nil {
		c.WithField("err", err).Error("erc20.Decimals failed")
		return nil, err
	}
	im.tokenInfo = &payment.TokenInfo{
		ChainId:  im.chainId,
		Address:  im.tokenAddress,
		Symbol:   symbol,
		Decimals: decimals,
	}
	return im.tokenInfo, nil
}
