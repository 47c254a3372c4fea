package contract

import (
	"math/big"
	"strings"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	bCtx "github.com/minimarket/goapi/base/ctx"
	"github.com/minimarket/goapi/service/chain"
)

const erc20AbiJson = `[
	{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"type":"function"}
]`

// Erc20Contract reads the settlement token contract, used when reconciling
// on-chain deposits against the custodial balance ledger.
type Erc20Contract interface {
	BalanceOf(ctx bCtx.Ctx, chainId int32, token, owner string) (*big.Int, error)
	Decimals(ctx bCtx.Ctx, chainId int32, token string) (uint8, error)
	Symbol(ctx bCtx.Ctx, chainId int32, token string) (string, error)
}

type Erc20 struct {
	chainService chain.Client
	abi          ethabi.ABI
}

func NewErc20(chainService chain.Client) *Erc20 {
	parsed, err := ethabi.JSON(strings.NewReader(erc20AbiJson))
	if err != nil {
		panic(err)
	}
	return &Erc20{
		chainService: chainService,
		abi:          parsed,
	}
}

func (e *Erc20) BalanceOf(ctx bCtx.Ctx, chainId int32, token, owner string) (*big.Int, error) {
	method := "balanceOf"
	unpacked, err := e.chainService.Call(ctx, chainId, common.HexToAddress(token), nil, e.abi, method, common.HexToAddress(owner))
	if err != nil {
		return nil, err
	}
	return unpacked[0].(*big.Int), nil
}

func (e *Erc20) Decimals(ctx bCtx.Ctx, chainId int32, token string) (uint8, error) {
	method := "decimals"
	unpacked, err := e.chainService.Call(ctx, chainId, common.HexToAddress(token), nil, e.abi, method)
	if err != nil {
		return 0, err
	}
	return unpacked[0].(uint8), nil
}

func (e *Erc20) Symbol(ctx bCtx.Ctx, chainId int32, token string) (string, error) {
	method := "symbol"
	unpacked, err := e.chainService.Call(ctx, chainId, common.HexToAddress(token), nil, e.abi, method)
	if err != nil {
		return "", err
	}
	return unpacked[0].(string), nil
}
