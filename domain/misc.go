package domain

import (
	"math/big"
	"strings"

	"golang.org/x/xerrors"
)

type ChainId int32

type Address string

const EmptyAddress = Address("0x0000000000000000000000000000000000000000")

func (a Address) ToLower() Address {
	return Address(strings.ToLower(string(a)))
}

func (a Address) ToLowerPtr() *Address {
	res := a.ToLower()
	return &res
}

func (a Address) ToLowerStr() string {
	return strings.ToLower(string(a))
}

func (a Address) IsEmpty() bool {
	return len(a) == 0
}

func (a Address) Equals(b Address) bool {
	return a.ToLowerStr() == b.ToLowerStr()
}

type TxHash string

type BlockNumber uint64

// TokenAmount is an integer amount denominated in the smallest unit of the
// settlement token, stored as a base-10 string to survive json/bson intact.
type TokenAmount string

func (a TokenAmount) BigInt() (*big.Int, error) {
	v, ok := new(big.Int).SetString(string(a), 10)
	if !ok {
		return nil, xerrors.Errorf("invalid token amount %q", string(a))
	}
	return v, nil
}

func (a TokenAmount) IsPositive() bool {
	v, err := a.BigInt()
	return err == nil && v.Sign() > 0
}

func (a TokenAmount) Equals(b TokenAmount) bool {
	av, err := a.BigInt()
	if err != nil {
		return false
	}
	bv, err := b.BigInt()
	if err != nil {
		return false
	}
	return av.Cmp(bv) == 0
}
