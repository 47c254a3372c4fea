package repository

import (
	"math/big"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/minimarket/goapi/base/ctx"
	"github.com/minimarket/goapi/base/log"
	"github.com/minimarket/goapi/domain"
	"github.com/minimarket/goapi/domain/payment"
	"github.com/minimarket/goapi/service/query"
)

type impl struct {
	query query.Mongo
}

// New creates the custodial balance ledger
func New(q query.Mongo) payment.BalanceRepo {
	return &impl{query: q}
}

func (im *impl) Get(c ctx.Ctx, address domain.Address) (*payment.Balance, error) {
	b := &payment.Balance{}
	err := im.query.FindOne(c, domain.TableBalances, bson.M{"address": address.ToLower()}, b)
	if err == query.ErrNotFound {
		return &payment.Balance{
			Address: address.ToLower(),
			Amount:  domain.TokenAmount("0"),
		}, nil
	} else if err != nil {
		c.WithFields(log.Fields{
			"address": address,
			"err":     err,
		}).Error("find balance failed")
		return nil, err
	}
	return b, nil
}

// Transfer moves amount between two balances on the given ctx. The settlement
// engine calls it inside a mongo transaction, so both writes commit or abort
// with the rest of the purchase. The compare-and-set selectors keep a direct
// call safe as well.
func (im *impl) Transfer(c ctx.Ctx, from, to domain.Address, amount domain.TokenAmount) error {
	value, err := amount.BigInt()
	if err != nil || value.Sign() <= 0 {
		return payment.ErrInvalidAmount
	}

	fromBalance, err := im.Get(c, from)
	if err != nil {
		return err
	}
	available, err := fromBalance.Amount.BigInt()
	if err != nil {
		c.WithFields(log.Fields{
			"address": from,
			"amount":  fromBalance.Amount,
		}).Error("stored balance is not a valid amount")
		return payment.ErrTransferFailed
	}
	if available.Cmp(value) < 0 {
		return payment.ErrInsufficientFunds
	}

	toBalance, err := im.Get(c, to)
	if err != nil {
		return err
	}
	credited, err := toBalance.Amount.BigInt()
	if err != nil {
		c.WithFields(log.Fields{
			"address": to,
			"amount":  toBalance.Amount,
		}).Error("stored balance is not a valid amount")
		return payment.ErrTransferFailed
	}

	now := time.Now().Unix()

	debit := bson.M{
		"$set": bson.M{
			"amount":    domain.TokenAmount(new(big.Int).Sub(available, value).String()),
			"updatedAt": now,
		},
	}
	if err := im.query.CustomPatch(c, domain.TableBalances,
		bson.M{"address": from.ToLower(), "amount": fromBalance.Amount}, debit, false); err != nil {
		if err == query.ErrNotFound {
			// balance changed under us outside a transaction
			return payment.ErrTransferFailed
		}
		c.WithFields(log.Fields{
			"address": from,
			"err":     err,
		}).Error("debit balance failed")
		return err
	}

	credit := bson.M{
		"$set": bson.M{
			"amount":    domain.TokenAmount(new(big.Int).Add(credited, value).String()),
			"updatedAt": now,
		},
	}
	if err := im.query.CustomPatch(c, domain.TableBalances,
		bson.M{"address": to.ToLower()}, credit, true); err != nil {
		c.WithFields(log.Fields{
			"address": to,
			"err":     err,
		}).Error("credit balance failed")
		return err
	}
	return nil
}

func (im *impl) Credit(c ctx.Ctx, address domain.Address, amount domain.TokenAmount) error {
	value, err := amount.BigInt()
	if err != nil || value.Sign() <= 0 {
		return payment.ErrInvalidAmount
	}

	// read-modify-write in its own transaction, amounts are big-int strings
	// mongo cannot $inc
	return im.query.RunWithTransaction(c, func(sc ctx.Ctx) error {
		balance, err := im.Get(sc, address)
		if err != nil {
			return err
		}
		current, err := balance.Amount.BigInt()
		if err != nil {
			sc.WithFields(log.Fields{
				"address": address,
				"amount":  balance.Amount,
			}).Error("stored balance is not a valid amount")
			return payment.ErrTransferFailed
		}

		update := bson.M{
			"$set": bson.M{
				"amount":    domain.TokenAmount(new(big.Int).Add(current, value).String()),
				"updatedAt": time.Now().Unix(),
			},
		}
		return im.query.CustomPatch(sc, domain.TableBalances,
			bson.M{"address": address.ToLower()}, update, true)
	})
}
