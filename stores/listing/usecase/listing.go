package usecase

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/minimarket/goapi/base/ctx"
	"github.com/minimarket/goapi/base/log"
	"github.com/minimarket/goapi/domain"
	"github.com/minimarket/goapi/domain/listing"
	"github.com/minimarket/goapi/domain/payment"
	"github.com/minimarket/goapi/service/query"
)

type ListingUseCaseCfg struct {
	ListingRepo listing.Repo
	Transferer  payment.Transferer
	Query       query.Mongo
	// decimals of the settlement token, used to derive display prices
	TokenDecimals int32
}

type impl struct {
	listingRepo   listing.Repo
	transferer    payment.Transferer
	query         query.Mongo
	tokenDecimals int32
}

func New(cfg *ListingUseCaseCfg) listing.UseCase {
	return &impl{
		listingRepo:   cfg.ListingRepo,
		transferer:    cfg.Transferer,
		query:         cfg.Query,
		tokenDecimals: cfg.TokenDecimals,
	}
}

func (im *impl) Create(c ctx.Ctx, params listing.CreateParams) (*listing.Listing, error) {
	if !params.Price.IsPositive() {
		return nil, listing.ErrInvalidPrice
	}
	if len(strings.TrimSpace(params.Name)) == 0 || len(strings.TrimSpace(params.Description)) == 0 {
		return nil, listing.ErrInvalidMetadata
	}

	id, err := im.listingRepo.AllocateId(c)
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
		}).Error("failed to listingRepo.AllocateId")
		return nil, err
	}

	l := &listing.Listing{
		ListingId:    id,
		Vendor:       params.Vendor.ToLower(),
		Name:         params.Name,
		Description:  params.Description,
		ImageHash:    params.ImageHash,
		Price:        params.Price,
		DisplayPrice: im.displayPrice(c, params.Price),
		Status:       listing.StatusActive,
		CreatedAt:    time.Now().UTC(),
	}

	if err := im.listingRepo.Insert(c, l); err != nil {
		c.WithFields(log.Fields{
			"listingId": id,
			"err":       err,
		}).Error("failed to listingRepo.Insert")
		return nil, err
	}

	return l, nil
}

func (im *impl) Get(c ctx.Ctx, id listing.Id) (*listing.Listing, error) {
	l, err := im.listingRepo.FindOne(c, id)
	if err != nil {
		if err != domain.ErrNotFound {
			c.WithFields(log.Fields{
				"listingId": id,
				"err":       err,
			}).Error("failed to listingRepo.FindOne")
		}
		return nil, err
	}
	return l, nil
}

func (im *impl) GetActives(c ctx.Ctx, opts ...listing.FindActivesOptionsFunc) ([]*listing.Listing, error) {
	res, err := im.listingRepo.FindActives(c, opts...)
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
		}).Error("failed to listingRepo.FindActives")
		return nil, err
	}
	return res, nil
}

// Buy retires the listing and moves the funds inside one transaction. The
// status flip in MarkSold is the serialization point, so concurrent buyers of
// the same listing resolve to exactly one winner, and a rejected transfer
// aborts the flip along with it.
func (im *impl) Buy(c ctx.Ctx, id listing.Id, payer domain.Address, amount domain.TokenAmount) (*listing.Confirmation, error) {
	l, err := im.listingRepo.FindOne(c, id)
	if err != nil {
		if err != domain.ErrNotFound {
			c.WithFields(log.Fields{
				"listingId": id,
				"err":       err,
			}).Error("failed to listingRepo.FindOne")
		}
		return nil, err
	}

	if l.Status == listing.StatusSold {
		return nil, listing.ErrAlreadySold
	}
	if !amount.Equals(l.Price) {
		return nil, listing.ErrAmountMismatch
	}
	if payer.Equals(l.Vendor) {
		return nil, listing.ErrSelfPurchase
	}

	soldAt := time.Now().UTC()

	err = im.query.RunWithTransaction(c, func(sc ctx.Ctx) error {
		if err := im.listingRepo.MarkSold(sc, id, payer, soldAt); err != nil {
			return err
		}
		return im.transferer.Transfer(sc, payer, l.Vendor, amount)
	})
	if err != nil {
		switch err {
		case listing.ErrAlreadySold, payment.ErrInsufficientFunds:
			// expected outcomes of racing or underfunded buyers
		default:
			c.WithFields(log.Fields{
				"listingId": id,
				"payer":     payer,
				"err":       err,
			}).Error("purchase transaction failed")
		}
		return nil, err
	}

	return &listing.Confirmation{
		ListingId: id,
		Vendor:    l.Vendor,
		Payer:     payer.ToLower(),
		Amount:    amount,
		SoldAt:    soldAt,
	}, nil
}

func (im *impl) displayPrice(c ctx.Ctx, price domain.TokenAmount) string {
	value, err := price.BigInt()
	if err != nil {
		c.WithFields(log.Fields{
			"price": price,
			"err":   err,
		}).Warn("failed to parse price for display")
		return ""
	}
	return decimal.NewFromBigInt(value, -im.tokenDecimals).String()
}
