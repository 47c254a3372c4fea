package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/minimarket/goapi/base/ctx"
	"github.com/minimarket/goapi/base/log"
	"github.com/minimarket/goapi/domain"
	"github.com/minimarket/goapi/domain/listing"
	"github.com/minimarket/goapi/service/query"
)

// counterId is the _id of the listing id allocation document
const counterId = "listingId"

type counter struct {
	Id  string     `bson:"_id"`
	Seq listing.Id `bson:"seq"`
}

type impl struct {
	query query.Mongo
}

// New creates new listing repo
func New(q query.Mongo) listing.Repo {
	return &impl{query: q}
}

func (im *impl) AllocateId(c ctx.Ctx) (listing.Id, error) {
	res := counter{}
	// findOneAndUpdate $inc on a single counter doc, so two concurrent
	// allocations can never observe the same sequence value
	if err := im.query.Increment(c, domain.TableCounters, bson.M{"_id": counterId}, &res, "seq", int64(1)); err != nil {
		c.WithField("err", err).Error("allocate listing id failed")
		return 0, err
	}
	return res.Seq, nil
}

func (im *impl) Insert(c ctx.Ctx, l *listing.Listing) error {
	l.Vendor = l.Vendor.ToLower()
	if err := im.query.Insert(c, domain.TableListings, l); err != nil {
		if err == query.ErrDuplicateKey {
			return domain.ErrConflict
		}
		c.WithFields(log.Fields{
			"listingId": l.ListingId,
			"err":       err,
		}).Error("insert listing failed")
		return err
	}
	return nil
}

func (im *impl) FindOne(c ctx.Ctx, id listing.Id) (*listing.Listing, error) {
	l := &listing.Listing{}
	err := im.query.FindOne(c, domain.TableListings, bson.M{"listingId": id}, l)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"listingId": id,
			"err":       err,
		}).Error("find listing failed")
		return nil, err
	}
	return l, nil
}

func (im *impl) MarkSold(c ctx.Ctx, id listing.Id, buyer domain.Address, soldAt time.Time) error {
	selector := bson.M{"listingId": id, "status": listing.StatusActive}
	update := bson.M{"$set": bson.M{
		"status": listing.StatusSold,
		"buyer":  buyer.ToLower(),
		"soldAt": soldAt,
	}}
	err := im.query.CustomPatch(c, domain.TableListings, selector, update, false)
	if err == nil {
		return nil
	}
	if err != query.ErrNotFound {
		c.WithFields(log.Fields{
			"listingId": id,
			"err":       err,
		}).Error("mark listing sold failed")
		return err
	}

	// the status filter missed: either the id never existed or another
	// purchase committed first
	if _, err := im.FindOne(c, id); err != nil {
		return err
	}
	return listing.ErrAlreadySold
}

func (im *impl) FindActives(c ctx.Ctx, opts ...listing.FindActivesOptionsFunc) ([]*listing.Listing, error) {
	o, err := listing.GetFindActivesOptions(opts...)
	if err != nil {
		return nil, err
	}

	offset, limit := 0, 0
	if o.Offset != nil {
		offset = *o.Offset
	}
	if o.Limit != nil {
		limit = *o.Limit
	}

	res := []*listing.Listing{}
	if err := im.query.Search(c, domain.TableListings, offset, limit, "listingId",
		bson.M{"status": listing.StatusActive}, &res); err != nil {
		c.WithField("err", err).Error("find active listings failed")
		return nil, err
	}
	return res, nil
}
