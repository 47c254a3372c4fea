package listing

import (
	"errors"
	"time"

	"github.com/minimarket/goapi/base/ctx"
	"github.com/minimarket/goapi/domain"
)

var (
	// ErrInvalidPrice is returned when a creation carries a non-positive price
	ErrInvalidPrice = errors.New("price must be a positive integer")
	// ErrInvalidMetadata is returned when a required display field is empty
	ErrInvalidMetadata = errors.New("name and description are required")
	// ErrAlreadySold is returned when the listing left the active state first
	ErrAlreadySold = errors.New("listing already sold")
	// ErrAmountMismatch is returned when the tendered amount differs from the price
	ErrAmountMismatch = errors.New("tendered amount does not match listing price")
	// ErrSelfPurchase is returned when a vendor tries to buy their own listing
	ErrSelfPurchase = errors.New("cannot purchase own listing")
)

// Id of a listing. Allocated once, strictly increasing, never reused.
type Id int64

type Status string

const (
	StatusActive Status = "active"
	StatusSold   Status = "sold"
)

type Listing struct {
	ListingId   Id                 `json:"listingId" bson:"listingId"`
	Vendor      domain.Address     `json:"vendor" bson:"vendor"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	ImageHash   string             `json:"imageHash" bson:"imageHash"`
	Price       domain.TokenAmount `json:"price" bson:"price"`
	// price converted to whole token units for display, derived at creation
	DisplayPrice string         `json:"displayPrice" bson:"displayPrice"`
	Status       Status         `json:"status" bson:"status"`
	Buyer        domain.Address `json:"buyer,omitempty" bson:"buyer,omitempty"`
	CreatedAt    time.Time      `json:"createdAt" bson:"createdAt"`
	SoldAt       *time.Time     `json:"soldAt,omitempty" bson:"soldAt,omitempty"`
}

// Confirmation reports a committed purchase.
type Confirmation struct {
	ListingId Id                 `json:"listingId"`
	Vendor    domain.Address     `json:"vendor"`
	Payer     domain.Address     `json:"payer"`
	Amount    domain.TokenAmount `json:"amount"`
	SoldAt    time.Time          `json:"soldAt"`
}

type findActivesOptions struct {
	Offset *int
	Limit  *int
}

type FindActivesOptionsFunc func(*findActivesOptions) error

func GetFindActivesOptions(opts ...FindActivesOptionsFunc) (findActivesOptions, error) {
	res := findActivesOptions{}
	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func WithPagination(offset, limit int) FindActivesOptionsFunc {
	return func(o *findActivesOptions) error {
		o.Offset = &offset
		o.Limit = &limit
		return nil
	}
}

// Repo owns all mutable listing state plus the id allocation counter.
type Repo interface {
	// AllocateId returns an id strictly greater than every id handed out
	// before, regardless of concurrent callers.
	AllocateId(c ctx.Ctx) (Id, error)

	// Insert stores a new listing. Returns domain.ErrConflict when the id
	// is already present.
	Insert(c ctx.Ctx, l *Listing) error

	// FindOne returns domain.ErrNotFound when the id was never allocated.
	FindOne(c ctx.Ctx, id Id) (*Listing, error)

	// MarkSold flips active -> sold for exactly one caller. The status
	// filter and the update are a single compare-and-set, so a loser of a
	// purchase race gets ErrAlreadySold and nothing else changes.
	MarkSold(c ctx.Ctx, id Id, buyer domain.Address, soldAt time.Time) error

	// FindActives returns active listings ascending by id from one
	// consistent snapshot.
	FindActives(c ctx.Ctx, opts ...FindActivesOptionsFunc) ([]*Listing, error)
}

type CreateParams struct {
	Vendor      domain.Address
	Name        string
	Description string
	ImageHash   string
	Price       domain.TokenAmount
}

type UseCase interface {
	// Create validates and commits a new active listing, returning it with
	// the allocated id.
	Create(c ctx.Ctx, params CreateParams) (*Listing, error)

	Get(c ctx.Ctx, id Id) (*Listing, error)

	GetActives(c ctx.Ctx, opts ...FindActivesOptionsFunc) ([]*Listing, error)

	// Buy atomically transfers the exact price from payer to the vendor and
	// retires the listing. On any error no funds move and the listing stays
	// active.
	Buy(c ctx.Ctx, id Id, payer domain.Address, amount domain.TokenAmount) (*Confirmation, error)
}
