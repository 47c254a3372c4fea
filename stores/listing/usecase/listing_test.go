package usecase

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/minimarket/goapi/base/ctx"
	"github.com/minimarket/goapi/domain"
	"github.com/minimarket/goapi/domain/listing"
	mListing "github.com/minimarket/goapi/domain/listing/mocks"
	"github.com/minimarket/goapi/domain/payment"
	mPayment "github.com/minimarket/goapi/domain/payment/mocks"
	"github.com/minimarket/goapi/service/query"
)

const (
	vendorAddress = domain.Address("0x48f01b6cdbcbeca02b5f3f0b0b6eba75be025e7c")
	payerAddress  = domain.Address("0x61a00dc0958d556e6f9bb278c2b20bd10a602e45")
)

// passthroughTx runs transaction callbacks directly. Only RunWithTransaction
// is reachable from the usecase.
type passthroughTx struct {
	query.Mongo
}

func (passthroughTx) RunWithTransaction(c ctx.Ctx, run func(ctx.Ctx) error) error {
	return run(c)
}

func newTestUseCase(repo listing.Repo, transferer payment.Transferer) listing.UseCase {
	return New(&ListingUseCaseCfg{
		ListingRepo:   repo,
		Transferer:    transferer,
		Query:         passthroughTx{},
		TokenDecimals: 18,
	})
}

func TestCreate(t *testing.T) {
	c := ctx.Background()
	repo := &mListing.Repo{}
	repo.On("AllocateId", mock.Anything).Return(listing.Id(1), nil)
	repo.On("Insert", mock.Anything, mock.AnythingOfType("*listing.Listing")).Return(nil)

	u := newTestUseCase(repo, &mPayment.Transferer{})
	l, err := u.Create(c, listing.CreateParams{
		Vendor:      vendorAddress,
		Name:        "Bread",
		Description: "Fresh sourdough",
		ImageHash:   "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG",
		Price:       domain.TokenAmount("500000000000000000000"),
	})
	require.NoError(t, err)
	assert.Equal(t, listing.Id(1), l.ListingId)
	assert.Equal(t, vendorAddress, l.Vendor)
	assert.Equal(t, listing.StatusActive, l.Status)
	assert.Equal(t, "500", l.DisplayPrice)
	assert.False(t, l.CreatedAt.IsZero())
	repo.AssertExpectations(t)
}

func TestCreateRejectsNonPositivePrice(t *testing.T) {
	c := ctx.Background()
	repo := &mListing.Repo{}
	u := newTestUseCase(repo, &mPayment.Transferer{})

	for _, price := range []string{"0", "-5", "", "12.5", "abc"} {
		_, err := u.Create(c, listing.CreateParams{
			Vendor:      vendorAddress,
			Name:        "Bread",
			Description: "Fresh sourdough",
			Price:       domain.TokenAmount(price),
		})
		assert.ErrorIs(t, err, listing.ErrInvalidPrice, "price %q", price)
	}
	repo.AssertNotCalled(t, "AllocateId", mock.Anything)
}

func TestCreateRejectsEmptyMetadata(t *testing.T) {
	c := ctx.Background()
	repo := &mListing.Repo{}
	u := newTestUseCase(repo, &mPayment.Transferer{})

	_, err := u.Create(c, listing.CreateParams{
		Vendor:      vendorAddress,
		Name:        "   ",
		Description: "Fresh sourdough",
		Price:       domain.TokenAmount("500"),
	})
	assert.ErrorIs(t, err, listing.ErrInvalidMetadata)

	_, err = u.Create(c, listing.CreateParams{
		Vendor:      vendorAddress,
		Name:        "Bread",
		Description: "",
		Price:       domain.TokenAmount("500"),
	})
	assert.ErrorIs(t, err, listing.ErrInvalidMetadata)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func activeListing() *listing.Listing {
	return &listing.Listing{
		ListingId:   1,
		Vendor:      vendorAddress,
		Name:        "Bread",
		Description: "Fresh sourdough",
		Price:       domain.TokenAmount("500000000000000000000"),
		Status:      listing.StatusActive,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestBuy(t *testing.T) {
	c := ctx.Background()
	l := activeListing()
	repo := &mListing.Repo{}
	repo.On("FindOne", mock.Anything, listing.Id(1)).Return(l, nil)
	repo.On("MarkSold", mock.Anything, listing.Id(1), payerAddress, mock.AnythingOfType("time.Time")).Return(nil)
	transferer := &mPayment.Transferer{}
	transferer.On("Transfer", mock.Anything, payerAddress, vendorAddress, l.Price).Return(nil)

	u := newTestUseCase(repo, transferer)
	conf, err := u.Buy(c, 1, payerAddress, l.Price)
	require.NoError(t, err)
	assert.Equal(t, listing.Id(1), conf.ListingId)
	assert.Equal(t, vendorAddress, conf.Vendor)
	assert.Equal(t, payerAddress, conf.Payer)
	assert.Equal(t, l.Price, conf.Amount)
	assert.False(t, conf.SoldAt.IsZero())
	repo.AssertExpectations(t)
	transferer.AssertExpectations(t)
}

func TestBuyAlreadySold(t *testing.T) {
	c := ctx.Background()
	l := activeListing()
	l.Status = listing.StatusSold
	repo := &mListing.Repo{}
	repo.On("FindOne", mock.Anything, listing.Id(1)).Return(l, nil)
	transferer := &mPayment.Transferer{}

	u := newTestUseCase(repo, transferer)
	_, err := u.Buy(c, 1, payerAddress, l.Price)
	assert.ErrorIs(t, err, listing.ErrAlreadySold)
	transferer.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBuyAmountMismatch(t *testing.T) {
	c := ctx.Background()
	repo := &mListing.Repo{}
	repo.On("FindOne", mock.Anything, listing.Id(1)).Return(activeListing(), nil)
	transferer := &mPayment.Transferer{}
	u := newTestUseCase(repo, transferer)

	for _, amount := range []string{"499999999999999999999", "500000000000000000001", "0"} {
		_, err := u.Buy(c, 1, payerAddress, domain.TokenAmount(amount))
		assert.ErrorIs(t, err, listing.ErrAmountMismatch, "amount %s", amount)
	}
	transferer.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "MarkSold", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBuySelfPurchase(t *testing.T) {
	c := ctx.Background()
	l := activeListing()
	repo := &mListing.Repo{}
	repo.On("FindOne", mock.Anything, listing.Id(1)).Return(l, nil)
	transferer := &mPayment.Transferer{}

	u := newTestUseCase(repo, transferer)
	_, err := u.Buy(c, 1, vendorAddress, l.Price)
	assert.ErrorIs(t, err, listing.ErrSelfPurchase)
	transferer.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBuyNotFound(t *testing.T) {
	c := ctx.Background()
	repo := &mListing.Repo{}
	repo.On("FindOne", mock.Anything, listing.Id(42)).Return(nil, domain.ErrNotFound)

	u := newTestUseCase(repo, &mPayment.Transferer{})
	_, err := u.Buy(c, 42, payerAddress, domain.TokenAmount("500"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBuyTransferFailure(t *testing.T) {
	c := ctx.Background()
	l := activeListing()
	repo := &mListing.Repo{}
	repo.On("FindOne", mock.Anything, listing.Id(1)).Return(l, nil)
	repo.On("MarkSold", mock.Anything, listing.Id(1), payerAddress, mock.AnythingOfType("time.Time")).Return(nil)
	transferer := &mPayment.Transferer{}
	transferer.On("Transfer", mock.Anything, payerAddress, vendorAddress, l.Price).Return(payment.ErrInsufficientFunds)

	u := newTestUseCase(repo, transferer)
	_, err := u.Buy(c, 1, payerAddress, l.Price)
	assert.ErrorIs(t, err, payment.ErrInsufficientFunds)
}

// fakeLedger is an in-memory listing.Repo for end-to-end usecase tests.
type fakeLedger struct {
	mu       sync.Mutex
	nextId   listing.Id
	listings map[listing.Id]*listing.Listing
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{listings: map[listing.Id]*listing.Listing{}}
}

func (r *fakeLedger) AllocateId(c ctx.Ctx) (listing.Id, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextId++
	return r.nextId, nil
}

func (r *fakeLedger) Insert(c ctx.Ctx, l *listing.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[l.ListingId]; ok {
		return domain.ErrConflict
	}
	cp := *l
	r.listings[l.ListingId] = &cp
	return nil
}

func (r *fakeLedger) FindOne(c ctx.Ctx, id listing.Id) (*listing.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *fakeLedger) MarkSold(c ctx.Ctx, id listing.Id, buyer domain.Address, soldAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return domain.ErrNotFound
	}
	if l.Status != listing.StatusActive {
		return listing.ErrAlreadySold
	}
	l.Status = listing.StatusSold
	l.Buyer = buyer.ToLower()
	l.SoldAt = &soldAt
	return nil
}

func (r *fakeLedger) snapshot() map[listing.Id]listing.Listing {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := map[listing.Id]listing.Listing{}
	for id, l := range r.listings {
		snap[id] = *l
	}
	return snap
}

func (r *fakeLedger) restore(snap map[listing.Id]listing.Listing) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listings = map[listing.Id]*listing.Listing{}
	for id, l := range snap {
		cp := l
		r.listings[id] = &cp
	}
}

func (r *fakeLedger) FindActives(c ctx.Ctx, opts ...listing.FindActivesOptionsFunc) ([]*listing.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := []*listing.Listing{}
	for id := listing.Id(1); id <= r.nextId; id++ {
		if l, ok := r.listings[id]; ok && l.Status == listing.StatusActive {
			cp := *l
			res = append(res, &cp)
		}
	}
	return res, nil
}

// fakeRail is an in-memory balance ledger.
type fakeRail struct {
	mu       sync.Mutex
	balances map[domain.Address]int64
}

func (r *fakeRail) Transfer(c ctx.Ctx, from, to domain.Address, amount domain.TokenAmount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	value, err := amount.BigInt()
	if err != nil {
		return payment.ErrInvalidAmount
	}
	v := value.Int64()
	if r.balances[from.ToLower()] < v {
		return payment.ErrInsufficientFunds
	}
	r.balances[from.ToLower()] -= v
	r.balances[to.ToLower()] += v
	return nil
}

func (r *fakeRail) snapshot() map[domain.Address]int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := map[domain.Address]int64{}
	for a, v := range r.balances {
		snap[a] = v
	}
	return snap
}

func (r *fakeRail) restore(snap map[domain.Address]int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances = snap
}

// snapshotTx gives the in-memory fakes transactional semantics: a failed
// callback restores the state captured at entry.
type snapshotTx struct {
	query.Mongo
	ledger *fakeLedger
	rail   *fakeRail
}

func (t snapshotTx) RunWithTransaction(c ctx.Ctx, run func(ctx.Ctx) error) error {
	listings := t.ledger.snapshot()
	balances := t.rail.snapshot()
	err := run(c)
	if err != nil {
		t.ledger.restore(listings)
		t.rail.restore(balances)
	}
	return err
}

func TestMarketScenario(t *testing.T) {
	c := ctx.Background()
	ledger := newFakeLedger()
	rail := &fakeRail{balances: map[domain.Address]int64{payerAddress: 1000}}
	buyerY := domain.Address("0x7c94c9e08e9a3b19b7ed3b4f0c889db62c71b2a1")
	u := New(&ListingUseCaseCfg{
		ListingRepo:   ledger,
		Transferer:    rail,
		Query:         passthroughTx{},
		TokenDecimals: 0,
	})

	l, err := u.Create(c, listing.CreateParams{
		Vendor:      vendorAddress,
		Name:        "Bread",
		Description: "Fresh sourdough",
		Price:       domain.TokenAmount("500"),
	})
	require.NoError(t, err)
	assert.Equal(t, listing.Id(1), l.ListingId)
	assert.Equal(t, "500", l.DisplayPrice)

	actives, err := u.GetActives(c)
	require.NoError(t, err)
	require.Len(t, actives, 1)
	assert.Equal(t, listing.Id(1), actives[0].ListingId)
	assert.Equal(t, listing.StatusActive, actives[0].Status)

	conf, err := u.Buy(c, 1, payerAddress, "500")
	require.NoError(t, err)
	assert.Equal(t, vendorAddress, conf.Vendor)
	assert.Equal(t, int64(500), rail.balances[vendorAddress])
	assert.Equal(t, int64(500), rail.balances[payerAddress])

	actives, err = u.GetActives(c)
	require.NoError(t, err)
	assert.Empty(t, actives)

	_, err = u.Buy(c, 1, buyerY, "500")
	assert.ErrorIs(t, err, listing.ErrAlreadySold)
	assert.Equal(t, int64(500), rail.balances[vendorAddress])
}

func TestBuyTransferFailureLeavesListingActive(t *testing.T) {
	c := ctx.Background()
	ledger := newFakeLedger()
	rail := &fakeRail{balances: map[domain.Address]int64{payerAddress: 100}}
	u := New(&ListingUseCaseCfg{
		ListingRepo:   ledger,
		Transferer:    rail,
		Query:         snapshotTx{ledger: ledger, rail: rail},
		TokenDecimals: 0,
	})

	_, err := u.Create(c, listing.CreateParams{
		Vendor:      vendorAddress,
		Name:        "Bread",
		Description: "Fresh sourdough",
		Price:       domain.TokenAmount("500"),
	})
	require.NoError(t, err)

	_, err = u.Buy(c, 1, payerAddress, "500")
	assert.ErrorIs(t, err, payment.ErrInsufficientFunds)

	// the status flip rode the failed transaction down with it
	l, err := ledger.FindOne(c, 1)
	require.NoError(t, err)
	assert.Equal(t, listing.StatusActive, l.Status)
	assert.Empty(t, l.Buyer)
	assert.Nil(t, l.SoldAt)
	assert.Equal(t, int64(100), rail.balances[payerAddress])
	assert.Equal(t, int64(0), rail.balances[vendorAddress])

	// once funded, the same listing is still purchasable
	rail.balances[payerAddress] = 500
	conf, err := u.Buy(c, 1, payerAddress, "500")
	require.NoError(t, err)
	assert.Equal(t, payerAddress, conf.Payer)
	assert.Equal(t, int64(500), rail.balances[vendorAddress])
	assert.Equal(t, int64(0), rail.balances[payerAddress])
}

type countingTransferer struct {
	mu    sync.Mutex
	calls int
}

func (t *countingTransferer) Transfer(c ctx.Ctx, from, to domain.Address, amount domain.TokenAmount) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls++
	return nil
}

func TestBuyConcurrentSingleWinner(t *testing.T) {
	c := ctx.Background()
	repo := newFakeLedger()
	repo.nextId = 1
	require.NoError(t, repo.Insert(c, activeListing()))
	transferer := &countingTransferer{}
	u := newTestUseCase(repo, transferer)

	const buyers = 16
	var wg sync.WaitGroup
	errs := make([]error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = u.Buy(c, 1, payerAddress, domain.TokenAmount("500000000000000000000"))
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, listing.ErrAlreadySold)
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, transferer.calls)
	final, err := repo.FindOne(c, 1)
	require.NoError(t, err)
	assert.Equal(t, listing.StatusSold, final.Status)
}
