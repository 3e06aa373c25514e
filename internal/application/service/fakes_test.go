package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/catalog"
	"github.com/sangkips/pos-engine/internal/domain/entity"
	"github.com/sangkips/pos-engine/internal/domain/enum"
	"github.com/sangkips/pos-engine/internal/domain/repository"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func sp(s string) *string { return &s }

func tender(t enum.TenderType) *enum.TenderType { return &t }

// inlineUnitOfWork runs fn directly; the in-memory store has no rollback
type inlineUnitOfWork struct{}

func (inlineUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memStore backs every fake repository. Reads hand out copies so services
// only change stored state through the repository methods.
type memStore struct {
	mu    sync.Mutex
	clock time.Time

	merchants map[uuid.UUID]*entity.Merchant
	stores    map[uuid.UUID]*entity.StoreLocation
	terminals map[uuid.UUID]*entity.TerminalDevice
	users     map[uuid.UUID]*entity.User
	customers map[uuid.UUID]*entity.Customer
	taxGroups map[uuid.UUID]*entity.TaxGroup
	products  map[uuid.UUID]*entity.Product

	overrides []entity.StorePriceOverride
	priceBook []entity.PriceBookItem
	taxRules  []entity.StoreTaxRule
	rounding  []entity.RoundingPolicy

	carts       map[uuid.UUID]*entity.SaleCart
	events      []entity.SaleCartEvent
	payments    map[uuid.UUID]*entity.Payment
	transitions []entity.PaymentTransition
	sales       map[uuid.UUID]*entity.Sale
	returns     map[uuid.UUID]*entity.SaleReturn
	movements   []entity.InventoryMovement
	series      map[uuid.UUID]*entity.ReceiptSeries
	idempotency map[string]*entity.IdempotencyKey
}

func newMemStore() *memStore {
	return &memStore{
		clock:       time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		merchants:   map[uuid.UUID]*entity.Merchant{},
		stores:      map[uuid.UUID]*entity.StoreLocation{},
		terminals:   map[uuid.UUID]*entity.TerminalDevice{},
		users:       map[uuid.UUID]*entity.User{},
		customers:   map[uuid.UUID]*entity.Customer{},
		taxGroups:   map[uuid.UUID]*entity.TaxGroup{},
		products:    map[uuid.UUID]*entity.Product{},
		carts:       map[uuid.UUID]*entity.SaleCart{},
		payments:    map[uuid.UUID]*entity.Payment{},
		sales:       map[uuid.UUID]*entity.Sale{},
		returns:     map[uuid.UUID]*entity.SaleReturn{},
		series:      map[uuid.UUID]*entity.ReceiptSeries{},
		idempotency: map[string]*entity.IdempotencyKey{},
	}
}

// tick returns a strictly increasing timestamp for created/updated columns
func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Millisecond)
	return s.clock
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// ---------------------------------------------------------------------------
// Operators, catalog, pricing and tax

type fakeOperatorRepo struct{ s *memStore }

func (r fakeOperatorRepo) GetUser(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (r fakeOperatorRepo) GetStoreLocation(_ context.Context, id uuid.UUID) (*entity.StoreLocation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.storeWithMerchant(id), nil
}

func (s *memStore) storeWithMerchant(id uuid.UUID) *entity.StoreLocation {
	store, ok := s.stores[id]
	if !ok {
		return nil
	}
	c := *store
	if m, ok := s.merchants[c.MerchantID]; ok {
		c.Merchant = *m
	}
	return &c
}

func (r fakeOperatorRepo) GetTerminal(_ context.Context, id uuid.UUID) (*entity.TerminalDevice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	terminal, ok := r.s.terminals[id]
	if !ok {
		return nil, nil
	}
	c := *terminal
	if store := r.s.storeWithMerchant(c.StoreLocationID); store != nil {
		c.StoreLocation = *store
	}
	return &c, nil
}

func (r fakeOperatorRepo) GetTerminalForUpdate(ctx context.Context, id uuid.UUID) (*entity.TerminalDevice, error) {
	return r.GetTerminal(ctx, id)
}

type fakeProductRepo struct{ s *memStore }

func (r fakeProductRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.product(id), nil
}

func (s *memStore) product(id uuid.UUID) *entity.Product {
	p, ok := s.products[id]
	if !ok {
		return nil
	}
	c := *p
	if c.TaxGroupID != nil {
		if g, ok := s.taxGroups[*c.TaxGroupID]; ok {
			group := *g
			c.TaxGroup = &group
		}
	}
	return &c
}

type fakeCustomerRepo struct{ s *memStore }

func (r fakeCustomerRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.customers[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func effectiveAt(active bool, from, to *time.Time, at time.Time) bool {
	if !active {
		return false
	}
	if from != nil && from.After(at) {
		return false
	}
	if to != nil && !to.After(at) {
		return false
	}
	return true
}

func laterStart(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.After(*b)
	}
}

type fakePricingRepo struct{ s *memStore }

func (r fakePricingRepo) FindStoreOverride(_ context.Context, storeID, productID uuid.UUID, at time.Time) (*entity.StorePriceOverride, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var best *entity.StorePriceOverride
	for i := range r.s.overrides {
		o := r.s.overrides[i]
		if o.StoreLocationID != storeID || o.ProductID != productID || !effectiveAt(o.Active, o.EffectiveFrom, o.EffectiveTo, at) {
			continue
		}
		if best == nil || laterStart(o.EffectiveFrom, best.EffectiveFrom) {
			best = &o
		}
	}
	return best, nil
}

func (r fakePricingRepo) FindPriceBookItem(_ context.Context, merchantID, productID uuid.UUID, at time.Time) (*entity.PriceBookItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var best *entity.PriceBookItem
	for i := range r.s.priceBook {
		item := r.s.priceBook[i]
		if item.MerchantID != merchantID || item.ProductID != productID || !effectiveAt(item.Active, item.EffectiveFrom, item.EffectiveTo, at) {
			continue
		}
		if best == nil || laterStart(item.EffectiveFrom, best.EffectiveFrom) {
			best = &item
		}
	}
	return best, nil
}

type fakeTaxRepo struct{ s *memStore }

func (r fakeTaxRepo) FindStoreTaxRule(_ context.Context, storeID, taxGroupID uuid.UUID, at time.Time) (*entity.StoreTaxRule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.taxRules {
		rule := r.s.taxRules[i]
		if rule.StoreLocationID == storeID && rule.TaxGroupID == taxGroupID && effectiveAt(rule.Active, rule.EffectiveFrom, rule.EffectiveTo, at) {
			return &rule, nil
		}
	}
	return nil, nil
}

func (r fakeTaxRepo) FindRoundingPolicy(_ context.Context, storeID uuid.UUID, tenderType enum.TenderType) (*entity.RoundingPolicy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.rounding {
		policy := r.s.rounding[i]
		if policy.StoreLocationID == storeID && policy.TenderType == tenderType && policy.Active {
			return &policy, nil
		}
	}
	return nil, nil
}

// ---------------------------------------------------------------------------
// Carts

type fakeCartRepo struct{ s *memStore }

func cloneCart(c *entity.SaleCart) *entity.SaleCart {
	cp := *c
	cp.Lines = make([]entity.SaleCartLine, len(c.Lines))
	copy(cp.Lines, c.Lines)
	if c.ParkedReference != nil {
		ref := *c.ParkedReference
		cp.ParkedReference = &ref
	}
	return &cp
}

func (r fakeCartRepo) store(cart *entity.SaleCart) {
	now := r.s.tick()
	ensureID(&cart.ID)
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now
	for i := range cart.Lines {
		ensureID(&cart.Lines[i].ID)
		cart.Lines[i].CartID = cart.ID
		if cart.Lines[i].CreatedAt.IsZero() {
			cart.Lines[i].CreatedAt = now
		}
		cart.Lines[i].UpdatedAt = now
	}
	stored := cloneCart(cart)
	if existing, ok := r.s.carts[cart.ID]; ok && cart.ParkedReference == nil {
		stored.ParkedReference = existing.ParkedReference
	}
	stored.StoreLocation = nil
	r.s.carts[cart.ID] = stored
}

func (r fakeCartRepo) Create(_ context.Context, cart *entity.SaleCart) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.store(cart)
	return nil
}

func (r fakeCartRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.SaleCart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.carts[id]
	if !ok {
		return nil, nil
	}
	cart := cloneCart(stored)
	cart.StoreLocation = r.s.storeWithMerchant(cart.StoreLocationID)
	for i := range cart.Lines {
		cart.Lines[i].Product = r.s.product(cart.Lines[i].ProductID)
	}
	return cart, nil
}

func (r fakeCartRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.SaleCart, error) {
	return r.GetByID(ctx, id)
}

func (r fakeCartRepo) Save(_ context.Context, cart *entity.SaleCart) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.store(cart)
	return nil
}

func (r fakeCartRepo) SaveParkedReference(_ context.Context, ref *entity.ParkedCartReference) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ensureID(&ref.ID)
	if stored, ok := r.s.carts[ref.CartID]; ok {
		cp := *ref
		stored.ParkedReference = &cp
	}
	return nil
}

func (r fakeCartRepo) ListParked(ctx context.Context, storeID uuid.UUID, terminalID *uuid.UUID) ([]entity.SaleCart, error) {
	r.s.mu.Lock()
	ids := make([]uuid.UUID, 0)
	for id, c := range r.s.carts {
		if c.Status != enum.CartStatusParked || c.StoreLocationID != storeID {
			continue
		}
		if terminalID != nil && c.TerminalDeviceID != *terminalID {
			continue
		}
		ids = append(ids, id)
	}
	r.s.mu.Unlock()

	carts := make([]entity.SaleCart, 0, len(ids))
	for _, id := range ids {
		c, _ := r.GetByID(ctx, id)
		carts = append(carts, *c)
	}
	sort.Slice(carts, func(i, j int) bool { return carts[i].UpdatedAt.After(carts[j].UpdatedAt) })
	return carts, nil
}

func (r fakeCartRepo) CreateEvent(_ context.Context, event *entity.SaleCartEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ensureID(&event.ID)
	event.CreatedAt = r.s.tick()
	r.s.events = append(r.s.events, *event)
	return nil
}

func (s *memStore) cartEvents(cartID uuid.UUID) []entity.SaleCartEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.SaleCartEvent
	for _, e := range s.events {
		if e.CartID == cartID {
			out = append(out, e)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Payments, sales, returns, movements, receipts, idempotency

type fakePaymentRepo struct{ s *memStore }

func clonePayment(p *entity.Payment) *entity.Payment {
	cp := *p
	cp.Allocations = make([]entity.PaymentAllocation, len(p.Allocations))
	copy(cp.Allocations, p.Allocations)
	return &cp
}

func (r fakePaymentRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.payments[id]; ok {
		return clonePayment(p), nil
	}
	return nil, nil
}

func (r fakePaymentRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	return r.GetByID(ctx, id)
}

func (r fakePaymentRepo) GetByCartID(_ context.Context, cartID uuid.UUID) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.payments {
		if p.CartID == cartID {
			return clonePayment(p), nil
		}
	}
	return nil, nil
}

func (r fakePaymentRepo) GetByCartIDForUpdate(ctx context.Context, cartID uuid.UUID) (*entity.Payment, error) {
	return r.GetByCartID(ctx, cartID)
}

func (r fakePaymentRepo) Save(_ context.Context, payment *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.tick()
	ensureID(&payment.ID)
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = now
	}
	payment.UpdatedAt = now
	for i := range payment.Allocations {
		payment.Allocations[i].ID = uuid.New()
		payment.Allocations[i].PaymentID = payment.ID
		payment.Allocations[i].CreatedAt = now
	}
	r.s.payments[payment.ID] = clonePayment(payment)
	return nil
}

func (r fakePaymentRepo) UpdateStatus(_ context.Context, payment *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if stored, ok := r.s.payments[payment.ID]; ok {
		stored.Status = payment.Status
		stored.UpdatedAt = r.s.tick()
	}
	return nil
}

func (r fakePaymentRepo) CreateTransition(_ context.Context, t *entity.PaymentTransition) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ensureID(&t.ID)
	t.CreatedAt = r.s.tick()
	r.s.transitions = append(r.s.transitions, *t)
	return nil
}

func (r fakePaymentRepo) ListTransitions(_ context.Context, paymentID uuid.UUID) ([]entity.PaymentTransition, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.PaymentTransition
	for _, t := range r.s.transitions {
		if t.PaymentID == paymentID {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeSaleRepo struct{ s *memStore }

func cloneSale(s *entity.Sale) *entity.Sale {
	cp := *s
	cp.Lines = make([]entity.SaleLine, len(s.Lines))
	copy(cp.Lines, s.Lines)
	return &cp
}

func (r fakeSaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.tick()
	ensureID(&sale.ID)
	sale.CreatedAt, sale.UpdatedAt = now, now
	for i := range sale.Lines {
		ensureID(&sale.Lines[i].ID)
		sale.Lines[i].SaleID = sale.ID
		sale.Lines[i].CreatedAt = now
	}
	r.s.sales[sale.ID] = cloneSale(sale)
	return nil
}

func (r fakeSaleRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sale, ok := r.s.sales[id]; ok {
		return cloneSale(sale), nil
	}
	return nil, nil
}

func (r fakeSaleRepo) GetByReceiptNumber(_ context.Context, receiptNumber string) (*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sale := range r.s.sales {
		if strings.EqualFold(sale.ReceiptNumber, strings.TrimSpace(receiptNumber)) {
			return cloneSale(sale), nil
		}
	}
	return nil, nil
}

func (r fakeSaleRepo) GetByCartID(_ context.Context, cartID uuid.UUID) (*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sale := range r.s.sales {
		if sale.CartID == cartID {
			return cloneSale(sale), nil
		}
	}
	return nil, nil
}

type fakeReturnRepo struct{ s *memStore }

func cloneReturn(r *entity.SaleReturn) *entity.SaleReturn {
	cp := *r
	cp.Lines = make([]entity.SaleReturnLine, len(r.Lines))
	copy(cp.Lines, r.Lines)
	if r.Refund != nil {
		refund := *r.Refund
		cp.Refund = &refund
	}
	return &cp
}

func (r fakeReturnRepo) Create(_ context.Context, saleReturn *entity.SaleReturn) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.tick()
	ensureID(&saleReturn.ID)
	saleReturn.CreatedAt, saleReturn.UpdatedAt = now, now
	for i := range saleReturn.Lines {
		ensureID(&saleReturn.Lines[i].ID)
		saleReturn.Lines[i].SaleReturnID = saleReturn.ID
	}
	if saleReturn.Refund != nil {
		ensureID(&saleReturn.Refund.ID)
		saleReturn.Refund.SaleReturnID = saleReturn.ID
	}
	r.s.returns[saleReturn.ID] = cloneReturn(saleReturn)
	return nil
}

func (r fakeReturnRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.SaleReturn, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if ret, ok := r.s.returns[id]; ok {
		return cloneReturn(ret), nil
	}
	return nil, nil
}

func (r fakeReturnRepo) SummarizeReturned(_ context.Context, saleID uuid.UUID) (map[uuid.UUID]entity.ReturnedTotals, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	totals := map[uuid.UUID]entity.ReturnedTotals{}
	for _, ret := range r.s.returns {
		if ret.SaleID != saleID {
			continue
		}
		for _, line := range ret.Lines {
			t := totals[line.SaleLineID]
			t.SaleLineID = line.SaleLineID
			t.Quantity = t.Quantity.Add(line.Quantity)
			t.Net = t.Net.Add(line.NetAmount)
			t.Tax = t.Tax.Add(line.TaxAmount)
			t.Gross = t.Gross.Add(line.GrossAmount)
			totals[line.SaleLineID] = t
		}
	}
	return totals, nil
}

func (r fakeReturnRepo) List(_ context.Context, params *repository.ReturnFilterParams) ([]entity.SaleReturn, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []entity.SaleReturn
	for _, ret := range r.s.returns {
		if params.SaleID != nil && ret.SaleID != *params.SaleID {
			continue
		}
		all = append(all, *cloneReturn(ret))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	start := params.Pagination.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + params.Pagination.PerPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

type fakeMovementRepo struct{ s *memStore }

func (r fakeMovementRepo) CreateBatch(_ context.Context, movements []entity.InventoryMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range movements {
		ensureID(&m.ID)
		m.CreatedAt = r.s.tick()
		r.s.movements = append(r.s.movements, m)
	}
	return nil
}

type fakeReceiptRepo struct{ s *memStore }

func (r fakeReceiptRepo) CreateIfAbsent(_ context.Context, series *entity.ReceiptSeries) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.series[series.TerminalDeviceID]; ok {
		return nil
	}
	ensureID(&series.ID)
	cp := *series
	r.s.series[series.TerminalDeviceID] = &cp
	return nil
}

func (r fakeReceiptRepo) GetByTerminalForUpdate(_ context.Context, terminalID uuid.UUID) (*entity.ReceiptSeries, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if series, ok := r.s.series[terminalID]; ok {
		cp := *series
		return &cp, nil
	}
	return nil, nil
}

func (r fakeReceiptRepo) Save(_ context.Context, series *entity.ReceiptSeries) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *series
	r.s.series[series.TerminalDeviceID] = &cp
	return nil
}

type fakeIdempotencyRepo struct{ s *memStore }

func idempotencyKey(actionKey, key string) string { return actionKey + "|" + key }

func (r fakeIdempotencyRepo) GetForUpdate(_ context.Context, actionKey, key string) (*entity.IdempotencyKey, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if record, ok := r.s.idempotency[idempotencyKey(actionKey, key)]; ok {
		cp := *record
		return &cp, nil
	}
	return nil, nil
}

func (r fakeIdempotencyRepo) CreateIfAbsent(_ context.Context, record *entity.IdempotencyKey) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := idempotencyKey(record.ActionKey, record.Key)
	if _, ok := r.s.idempotency[k]; ok {
		return false, nil
	}
	ensureID(&record.ID)
	cp := *record
	r.s.idempotency[k] = &cp
	return true, nil
}

func (r fakeIdempotencyRepo) Update(_ context.Context, record *entity.IdempotencyKey) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *record
	r.s.idempotency[idempotencyKey(record.ActionKey, record.Key)] = &cp
	return nil
}

func (r fakeIdempotencyRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var removed int64
	for k, record := range r.s.idempotency {
		if record.ExpiresAt.Before(now) {
			delete(r.s.idempotency, k)
			removed++
		}
	}
	return removed, nil
}

// ---------------------------------------------------------------------------
// Fixture

// fixture is one merchant with a store, terminal, cashier, an inclusive
// 16% VAT group, a zero-rated group, cash rounding to 0.05 and one product
// per sale mode, with every service wired over the same store.
type fixture struct {
	store    *memStore
	now      time.Time
	merchant *entity.Merchant
	location *entity.StoreLocation
	terminal *entity.TerminalDevice
	cashier  *entity.User
	vat      *entity.TaxGroup
	zero     *entity.TaxGroup

	milk   *entity.Product // UNIT, 65.00, zero rated
	soap   *entity.Product // UNIT, 99.00, VAT 16% inclusive
	banana *entity.Product // WEIGHT, 3dp, 120.00, zero rated
	misc   *entity.Product // OPEN_PRICE 1.00..500.00, reason required, VAT

	pricing     *PricingService
	rounding    *RoundingService
	tax         *TaxService
	receipts    *ReceiptService
	idempotency *IdempotencyService
	carts       *CartService
	payments    *PaymentService
	checkout    *CheckoutService
	returns     *ReturnService
}

func newFixture() *fixture {
	s := newMemStore()
	f := &fixture{store: s, now: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)}

	f.merchant = &entity.Merchant{ID: uuid.New(), Code: "DEMO", Name: "Demo", Active: true}
	f.location = &entity.StoreLocation{ID: uuid.New(), MerchantID: f.merchant.ID, Code: "S1", Name: "Main", Active: true}
	f.terminal = &entity.TerminalDevice{ID: uuid.New(), StoreLocationID: f.location.ID, Code: "t-01", Name: "Till", Active: true}
	f.cashier = &entity.User{ID: uuid.New(), MerchantID: f.merchant.ID, Username: "cashier01", Active: true}
	s.merchants[f.merchant.ID] = f.merchant
	s.stores[f.location.ID] = f.location
	s.terminals[f.terminal.ID] = f.terminal
	s.users[f.cashier.ID] = f.cashier

	f.vat = &entity.TaxGroup{ID: uuid.New(), MerchantID: f.merchant.ID, Code: "VAT16", TaxRatePercent: d("16")}
	f.zero = &entity.TaxGroup{ID: uuid.New(), MerchantID: f.merchant.ID, Code: "ZERO", ZeroRated: true}
	s.taxGroups[f.vat.ID] = f.vat
	s.taxGroups[f.zero.ID] = f.zero
	for _, g := range []*entity.TaxGroup{f.vat, f.zero} {
		s.taxRules = append(s.taxRules, entity.StoreTaxRule{
			ID: uuid.New(), StoreLocationID: f.location.ID, TaxGroupID: g.ID, TaxMode: enum.TaxModeInclusive, Active: true,
		})
	}
	s.rounding = append(s.rounding, entity.RoundingPolicy{
		ID: uuid.New(), StoreLocationID: f.location.ID, TenderType: enum.TenderTypeCash,
		Method: enum.RoundingMethodNearest, IncrementAmount: d("0.05"), Active: true,
	})

	f.milk = f.addProduct(entity.Product{SKU: "MILK", SaleMode: enum.SaleModeUnit, BasePrice: d("65.00"), TaxGroupID: &f.zero.ID})
	f.soap = f.addProduct(entity.Product{SKU: "SOAP", SaleMode: enum.SaleModeUnit, BasePrice: d("99.00"), TaxGroupID: &f.vat.ID})
	f.banana = f.addProduct(entity.Product{SKU: "BANANA", SaleMode: enum.SaleModeWeight, QuantityPrecision: 3, BasePrice: d("120.00"), TaxGroupID: &f.zero.ID})
	f.misc = f.addProduct(entity.Product{
		SKU: "MISC", SaleMode: enum.SaleModeOpenPrice, OpenPriceMin: dp("1.00"), OpenPriceMax: dp("500.00"),
		OpenPriceRequiresReason: true, TaxGroupID: &f.vat.ID,
	})

	uow := inlineUnitOfWork{}
	operators := fakeOperatorRepo{s}
	products := fakeProductRepo{s}
	customers := fakeCustomerRepo{s}
	paymentRepo := fakePaymentRepo{s}
	saleRepo := fakeSaleRepo{s}
	movementRepo := fakeMovementRepo{s}

	f.pricing = NewPricingService(operators, products, customers, fakePricingRepo{s})
	f.pricing.now = f.clock
	f.rounding = NewRoundingService(fakeTaxRepo{s})
	f.tax = NewTaxService(operators, products, fakeTaxRepo{s}, f.pricing, f.rounding)
	f.receipts = NewReceiptService(fakeReceiptRepo{s})
	f.idempotency = NewIdempotencyService(uow, fakeIdempotencyRepo{s}, time.Hour)
	f.idempotency.now = f.clock
	f.carts = NewCartService(uow, fakeCartRepo{s}, operators, products, f.pricing, f.tax, f.rounding, catalog.NewOpenPricePolicy(), 30*time.Minute)
	f.carts.now = f.clock
	f.payments = NewPaymentService(uow, paymentRepo, saleRepo, f.idempotency)
	f.checkout = NewCheckoutService(uow, fakeCartRepo{s}, operators, customers, saleRepo, paymentRepo, movementRepo, f.receipts, f.payments)
	f.returns = NewReturnService(uow, saleRepo, paymentRepo, fakeReturnRepo{s}, movementRepo, 30*24*time.Hour)
	f.returns.now = f.clock
	return f
}

func (f *fixture) clock() time.Time { return f.now }

func (f *fixture) addProduct(p entity.Product) *entity.Product {
	p.ID = uuid.New()
	p.MerchantID = f.merchant.ID
	p.Name = p.SKU
	p.Active = true
	f.store.products[p.ID] = &p
	return &p
}

func (f *fixture) operator() *CartOperatorInput {
	return &CartOperatorInput{CashierUserID: f.cashier.ID, TerminalDeviceID: f.terminal.ID}
}
