package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"storefront-api/internal/domain"
	"storefront-api/internal/repository"
)

// MemStore is an in-memory repository.Store for service tests. Atomic holds
// a mutex for the whole transaction and works on a deep copy of the state,
// swapped in only on success — rollback and serialized reservations behave
// like the real store without a database.
type MemStore struct {
	mu   *sync.Mutex
	data *memData
	tx   bool
}

type memData struct {
	users    map[uint64]*domain.User
	products map[uint64]*domain.Product
	orders   map[uint64]*domain.Order
	reviews  []domain.Review
	pages    map[string]*domain.CMSPage
	slides   map[uint64]*domain.HeroSlide

	nextUserID    uint64
	nextProductID uint64
	nextOrderID   uint64
	nextReviewID  uint64
	nextSlideID   uint64
	nextHistoryID uint64
}

func NewMemStore() *MemStore {
	return &MemStore{
		mu: &sync.Mutex{},
		data: &memData{
			users:    map[uint64]*domain.User{},
			products: map[uint64]*domain.Product{},
			orders:   map[uint64]*domain.Order{},
			pages:    map[string]*domain.CMSPage{},
			slides:   map[uint64]*domain.HeroSlide{},
		},
	}
}

func (s *MemStore) Orders() repository.OrderRepository     { return &memOrderRepo{s} }
func (s *MemStore) Products() repository.ProductRepository { return &memProductRepo{s} }
func (s *MemStore) Users() repository.UserRepository       { return &memUserRepo{s} }
func (s *MemStore) Reviews() repository.ReviewRepository   { return &memReviewRepo{s} }
func (s *MemStore) Content() repository.ContentRepository  { return &memContentRepo{s} }

func (s *MemStore) Atomic(ctx context.Context, fn func(repository.Store) error) error {
	if s.tx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := s.data.clone()
	txStore := &MemStore{mu: s.mu, data: clone, tx: true}
	if err := fn(txStore); err != nil {
		return err
	}
	s.data = clone
	return nil
}

var _ repository.Store = (*MemStore)(nil)

func (s *MemStore) run(fn func(d *memData) error) error {
	if s.tx {
		return fn(s.data)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

// SeedUser and SeedProduct install fixtures and return the assigned IDs.
func (s *MemStore) SeedUser(u domain.User) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.nextUserID++
	u.ID = s.data.nextUserID
	s.data.users[u.ID] = cloneUser(&u)
	return u.ID
}

func (s *MemStore) SeedProduct(p domain.Product) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.nextProductID++
	p.ID = s.data.nextProductID
	s.data.products[p.ID] = cloneProduct(&p)
	return p.ID
}

func (s *MemStore) SeedOrder(o domain.Order) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.nextOrderID++
	o.ID = s.data.nextOrderID
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}
	s.data.orders[o.ID] = cloneOrder(&o)
	return o.ID
}

// Product returns a snapshot of the stored product for assertions.
func (s *MemStore) Product(id uint64) *domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.data.products[id]; ok {
		return cloneProduct(p)
	}
	return nil
}

// Order returns a snapshot of the stored order for assertions.
func (s *MemStore) Order(id uint64) *domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.data.orders[id]; ok {
		return cloneOrder(o)
	}
	return nil
}

func (d *memData) clone() *memData {
	c := &memData{
		users:         make(map[uint64]*domain.User, len(d.users)),
		products:      make(map[uint64]*domain.Product, len(d.products)),
		orders:        make(map[uint64]*domain.Order, len(d.orders)),
		reviews:       append([]domain.Review(nil), d.reviews...),
		pages:         make(map[string]*domain.CMSPage, len(d.pages)),
		slides:        make(map[uint64]*domain.HeroSlide, len(d.slides)),
		nextUserID:    d.nextUserID,
		nextProductID: d.nextProductID,
		nextOrderID:   d.nextOrderID,
		nextReviewID:  d.nextReviewID,
		nextSlideID:   d.nextSlideID,
		nextHistoryID: d.nextHistoryID,
	}
	for id, u := range d.users {
		c.users[id] = cloneUser(u)
	}
	for id, p := range d.products {
		c.products[id] = cloneProduct(p)
	}
	for id, o := range d.orders {
		c.orders[id] = cloneOrder(o)
	}
	for slug, p := range d.pages {
		cp := *p
		c.pages[slug] = &cp
	}
	for id, sl := range d.slides {
		cs := *sl
		c.slides[id] = &cs
	}
	return c
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.Cart = append([]domain.CartItem(nil), u.Cart...)
	return &c
}

func cloneProduct(p *domain.Product) *domain.Product {
	c := *p
	c.Variants = append([]domain.Variant(nil), p.Variants...)
	c.SalesHistory = append([]domain.SalesRecord(nil), p.SalesHistory...)
	c.Images = append([]string(nil), p.Images...)
	c.Tags = append([]string(nil), p.Tags...)
	return &c
}

func cloneOrder(o *domain.Order) *domain.Order {
	c := *o
	c.Items = append([]domain.OrderItem(nil), o.Items...)
	c.StatusHistory = append([]domain.StatusChange(nil), o.StatusHistory...)
	return &c
}

type memOrderRepo struct{ s *MemStore }

func (r *memOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	return r.s.run(func(d *memData) error {
		d.nextOrderID++
		order.ID = d.nextOrderID
		if order.CreatedAt.IsZero() {
			order.CreatedAt = time.Now()
		}
		order.UpdatedAt = order.CreatedAt
		for i := range order.Items {
			order.Items[i].OrderID = order.ID
		}
		d.orders[order.ID] = cloneOrder(order)
		return nil
	})
}

func (r *memOrderRepo) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	var out *domain.Order
	err := r.s.run(func(d *memData) error {
		if o, ok := d.orders[id]; ok {
			out = cloneOrder(o)
		}
		return nil
	})
	return out, err
}

func (r *memOrderRepo) FindByIDForUpdate(ctx context.Context, id uint64) (*domain.Order, error) {
	return r.FindByID(ctx, id)
}

func (r *memOrderRepo) FindByUser(ctx context.Context, userID uint64) ([]domain.Order, error) {
	var out []domain.Order
	err := r.s.run(func(d *memData) error {
		for _, o := range d.orders {
			if o.UserID == userID {
				out = append(out, *cloneOrder(o))
			}
		}
		return nil
	})
	sortOrdersDesc(out)
	return out, err
}

func (r *memOrderRepo) FindAll(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	err := r.s.run(func(d *memData) error {
		for _, o := range d.orders {
			out = append(out, *cloneOrder(o))
		}
		return nil
	})
	sortOrdersDesc(out)
	return out, err
}

func (r *memOrderRepo) Recent(ctx context.Context, limit int) ([]domain.Order, error) {
	out, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memOrderRepo) SetStatus(ctx context.Context, orderID uint64, status domain.OrderStatus) error {
	return r.s.run(func(d *memData) error {
		if o, ok := d.orders[orderID]; ok {
			o.Status = status
			o.UpdatedAt = time.Now()
		}
		return nil
	})
}

func (r *memOrderRepo) AppendStatusHistory(ctx context.Context, change *domain.StatusChange) error {
	return r.s.run(func(d *memData) error {
		if o, ok := d.orders[change.OrderID]; ok {
			d.nextHistoryID++
			change.ID = d.nextHistoryID
			o.StatusHistory = append(o.StatusHistory, *change)
		}
		return nil
	})
}

func (r *memOrderRepo) SetTrackingNumber(ctx context.Context, orderID uint64, trackingNumber string) error {
	return r.s.run(func(d *memData) error {
		if o, ok := d.orders[orderID]; ok {
			o.TrackingNumber = trackingNumber
		}
		return nil
	})
}

func (r *memOrderRepo) MarkSaleRecorded(ctx context.Context, orderID uint64) error {
	return r.s.run(func(d *memData) error {
		if o, ok := d.orders[orderID]; ok {
			o.SaleRecorded = true
		}
		return nil
	})
}

func (r *memOrderRepo) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.s.run(func(d *memData) error {
		n = int64(len(d.orders))
		return nil
	})
	return n, err
}

func (r *memOrderRepo) CountByStatus(ctx context.Context, status domain.OrderStatus) (int64, error) {
	var n int64
	err := r.s.run(func(d *memData) error {
		for _, o := range d.orders {
			if o.Status == status {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *memOrderRepo) CountByPaymentStatus(ctx context.Context, status domain.PaymentStatus) (int64, error) {
	var n int64
	err := r.s.run(func(d *memData) error {
		for _, o := range d.orders {
			if o.PaymentStatus == status {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *memOrderRepo) PaidRevenue(ctx context.Context) (float64, error) {
	var revenue float64
	err := r.s.run(func(d *memData) error {
		for _, o := range d.orders {
			if o.Status != domain.StatusCancelled && o.PaymentStatus == domain.PaymentStatusPaid {
				revenue += o.Total
			}
		}
		return nil
	})
	return revenue, err
}

func (r *memOrderRepo) RevenueTrends(ctx context.Context, dateFormat string) ([]repository.RevenueBucket, error) {
	buckets := map[string]*repository.RevenueBucket{}
	err := r.s.run(func(d *memData) error {
		for _, o := range d.orders {
			period := o.CreatedAt.Format("2006-01")
			b, ok := buckets[period]
			if !ok {
				b = &repository.RevenueBucket{Period: period}
				buckets[period] = b
			}
			b.TotalRevenue += o.Total
			b.OrderCount++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]repository.RevenueBucket, 0, len(buckets))
	for _, b := range buckets {
		if b.OrderCount > 0 {
			b.AverageOrderValue = b.TotalRevenue / float64(b.OrderCount)
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out, nil
}

func sortOrdersDesc(orders []domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

type memProductRepo struct{ s *MemStore }

func (r *memProductRepo) Create(ctx context.Context, product *domain.Product) error {
	return r.s.run(func(d *memData) error {
		d.nextProductID++
		product.ID = d.nextProductID
		if product.CreatedAt.IsZero() {
			product.CreatedAt = time.Now()
		}
		d.products[product.ID] = cloneProduct(product)
		return nil
	})
}

func (r *memProductRepo) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	var out *domain.Product
	err := r.s.run(func(d *memData) error {
		if p, ok := d.products[id]; ok {
			out = cloneProduct(p)
		}
		return nil
	})
	return out, err
}

func (r *memProductRepo) FindByIDForUpdate(ctx context.Context, id uint64) (*domain.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *memProductRepo) FindByIDs(ctx context.Context, ids []uint64) ([]domain.Product, error) {
	var out []domain.Product
	err := r.s.run(func(d *memData) error {
		for _, id := range ids {
			if p, ok := d.products[id]; ok {
				out = append(out, *cloneProduct(p))
			}
		}
		return nil
	})
	return out, err
}

func (r *memProductRepo) FindAll(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	var out []domain.Product
	err := r.s.run(func(d *memData) error {
		for _, p := range d.products {
			if filter.FeaturedOnly && !p.Featured {
				continue
			}
			if filter.ActiveOnly && !p.Status {
				continue
			}
			if filter.Category != "" && !strings.EqualFold(filter.Category, p.Category) {
				continue
			}
			out = append(out, *cloneProduct(p))
		}
		return nil
	})
	return out, err
}

func (r *memProductRepo) Featured(ctx context.Context, limit int) ([]domain.Product, error) {
	out, err := r.FindAll(ctx, repository.ProductFilter{FeaturedOnly: true, ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memProductRepo) CountFeatured(ctx context.Context) (int64, error) {
	var n int64
	err := r.s.run(func(d *memData) error {
		for _, p := range d.products {
			if p.Featured {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *memProductRepo) Update(ctx context.Context, id uint64, upd domain.ProductUpdate) (*domain.Product, error) {
	var out *domain.Product
	err := r.s.run(func(d *memData) error {
		p, ok := d.products[id]
		if !ok {
			return nil
		}
		if upd.Name != nil {
			p.Name = *upd.Name
		}
		if upd.Category != nil {
			p.Category = *upd.Category
		}
		if upd.Description != nil {
			p.Description = *upd.Description
		}
		if upd.Price != nil {
			p.Price = *upd.Price
		}
		if upd.OfferPrice != nil {
			p.OfferPrice = *upd.OfferPrice
		}
		if upd.Quantity != nil {
			p.Quantity = *upd.Quantity
		}
		if upd.Featured != nil {
			p.Featured = *upd.Featured
		}
		if upd.Status != nil {
			p.Status = *upd.Status
		}
		if upd.Image != nil {
			p.Image = *upd.Image
		}
		if upd.Images != nil {
			p.Images = append([]string(nil), (*upd.Images)...)
		}
		if upd.Tags != nil {
			p.Tags = append([]string(nil), (*upd.Tags)...)
		}
		if upd.Weight != nil {
			p.Weight = *upd.Weight
		}
		if upd.Shipping != nil {
			p.Shipping = upd.Shipping
		}
		if upd.Variants != nil {
			p.Variants = append([]domain.Variant(nil), (*upd.Variants)...)
			p.Quantity = p.TotalVariantStock()
		}
		out = cloneProduct(p)
		return nil
	})
	return out, err
}

func (r *memProductRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	var found bool
	err := r.s.run(func(d *memData) error {
		if _, ok := d.products[id]; ok {
			delete(d.products, id)
			found = true
		}
		return nil
	})
	return found, err
}

func (r *memProductRepo) AdjustSaleCounters(ctx context.Context, id uint64, qty int64) error {
	return r.s.run(func(d *memData) error {
		if p, ok := d.products[id]; ok {
			p.Quantity -= qty
			p.Sold += qty
			p.SalesCount += qty
		}
		return nil
	})
}

func (r *memProductRepo) AppendSalesRecord(ctx context.Context, record *domain.SalesRecord) error {
	return r.s.run(func(d *memData) error {
		if p, ok := d.products[record.ProductID]; ok {
			p.SalesHistory = append(p.SalesHistory, *record)
		}
		return nil
	})
}

func (r *memProductRepo) TopBySales(ctx context.Context, limit int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.s.run(func(d *memData) error {
		for _, p := range d.products {
			out = append(out, *cloneProduct(p))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SalesCount > out[j].SalesCount })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memUserRepo struct{ s *MemStore }

func (r *memUserRepo) Create(ctx context.Context, user *domain.User) error {
	return r.s.run(func(d *memData) error {
		d.nextUserID++
		user.ID = d.nextUserID
		if user.CreatedAt.IsZero() {
			user.CreatedAt = time.Now()
		}
		d.users[user.ID] = cloneUser(user)
		return nil
	})
}

func (r *memUserRepo) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	var out *domain.User
	err := r.s.run(func(d *memData) error {
		if u, ok := d.users[id]; ok {
			out = cloneUser(u)
		}
		return nil
	})
	return out, err
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var out *domain.User
	err := r.s.run(func(d *memData) error {
		for _, u := range d.users {
			if strings.EqualFold(u.Email, email) {
				out = cloneUser(u)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *memUserRepo) FindByResetToken(ctx context.Context, token string) (*domain.User, error) {
	var out *domain.User
	err := r.s.run(func(d *memData) error {
		for _, u := range d.users {
			if u.PasswordResetToken == token && u.PasswordResetExpires != nil && u.PasswordResetExpires.After(time.Now()) {
				out = cloneUser(u)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *memUserRepo) SetResetToken(ctx context.Context, id uint64, token string, expires time.Time) error {
	return r.s.run(func(d *memData) error {
		if u, ok := d.users[id]; ok {
			u.PasswordResetToken = token
			exp := expires
			u.PasswordResetExpires = &exp
		}
		return nil
	})
}

func (r *memUserRepo) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	return r.s.run(func(d *memData) error {
		if u, ok := d.users[id]; ok {
			u.Password = passwordHash
			u.PasswordResetToken = ""
			u.PasswordResetExpires = nil
		}
		return nil
	})
}

func (r *memUserRepo) FindCart(ctx context.Context, userID uint64) ([]domain.CartItem, error) {
	var out []domain.CartItem
	err := r.s.run(func(d *memData) error {
		if u, ok := d.users[userID]; ok {
			out = append(out, u.Cart...)
			for i := range out {
				if p, ok := d.products[out[i].ProductID]; ok {
					out[i].Product = cloneProduct(p)
				}
			}
		}
		return nil
	})
	return out, err
}

func (r *memUserRepo) ReplaceCart(ctx context.Context, userID uint64, items []domain.CartItem) error {
	return r.s.run(func(d *memData) error {
		if u, ok := d.users[userID]; ok {
			u.Cart = append([]domain.CartItem(nil), items...)
			for i := range u.Cart {
				u.Cart[i].UserID = userID
			}
		}
		return nil
	})
}

type memReviewRepo struct{ s *MemStore }

func (r *memReviewRepo) Create(ctx context.Context, review *domain.Review) error {
	return r.s.run(func(d *memData) error {
		d.nextReviewID++
		review.ID = d.nextReviewID
		if review.CreatedAt.IsZero() {
			review.CreatedAt = time.Now()
		}
		d.reviews = append(d.reviews, *review)
		return nil
	})
}

func (r *memReviewRepo) ListByProduct(ctx context.Context, productID uint64) ([]domain.Review, error) {
	var out []domain.Review
	err := r.s.run(func(d *memData) error {
		for _, rev := range d.reviews {
			if rev.ProductID == productID {
				out = append(out, rev)
			}
		}
		return nil
	})
	return out, err
}

type memContentRepo struct{ s *MemStore }

func (r *memContentRepo) FindPage(ctx context.Context, slug string) (*domain.CMSPage, error) {
	var out *domain.CMSPage
	err := r.s.run(func(d *memData) error {
		if p, ok := d.pages[slug]; ok {
			cp := *p
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *memContentRepo) UpsertPage(ctx context.Context, page *domain.CMSPage) error {
	return r.s.run(func(d *memData) error {
		if existing, ok := d.pages[page.Slug]; ok {
			existing.Title = page.Title
			existing.Content = page.Content
			existing.UpdatedBy = page.UpdatedBy
			existing.UpdatedAt = time.Now()
			return nil
		}
		cp := *page
		cp.CreatedAt = time.Now()
		d.pages[page.Slug] = &cp
		return nil
	})
}

func (r *memContentRepo) ListSlides(ctx context.Context, activeOnly bool) ([]domain.HeroSlide, error) {
	var out []domain.HeroSlide
	err := r.s.run(func(d *memData) error {
		for _, sl := range d.slides {
			if activeOnly && !sl.Active {
				continue
			}
			out = append(out, *sl)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, err
}

func (r *memContentRepo) CreateSlide(ctx context.Context, slide *domain.HeroSlide) error {
	return r.s.run(func(d *memData) error {
		d.nextSlideID++
		slide.ID = d.nextSlideID
		cp := *slide
		d.slides[slide.ID] = &cp
		return nil
	})
}

func (r *memContentRepo) UpdateSlide(ctx context.Context, slide *domain.HeroSlide) (bool, error) {
	var found bool
	err := r.s.run(func(d *memData) error {
		if _, ok := d.slides[slide.ID]; ok {
			cp := *slide
			d.slides[slide.ID] = &cp
			found = true
		}
		return nil
	})
	return found, err
}

func (r *memContentRepo) DeleteSlide(ctx context.Context, id uint64) (bool, error) {
	var found bool
	err := r.s.run(func(d *memData) error {
		if _, ok := d.slides[id]; ok {
			delete(d.slides, id)
			found = true
		}
		return nil
	})
	return found, err
}
