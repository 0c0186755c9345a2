package services_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/khushipatel79/e-commerce-BE/models"
	"github.com/khushipatel79/e-commerce-BE/repository"
	"github.com/khushipatel79/e-commerce-BE/sender"
)

// ---- users ----

type mockUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[primitive.ObjectID]*models.User{}}
}

func (m *mockUserRepo) add(u *models.User) *models.User {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	m.users[u.ID] = u
	return u
}

func (m *mockUserRepo) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateKey
		}
	}
	m.add(u)
	return nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) Update(_ context.Context, id primitive.ObjectID, upd repository.UserUpdate) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Phone != nil {
		u.Phone = *upd.Phone
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.IsBlocked != nil {
		u.IsBlocked = *upd.IsBlocked
	}
	if upd.Addresses != nil {
		u.Addresses = *upd.Addresses
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id primitive.ObjectID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Password = hash
	return nil
}

func (m *mockUserRepo) SetRefreshToken(_ context.Context, id primitive.ObjectID, hash string, expires time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.RefreshToken, u.RefreshTokenExpires = hash, &expires
	return nil
}

func (m *mockUserRepo) RotateRefreshToken(_ context.Context, oldHash, newHash string, expires, now time.Time) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.RefreshToken == oldHash && u.RefreshTokenExpires != nil && u.RefreshTokenExpires.After(now) {
			u.RefreshToken, u.RefreshTokenExpires = newHash, &expires
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) ClearRefreshToken(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.RefreshToken, u.RefreshTokenExpires = "", nil
	return nil
}

func (m *mockUserRepo) SetResetToken(_ context.Context, id primitive.ObjectID, hash string, expires time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.ResetPasswordToken, u.ResetPasswordExpires = hash, &expires
	return nil
}

func (m *mockUserRepo) ConsumeResetToken(_ context.Context, hash, passwordHash string, now time.Time) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ResetPasswordToken == hash && u.ResetPasswordExpires != nil && u.ResetPasswordExpires.After(now) {
			u.Password = passwordHash
			u.ResetPasswordToken, u.ResetPasswordExpires = "", nil
			u.RefreshToken, u.RefreshTokenExpires = "", nil
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) List(_ context.Context, p models.Pagination) ([]models.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (m *mockUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) CountByRole(_ context.Context, role string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, u := range m.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// ---- categories ----

type mockCategoryRepo struct {
	categories map[primitive.ObjectID]*models.Category
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{categories: map[primitive.ObjectID]*models.Category{}}
}

func (m *mockCategoryRepo) Create(_ context.Context, c *models.Category) error {
	for _, existing := range m.categories {
		if existing.Slug == c.Slug || existing.Title == c.Title {
			return repository.ErrDuplicateKey
		}
	}
	c.ID = primitive.NewObjectID()
	cp := *c
	m.categories[c.ID] = &cp
	return nil
}

func (m *mockCategoryRepo) FindByID(_ context.Context, id primitive.ObjectID, activeOnly bool) (*models.Category, error) {
	c, ok := m.categories[id]
	if !ok || (activeOnly && !c.IsActive) {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *mockCategoryRepo) FindBySlug(_ context.Context, slug string, activeOnly bool) (*models.Category, error) {
	for _, c := range m.categories {
		if c.Slug == slug && (!activeOnly || c.IsActive) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockCategoryRepo) FindByTitle(_ context.Context, title string) (*models.Category, error) {
	for _, c := range m.categories {
		if strings.EqualFold(c.Title, title) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockCategoryRepo) List(_ context.Context, q repository.CategoryQuery, _ models.Pagination) ([]models.Category, int64, error) {
	var out []models.Category
	for _, c := range m.categories {
		if !c.IsActive {
			continue
		}
		if q.RootOnly && c.ParentCategory != nil {
			continue
		}
		if q.Parent != nil && (c.ParentCategory == nil || *c.ParentCategory != *q.Parent) {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(c.Title), strings.ToLower(q.Search)) {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (m *mockCategoryRepo) Save(_ context.Context, c *models.Category) error {
	if _, ok := m.categories[c.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *c
	m.categories[c.ID] = &cp
	return nil
}

func (m *mockCategoryRepo) SoftDelete(_ context.Context, id primitive.ObjectID) error {
	c, ok := m.categories[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.IsActive = false
	return nil
}

// ---- products ----

type mockProductRepo struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]*models.Product
	// decrementErr forces DecrementStock to fail for one product
	decrementErr map[primitive.ObjectID]error
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{
		products:     map[primitive.ObjectID]*models.Product{},
		decrementErr: map[primitive.ObjectID]error{},
	}
}

func (m *mockProductRepo) add(p *models.Product) *models.Product {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Slug == "" {
		p.Slug = p.ID.Hex()
	}
	m.products[p.ID] = p
	return p
}

func (m *mockProductRepo) stock(id primitive.ObjectID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[id].Stock
}

func (m *mockProductRepo) Create(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.products {
		if existing.Slug == p.Slug || (p.SKU != "" && existing.SKU == p.SKU) {
			return repository.ErrDuplicateKey
		}
	}
	p.ID = primitive.NewObjectID()
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *mockProductRepo) FindByID(_ context.Context, id primitive.ObjectID, activeOnly bool) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok || (activeOnly && !p.IsActive) {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockProductRepo) FindBySlug(_ context.Context, slug string, activeOnly bool) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.Slug == slug && (!activeOnly || p.IsActive) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockProductRepo) FindBySKU(_ context.Context, sku string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockProductRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Product
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockProductRepo) List(_ context.Context, q repository.ProductQuery, _ models.Pagination) ([]models.Product, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Product
	for _, p := range m.products {
		if !p.IsActive {
			continue
		}
		if q.CategoryID != nil && p.Category != *q.CategoryID {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (m *mockProductRepo) FindRelated(_ context.Context, categoryID, excludeID primitive.ObjectID, limit int) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Product
	for _, p := range m.products {
		if p.IsActive && p.Category == categoryID && p.ID != excludeID && len(out) < limit {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockProductRepo) Update(_ context.Context, id primitive.ObjectID, upd repository.ProductUpdate) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Slug != nil {
		p.Slug = *upd.Slug
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.Stock != nil {
		p.Stock = *upd.Stock
	}
	if upd.Category != nil {
		p.Category = *upd.Category
	}
	if upd.IsActive != nil {
		p.IsActive = *upd.IsActive
	}
	cp := *p
	return &cp, nil
}

func (m *mockProductRepo) SoftDelete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.IsActive = false
	return nil
}

func (m *mockProductRepo) DecrementStock(_ context.Context, id primitive.ObjectID, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.decrementErr[id]; err != nil {
		return err
	}
	p, ok := m.products[id]
	if !ok || !p.IsActive || p.Stock < qty {
		return repository.ErrInsufficientStock
	}
	p.Stock -= qty
	return nil
}

func (m *mockProductRepo) IncrementStock(_ context.Context, id primitive.ObjectID, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Stock += qty
	return nil
}

func (m *mockProductRepo) UpdateRatings(_ context.Context, id primitive.ObjectID, stats models.RatingStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.RatingsAverage, p.RatingsCount = stats.Average, stats.Count
	return nil
}

func (m *mockProductRepo) CountActive(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, p := range m.products {
		if p.IsActive {
			n++
		}
	}
	return n, nil
}

func (m *mockProductRepo) LowStock(_ context.Context, threshold, limit int) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Product
	for _, p := range m.products {
		if p.IsActive && p.Stock < threshold && len(out) < limit {
			out = append(out, *p)
		}
	}
	return out, nil
}

// ---- carts ----

type mockCartRepo struct {
	mu       sync.Mutex
	carts    map[primitive.ObjectID]*models.Cart
	clearErr error
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{carts: map[primitive.ObjectID]*models.Cart{}}
}

func (m *mockCartRepo) FindByUser(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	cp.Items = append([]models.CartItem(nil), c.Items...)
	return &cp, nil
}

func (m *mockCartRepo) Save(_ context.Context, cart *models.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
	}
	cp := *cart
	cp.Items = make([]models.CartItem, len(cart.Items))
	for i, it := range cart.Items {
		it.ProductDetails = nil
		cp.Items[i] = it
	}
	m.carts[cart.User] = &cp
	return nil
}

func (m *mockCartRepo) Clear(_ context.Context, userID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clearErr != nil {
		return m.clearErr
	}
	if c, ok := m.carts[userID]; ok {
		c.Items = []models.CartItem{}
		c.TotalPrice = 0
	}
	return nil
}

// ---- orders ----

type mockOrderRepo struct {
	mu     sync.Mutex
	orders map[primitive.ObjectID]*models.Order
	// duplicateCreates makes the next n creates fail with a unique-index violation
	duplicateCreates int
	createCalls      int
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: map[primitive.ObjectID]*models.Order{}}
}

func (m *mockOrderRepo) add(o *models.Order) *models.Order {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	m.orders[o.ID] = o
	return o
}

func (m *mockOrderRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

func (m *mockOrderRepo) Create(_ context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if m.duplicateCreates > 0 {
		m.duplicateCreates--
		return repository.ErrDuplicateKey
	}
	for _, existing := range m.orders {
		if existing.OrderNumber == o.OrderNumber {
			return repository.ErrDuplicateKey
		}
	}
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) FindByOrderNumber(_ context.Context, number string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.OrderNumber == number {
			cp := *o
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockOrderRepo) ListByUser(_ context.Context, userID primitive.ObjectID, _ models.Pagination) ([]models.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, o := range m.orders {
		if o.User == userID {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockOrderRepo) List(_ context.Context, status string, _ models.Pagination) ([]models.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, o := range m.orders {
		if status == "" || o.OrderStatus == status {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, change models.OrderStatusChange) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.OrderStatus != change.From {
		return nil, repository.ErrConflict
	}
	o.OrderStatus = change.To
	if change.PaymentStatus != "" {
		o.PaymentStatus = change.PaymentStatus
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.orders, id)
	return nil
}

func (m *mockOrderRepo) HasDeliveredProduct(_ context.Context, userID, productID primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.User != userID || o.OrderStatus != models.OrderStatusDelivered {
			continue
		}
		for _, it := range o.Items {
			if it.Product == productID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (m *mockOrderRepo) Count(_ context.Context) (int64, error) {
	return int64(m.count()), nil
}

func (m *mockOrderRepo) DeliveredRevenue(_ context.Context) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total float64
	for _, o := range m.orders {
		if o.OrderStatus == models.OrderStatusDelivered {
			total += o.TotalPrice
		}
	}
	return total, nil
}

func (m *mockOrderRepo) Recent(_ context.Context, limit int) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, o := range m.orders {
		if len(out) < limit {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) SalesByCategory(_ context.Context) ([]models.CategorySales, error) {
	return nil, nil
}

// ---- reviews ----

type mockReviewRepo struct {
	reviews map[primitive.ObjectID]*models.Review
}

func newMockReviewRepo() *mockReviewRepo {
	return &mockReviewRepo{reviews: map[primitive.ObjectID]*models.Review{}}
}

func (m *mockReviewRepo) Create(_ context.Context, r *models.Review) error {
	for _, existing := range m.reviews {
		if existing.User == r.User && existing.Product == r.Product {
			return repository.ErrDuplicateKey
		}
	}
	r.ID = primitive.NewObjectID()
	cp := *r
	m.reviews[r.ID] = &cp
	return nil
}

func (m *mockReviewRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Review, error) {
	r, ok := m.reviews[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockReviewRepo) FindByUserAndProduct(_ context.Context, userID, productID primitive.ObjectID) (*models.Review, error) {
	for _, r := range m.reviews {
		if r.User == userID && r.Product == productID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockReviewRepo) ListApprovedByProduct(_ context.Context, productID primitive.ObjectID) ([]models.Review, error) {
	var out []models.Review
	for _, r := range m.reviews {
		if r.Product == productID && r.IsApproved {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockReviewRepo) ListPending(_ context.Context) ([]models.Review, error) {
	var out []models.Review
	for _, r := range m.reviews {
		if !r.IsApproved {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockReviewRepo) SetApproved(_ context.Context, id primitive.ObjectID, approved bool) (*models.Review, error) {
	r, ok := m.reviews[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	r.IsApproved = approved
	cp := *r
	return &cp, nil
}

func (m *mockReviewRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.reviews[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.reviews, id)
	return nil
}

func (m *mockReviewRepo) RatingStats(_ context.Context, productID primitive.ObjectID) (models.RatingStats, error) {
	var stats models.RatingStats
	sum := 0
	for _, r := range m.reviews {
		if r.Product == productID && r.IsApproved {
			sum += r.Rating
			stats.Count++
		}
	}
	if stats.Count > 0 {
		stats.Average = float64(sum) / float64(stats.Count)
	}
	return stats, nil
}

// ---- wishlists ----

type mockWishlistRepo struct {
	lists map[primitive.ObjectID]*models.Wishlist
}

func newMockWishlistRepo() *mockWishlistRepo {
	return &mockWishlistRepo{lists: map[primitive.ObjectID]*models.Wishlist{}}
}

func (m *mockWishlistRepo) get(userID primitive.ObjectID) *models.Wishlist {
	w, ok := m.lists[userID]
	if !ok {
		w = &models.Wishlist{ID: primitive.NewObjectID(), User: userID, Products: []primitive.ObjectID{}}
		m.lists[userID] = w
	}
	return w
}

func (m *mockWishlistRepo) copyOf(w *models.Wishlist) *models.Wishlist {
	cp := *w
	cp.Products = append([]primitive.ObjectID{}, w.Products...)
	return &cp
}

func (m *mockWishlistRepo) FindByUser(_ context.Context, userID primitive.ObjectID) (*models.Wishlist, error) {
	w, ok := m.lists[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return m.copyOf(w), nil
}

func (m *mockWishlistRepo) Add(_ context.Context, userID, productID primitive.ObjectID) (*models.Wishlist, error) {
	w := m.get(userID)
	if !w.Contains(productID) {
		w.Products = append(w.Products, productID)
	}
	return m.copyOf(w), nil
}

func (m *mockWishlistRepo) Remove(_ context.Context, userID, productID primitive.ObjectID) (*models.Wishlist, error) {
	w := m.get(userID)
	kept := w.Products[:0]
	for _, id := range w.Products {
		if id != productID {
			kept = append(kept, id)
		}
	}
	w.Products = kept
	return m.copyOf(w), nil
}

func (m *mockWishlistRepo) Clear(_ context.Context, userID primitive.ObjectID) (*models.Wishlist, error) {
	w := m.get(userID)
	w.Products = []primitive.ObjectID{}
	return m.copyOf(w), nil
}

// ---- idempotency ----

type mockIdempotencyStore struct {
	mu     sync.Mutex
	values map[string]string
}

func newMockIdempotencyStore() *mockIdempotencyStore {
	return &mockIdempotencyStore{values: map[string]string{}}
}

func (m *mockIdempotencyStore) Claim(_ context.Context, key string, _ time.Duration) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.values[key]; ok {
		return v, false, nil
	}
	m.values[key] = repository.PendingValue
	return "", true, nil
}

func (m *mockIdempotencyStore) Complete(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *mockIdempotencyStore) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// ---- transactions ----

// mockAtomicTransactor snapshots products, orders and carts and restores them when the
// unit of work fails, like a store transaction would.
type mockAtomicTransactor struct {
	products *mockProductRepo
	orders   *mockOrderRepo
	carts    *mockCartRepo
}

func (t *mockAtomicTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.products.mu.Lock()
	stock := map[primitive.ObjectID]int{}
	for id, p := range t.products.products {
		stock[id] = p.Stock
	}
	t.products.mu.Unlock()

	t.orders.mu.Lock()
	orders := map[primitive.ObjectID]models.Order{}
	for id, o := range t.orders.orders {
		orders[id] = *o
	}
	t.orders.mu.Unlock()

	t.carts.mu.Lock()
	carts := map[primitive.ObjectID]models.Cart{}
	for id, c := range t.carts.carts {
		cp := *c
		cp.Items = append([]models.CartItem(nil), c.Items...)
		carts[id] = cp
	}
	t.carts.mu.Unlock()

	err := fn(ctx)
	if err == nil {
		return nil
	}

	t.products.mu.Lock()
	for id, n := range stock {
		t.products.products[id].Stock = n
	}
	t.products.mu.Unlock()

	t.orders.mu.Lock()
	t.orders.orders = map[primitive.ObjectID]*models.Order{}
	for id, o := range orders {
		o := o
		t.orders.orders[id] = &o
	}
	t.orders.mu.Unlock()

	t.carts.mu.Lock()
	t.carts.carts = map[primitive.ObjectID]*models.Cart{}
	for id, c := range carts {
		c := c
		t.carts.carts[id] = &c
	}
	t.carts.mu.Unlock()
	return err
}

func (t *mockAtomicTransactor) Atomic() bool { return true }

// ---- side effects ----

type sentEmail struct {
	to, subject, body string
}

type mockMailer struct {
	mu    sync.Mutex
	sent  []sentEmail
	fails int
	err   error
}

func (m *mockMailer) SendEmail(_ context.Context, to, subject, body string) (sender.SendResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fails > 0 {
		m.fails--
		return sender.SendResult{}, m.err
	}
	m.sent = append(m.sent, sentEmail{to: to, subject: subject, body: body})
	return sender.SendResult{MessageID: "test", SentAt: time.Now()}, nil
}

func (m *mockMailer) last() sentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentEmail{}
	}
	return m.sent[len(m.sent)-1]
}

type mockEvents struct {
	mu     sync.Mutex
	events []models.Event
}

func (m *mockEvents) Publish(_ context.Context, e models.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}

func (m *mockEvents) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, e := range m.events {
		out = append(out, e.EventType)
	}
	return out
}

type mockMetrics struct {
	mu     sync.Mutex
	counts map[string]int
	err    error

	// set when a recorder call received a cancellable context
	cancellable bool
}

func newMockMetrics() *mockMetrics { return &mockMetrics{counts: map[string]int{}} }

func (m *mockMetrics) RecordCount(ctx context.Context, name string, _ map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[name]++
	if ctx.Done() != nil {
		m.cancellable = true
	}
	return m.err
}

func (m *mockMetrics) RecordLatency(context.Context, string, time.Duration, map[string]string) error {
	return nil
}

func (m *mockMetrics) RecordValue(context.Context, string, float64, map[string]string) error {
	return nil
}

func (m *mockMetrics) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[name]
}
