package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopline/shop-api/internal/core/domain"
	"github.com/shopline/shop-api/internal/core/ports"
	"github.com/shopline/shop-api/internal/infrastructure/security"
	"github.com/shopline/shop-api/internal/pkg/validation"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories. They mirror the Mongo repositories'
// contracts, including the not-found sentinels.
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	seq     int
	listErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	clone.Cart = append([]domain.CartLine(nil), u.Cart...)
	return &clone
}

func (r *stubUserRepo) nextID(prefix string) string {
	r.seq++
	return fmt.Sprintf("%s%d", prefix, r.seq)
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	c := cloneUser(user)
	c.ID = r.nextID("user")
	r.byID[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) SetResetToken(_ context.Context, userID, token string, expires time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ResetPasswordToken = token
	u.ResetPasswordExpires = expires
	return nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, userID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	u.ResetPasswordToken = ""
	u.ResetPasswordExpires = time.Time{}
	return nil
}

func (r *stubUserRepo) AddCartLine(_ context.Context, userID string, line domain.CartLine) (*domain.CartLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	line.ID = r.nextID("line")
	u.Cart = append(u.Cart, line)
	return &line, nil
}

func (r *stubUserRepo) SetCartLineQuantity(_ context.Context, userID, lineID string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	for i := range u.Cart {
		if u.Cart[i].ID == lineID {
			u.Cart[i].Quantity = quantity
			return nil
		}
	}
	return domain.ErrCartItemNotFound
}

func (r *stubUserRepo) RemoveCartLine(_ context.Context, userID, lineID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	for i := range u.Cart {
		if u.Cart[i].ID == lineID {
			u.Cart = append(u.Cart[:i], u.Cart[i+1:]...)
			return nil
		}
	}
	return domain.ErrCartItemNotFound
}

func (r *stubUserRepo) ClearCart(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Cart = []domain.CartLine{}
	return nil
}

type stubProductRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.Product
	seq  int
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{byID: make(map[string]*domain.Product)}
}

func cloneProduct(p *domain.Product) *domain.Product {
	clone := *p
	clone.Reviews = make([]domain.Review, len(p.Reviews))
	copy(clone.Reviews, p.Reviews)
	return &clone
}

func (r *stubProductRepo) sorted(match func(*domain.Product) bool) []*domain.Product {
	out := []*domain.Product{}
	for _, p := range r.byID {
		if match(p) {
			out = append(out, cloneProduct(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Title == p.Title {
			return nil, domain.ErrTitleExists
		}
	}
	r.seq++
	c := cloneProduct(p)
	c.ID = fmt.Sprintf("prod%d", r.seq)
	r.byID[c.ID] = c
	return cloneProduct(c), nil
}

func (r *stubProductRepo) List(_ context.Context) ([]*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(*domain.Product) bool { return true }), nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return cloneProduct(p), nil
}

func (r *stubProductRepo) Update(_ context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	if patch.Title != nil {
		for _, other := range r.byID {
			if other.ID != id && other.Title == *patch.Title {
				return nil, domain.ErrTitleExists
			}
		}
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.StockQuantity != nil {
		p.StockQuantity = *patch.StockQuantity
	}
	return cloneProduct(p), nil
}

func (r *stubProductRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubProductRepo) FindByPriceRange(_ context.Context, min, max float64) ([]*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(p *domain.Product) bool { return p.Price >= min && p.Price <= max }), nil
}

func (r *stubProductRepo) FindByTitle(_ context.Context, title string) ([]*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(p *domain.Product) bool { return p.Title == title }), nil
}

func (r *stubProductRepo) FindByCategory(_ context.Context, substring string) ([]*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	needle := strings.ToLower(substring)
	return r.sorted(func(p *domain.Product) bool { return strings.Contains(strings.ToLower(p.Category), needle) }), nil
}

func (r *stubProductRepo) Search(_ context.Context, query string) ([]*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	words := strings.Fields(strings.ToLower(query))
	return r.sorted(func(p *domain.Product) bool {
		text := strings.ToLower(p.Title + " " + p.Description + " " + p.Category)
		for _, w := range words {
			if strings.Contains(text, w) {
				return true
			}
		}
		return false
	}), nil
}

func (r *stubProductRepo) SetStock(_ context.Context, id string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.StockQuantity = quantity
	return nil
}

func (r *stubProductRepo) DecrementStock(_ context.Context, id string, quantity int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok || p.StockQuantity < quantity {
		return false, nil
	}
	p.StockQuantity -= quantity
	return true, nil
}

func (r *stubProductRepo) IncrementStock(_ context.Context, id string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.StockQuantity += quantity
	return nil
}

func (r *stubProductRepo) AddReview(_ context.Context, productID string, review domain.Review) ([]domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[productID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	r.seq++
	review.ID = fmt.Sprintf("rev%d", r.seq)
	p.Reviews = append(p.Reviews, review)
	return append([]domain.Review(nil), p.Reviews...), nil
}

func (r *stubProductRepo) UpdateReview(_ context.Context, productID, reviewID string, rating int, comment string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[productID]
	if !ok {
		return domain.ErrProductNotFound
	}
	for i := range p.Reviews {
		if p.Reviews[i].ID == reviewID {
			p.Reviews[i].Rating = rating
			p.Reviews[i].Comment = comment
			return nil
		}
	}
	return domain.ErrReviewNotFound
}

// ---------------------------------------------------------------------------
// Collaborator stubs
// ---------------------------------------------------------------------------

type stubMailer struct {
	sent []ports.MailMessage
	err  error
}

func (m *stubMailer) Send(_ context.Context, msg ports.MailMessage) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type stubThrottle struct {
	seen map[string]bool
	err  error
}

func newStubThrottle() *stubThrottle {
	return &stubThrottle{seen: make(map[string]bool)}
}

func (t *stubThrottle) Allow(_ context.Context, key string, _ time.Duration) (bool, error) {
	if t.err != nil {
		return false, t.err
	}
	if t.seen[key] {
		return false, nil
	}
	t.seen[key] = true
	return true, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

const testSecret = "test-secret"

var (
	discardLogger = zerolog.Nop()
	testValidator = validation.New()
	testHasher    = security.NewBcryptHasher(4)
	errStore      = errors.New("store unavailable")
)

func testIssuer() *security.JWTIssuer {
	iss, err := security.NewJWTIssuer(testSecret)
	if err != nil {
		panic(err)
	}
	return iss
}

func ptr[T any](v T) *T { return &v }
