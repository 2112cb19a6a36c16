package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/shopline/shop-api/internal/api/metrics"
	"github.com/shopline/shop-api/internal/core/domain"
	"github.com/shopline/shop-api/internal/core/ports"
)

// CartService manages the cart embedded in each user. Adding and updating
// only check stock; stock is decremented at checkout.
type CartService struct {
	users    ports.UserRepository
	products ports.ProductRepository
	validate InputValidator
	log      zerolog.Logger
}

func NewCartService(users ports.UserRepository, products ports.ProductRepository, validate InputValidator, log zerolog.Logger) *CartService {
	return &CartService{users: users, products: products, validate: validate, log: log}
}

// AddItem adds quantity of a product to the cart. A line that already
// references the product is merged, and the merged quantity must fit in
// the current stock.
func (s *CartService) AddItem(ctx context.Context, userID string, in ports.AddCartItemInput) ([]domain.CartLine, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	product, err := s.products.FindByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}

	existing := user.FindCartLineByProduct(product.ID)
	want := in.Quantity
	if existing != nil {
		want += existing.Quantity
	}
	if want > product.StockQuantity {
		metrics.StockRejectionsTotal.WithLabelValues("add").Inc()
		return nil, domain.InsufficientStock(product.StockQuantity)
	}

	if existing != nil {
		if err := s.users.SetCartLineQuantity(ctx, user.ID, existing.ID, want); err != nil {
			return nil, fmt.Errorf("add cart item: %w", err)
		}
		existing.Quantity = want
	} else {
		line, err := s.users.AddCartLine(ctx, user.ID, domain.CartLine{ProductID: product.ID, Quantity: want})
		if err != nil {
			return nil, fmt.Errorf("add cart item: %w", err)
		}
		user.Cart = append(user.Cart, *line)
	}

	metrics.CartItemsAddedTotal.Add(float64(in.Quantity))
	s.log.Debug().Str("user_id", user.ID).Str("product_id", product.ID).Int("quantity", want).Msg("cart item added")
	return user.Cart, nil
}

// ListItems joins every cart line with its product. A line whose product
// no longer exists is returned with a nil product.
func (s *CartService) ListItems(ctx context.Context, userID string) ([]ports.CartItem, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]ports.CartItem, 0, len(user.Cart))
	for _, line := range user.Cart {
		item := ports.CartItem{ID: line.ID, Quantity: line.Quantity}
		p, err := s.products.FindByID(ctx, line.ProductID)
		switch {
		case err == nil:
			item.Product = p
		case errors.Is(err, domain.ErrProductNotFound):
			s.log.Debug().Str("user_id", user.ID).Str("product_id", line.ProductID).Msg("cart references missing product")
		default:
			return nil, fmt.Errorf("list cart: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *CartService) UpdateItem(ctx context.Context, userID, lineID string, in ports.UpdateCartItemInput) (*domain.CartLine, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	line := user.FindCartLine(lineID)
	if line == nil {
		return nil, domain.ErrCartItemNotFound
	}

	product, err := s.products.FindByID(ctx, line.ProductID)
	if err != nil {
		return nil, err
	}
	if in.Quantity > product.StockQuantity {
		metrics.StockRejectionsTotal.WithLabelValues("update").Inc()
		return nil, domain.InsufficientStock(product.StockQuantity)
	}

	if err := s.users.SetCartLineQuantity(ctx, user.ID, line.ID, in.Quantity); err != nil {
		return nil, err
	}
	line.Quantity = in.Quantity
	return line, nil
}

// RemoveItem deletes a cart line. The referenced product is untouched.
func (s *CartService) RemoveItem(ctx context.Context, userID, lineID string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.FindCartLine(lineID) == nil {
		return domain.ErrCartItemNotFound
	}
	return s.users.RemoveCartLine(ctx, user.ID, lineID)
}

// Checkout decrements stock for every line and empties the cart. Each
// decrement is conditional on sufficient stock; on the first shortfall
// the decrements already applied are restored.
func (s *CartService) Checkout(ctx context.Context, userID string) (*ports.CheckoutResult, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(user.Cart) == 0 {
		return nil, domain.Validationf("cart is empty")
	}

	result := &ports.CheckoutResult{Items: make([]ports.CartItem, 0, len(user.Cart))}
	var applied []domain.CartLine

	fail := func(err error) (*ports.CheckoutResult, error) {
		s.restoreStock(ctx, applied)
		metrics.CheckoutsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	for _, line := range user.Cart {
		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			return fail(err)
		}
		ok, err := s.products.DecrementStock(ctx, product.ID, line.Quantity)
		if err != nil {
			return fail(fmt.Errorf("checkout: %w", err))
		}
		if !ok {
			metrics.StockRejectionsTotal.WithLabelValues("checkout").Inc()
			return fail(domain.InsufficientStock(product.StockQuantity))
		}
		applied = append(applied, line)

		product.StockQuantity -= line.Quantity
		result.Items = append(result.Items, ports.CartItem{ID: line.ID, Product: product, Quantity: line.Quantity})
		result.Total += product.Price * float64(line.Quantity)
	}

	if err := s.users.ClearCart(ctx, user.ID); err != nil {
		return fail(fmt.Errorf("checkout: %w", err))
	}

	metrics.CheckoutsTotal.WithLabelValues("completed").Inc()
	s.log.Info().Str("user_id", user.ID).Int("lines", len(result.Items)).Float64("total", result.Total).Msg("checkout completed")
	return result, nil
}

func (s *CartService) restoreStock(ctx context.Context, lines []domain.CartLine) {
	// The request may already be cancelled; restoring must still run.
	ctx = context.WithoutCancel(ctx)
	for _, line := range lines {
		if err := s.products.IncrementStock(ctx, line.ProductID, line.Quantity); err != nil {
			s.log.Error().Err(err).Str("product_id", line.ProductID).Int("quantity", line.Quantity).Msg("failed to restore stock")
		}
	}
}
