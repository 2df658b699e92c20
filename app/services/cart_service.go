package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/chiquebutik/butik/app/errs"
	"github.com/chiquebutik/butik/app/events"
	"github.com/chiquebutik/butik/app/models"
	"github.com/chiquebutik/butik/app/repositories"
	"github.com/chiquebutik/butik/pkg/event"
	"github.com/chiquebutik/butik/pkg/metrics"
)

type AddToCartInput struct {
	ProductID uint
	Quantity  int
	Size      *string
}

// CartSummary is a cart with totals derived from current product prices.
type CartSummary struct {
	Lines     []models.CartLine
	Total     decimal.Decimal
	ItemCount int
}

func Summarize(lines []models.CartLine) CartSummary {
	sum := CartSummary{Lines: lines, Total: decimal.Zero}
	for i := range lines {
		sum.Total = sum.Total.Add(lines[i].Subtotal())
		sum.ItemCount += lines[i].Quantity
	}
	return sum
}

type CartService struct {
	products *repositories.ProductRepository
	cart     *repositories.CartRepository
	events   *event.Bus
}

func NewCartService(products *repositories.ProductRepository, cart *repositories.CartRepository, bus *event.Bus) *CartService {
	return &CartService{products: products, cart: cart, events: bus}
}

// Add puts quantity of a product (and optional size) in the user's cart,
// incrementing an existing line for the same product and size.
func (s *CartService) Add(ctx context.Context, userID string, in AddToCartInput) (line *models.CartLine, err error) {
	defer func() { recordCart("add", err) }()

	if userID == "" {
		return nil, errs.E(errs.Unauthorized, "Unauthorized")
	}
	if in.ProductID == 0 {
		return nil, errs.E(errs.InvalidArgument, "productId is required")
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Quantity < 1 {
		return nil, errs.E(errs.InvalidArgument, "Quantity must be at least 1")
	}
	size := normalizeSize(in.Size)

	product, err := s.products.Get(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if err := checkStock(product, size); err != nil {
		return nil, err
	}

	line, err = s.cart.AddQuantity(ctx, userID, product.ID, size, in.Quantity)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, err, "could not add to cart")
	}
	s.changed(ctx, userID, "add")
	return line, nil
}

// UpdateQuantity sets an owned line's quantity after re-checking stock for
// the line's stored size against the product's current state.
func (s *CartService) UpdateQuantity(ctx context.Context, userID string, lineID uint, qty int) (line *models.CartLine, err error) {
	defer func() { recordCart("update", err) }()

	if userID == "" {
		return nil, errs.E(errs.Unauthorized, "Unauthorized")
	}
	if lineID == 0 {
		return nil, errs.E(errs.InvalidArgument, "cartItemId is required")
	}
	if qty < 1 {
		return nil, errs.E(errs.InvalidArgument, "Quantity must be at least 1")
	}

	line, err = s.cart.FindOwned(ctx, userID, lineID)
	if err != nil {
		return nil, err
	}
	if err := checkStock(&line.Product, line.Size); err != nil {
		return nil, err
	}
	if err := s.cart.SetQuantity(ctx, userID, lineID, qty); err != nil {
		return nil, err
	}
	line.Quantity = qty

	s.changed(ctx, userID, "update")
	return line, nil
}

// Remove deletes an owned line. Unknown ids are not an error.
func (s *CartService) Remove(ctx context.Context, userID string, lineID uint) (n int64, err error) {
	defer func() { recordCart("remove", err) }()

	if userID == "" {
		return 0, errs.E(errs.Unauthorized, "Unauthorized")
	}
	if lineID == 0 {
		return 0, errs.E(errs.InvalidArgument, "id is required")
	}
	n, err = s.cart.Delete(ctx, userID, lineID)
	if err != nil {
		return 0, errs.Wrap(errs.Internal, err, "could not remove cart item")
	}
	if n > 0 {
		s.changed(ctx, userID, "remove")
	}
	return n, nil
}

// Clear empties the user's cart.
func (s *CartService) Clear(ctx context.Context, userID string) (n int64, err error) {
	defer func() { recordCart("clear", err) }()

	if userID == "" {
		return 0, errs.E(errs.Unauthorized, "Unauthorized")
	}
	n, err = s.cart.Clear(ctx, userID)
	if err != nil {
		return 0, errs.Wrap(errs.Internal, err, "could not clear cart")
	}
	if n > 0 {
		s.changed(ctx, userID, "clear")
	}
	return n, nil
}

func (s *CartService) List(ctx context.Context, userID string) (CartSummary, error) {
	if userID == "" {
		return CartSummary{}, errs.E(errs.Unauthorized, "Unauthorized")
	}
	lines, err := s.cart.List(ctx, userID)
	if err != nil {
		return CartSummary{}, errs.Wrap(errs.Internal, err, "could not load cart")
	}
	return Summarize(lines), nil
}

func (s *CartService) changed(ctx context.Context, userID, op string) {
	s.events.FireAsync(ctx, events.CartChanged, events.CartChangedPayload{UserID: userID, Op: op})
}

func recordCart(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(errs.KindOf(err))
	}
	metrics.CartMutations.WithLabelValues(op, outcome).Inc()
}
