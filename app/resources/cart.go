package resources

import (
	"context"
	"time"

	"github.com/chiquebutik/butik/app/models"
	"github.com/chiquebutik/butik/app/services"
)

type CartLine struct {
	ID        uint    `json:"id"`
	ProductID uint    `json:"product_id"`
	Size      *string `json:"size"`
	Quantity  int     `json:"quantity"`
	Subtotal  string  `json:"subtotal"`
	Product   Product `json:"products"`
}

type Cart struct {
	Items     []CartLine `json:"items"`
	Total     string     `json:"total"`
	ItemCount int        `json:"item_count"`
}

type Favorite struct {
	ID        uint      `json:"id"`
	ProductID uint      `json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
	Product   Product   `json:"products"`
}

func (pr *Presenter) CartLine(ctx context.Context, l *models.CartLine) CartLine {
	return CartLine{
		ID:        l.ID,
		ProductID: l.ProductID,
		Size:      l.Size,
		Quantity:  l.Quantity,
		Subtotal:  Money(l.Subtotal()),
		Product:   pr.Product(ctx, &l.Product),
	}
}

func (pr *Presenter) Cart(ctx context.Context, sum services.CartSummary) Cart {
	out := Cart{
		Items:     make([]CartLine, len(sum.Lines)),
		Total:     Money(sum.Total),
		ItemCount: sum.ItemCount,
	}
	for i := range sum.Lines {
		out.Items[i] = pr.CartLine(ctx, &sum.Lines[i])
	}
	return out
}

func (pr *Presenter) Favorite(ctx context.Context, f *models.Favorite) Favorite {
	return Favorite{
		ID:        f.ID,
		ProductID: f.ProductID,
		CreatedAt: f.CreatedAt,
		Product:   pr.Product(ctx, &f.Product),
	}
}

func (pr *Presenter) Favorites(ctx context.Context, fs []models.Favorite) []Favorite {
	out := make([]Favorite, len(fs))
	for i := range fs {
		out[i] = pr.Favorite(ctx, &fs[i])
	}
	return out
}
