package services

import (
	"strings"

	"github.com/chiquebutik/butik/app/errs"
	"github.com/chiquebutik/butik/app/models"
)

// checkStock applies the cart stock policy: a sized product with no size in
// stock is sold out whatever size was asked for; a requested size must
// exist and be in stock. Unsized products always pass.
func checkStock(p *models.Product, size *string) error {
	if !p.HasSizes() {
		return nil
	}
	if p.SoldOut() {
		return errs.E(errs.SoldOut, "Denna produkt är tyvärr slut i lager")
	}
	if size == nil {
		return nil
	}
	if v, ok := p.Size(*size); !ok || !v.InStock {
		return errs.E(errs.SizeUnavailable, "Storlek %s är tyvärr slut i lager", *size)
	}
	return nil
}

// normalizeSize trims size and maps blank to nil.
func normalizeSize(size *string) *string {
	if size == nil {
		return nil
	}
	s := strings.TrimSpace(*size)
	if s == "" {
		return nil
	}
	return &s
}
