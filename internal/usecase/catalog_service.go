package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/futalyst/internal/domain/challenge"
)

type CatalogService struct {
	catalog *challenge.Catalog
}

func NewCatalogService(catalog *challenge.Catalog) *CatalogService {
	if catalog == nil {
		catalog = challenge.DefaultCatalog()
	}
	return &CatalogService{catalog: catalog}
}

func (s *CatalogService) Version() string {
	return s.catalog.Version()
}

// ListChallenges returns the whole catalog, or one category when category is
// not empty.
func (s *CatalogService) ListChallenges(ctx context.Context, category string) ([]challenge.Challenge, error) {
	_, span := startUsecaseSpan(ctx, "usecase.CatalogService.ListChallenges")
	defer span.End()

	category = strings.TrimSpace(category)
	if category == "" {
		return s.catalog.List(), nil
	}

	for _, known := range s.catalog.Categories() {
		if strings.EqualFold(string(known), category) {
			return s.catalog.ByCategory(known), nil
		}
	}
	return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, category)
}
