package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/futalyst/internal/domain/challenge"
)

func TestCatalogService_ListChallenges(t *testing.T) {
	svc := NewCatalogService(nil)

	all, err := svc.ListChallenges(context.Background(), "")
	if err != nil {
		t.Fatalf("ListChallenges error: %v", err)
	}
	if len(all) != challenge.DefaultCatalog().Len() {
		t.Fatalf("expected full catalog, got %d", len(all))
	}

	firsts, err := svc.ListChallenges(context.Background(), " firsttoachieve ")
	if err != nil {
		t.Fatalf("ListChallenges error: %v", err)
	}
	for _, ch := range firsts {
		if ch.Category != challenge.CategoryFirstToAchieve {
			t.Fatalf("unexpected category %s", ch.Category)
		}
	}

	if _, err := svc.ListChallenges(context.Background(), "vibes"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if svc.Version() != challenge.CatalogVersion {
		t.Fatalf("unexpected version %s", svc.Version())
	}
}
