package memory

import (
	"context"
	"errors"
	"testing"

	leads "energy-simulator/internal/leads/domain"
)

func TestLeadRepository(t *testing.T) {
	repo := NewLeadRepository()
	ctx := context.Background()
	if err := repo.Save(ctx, leads.Lead{ID: "l1", Name: "Ana"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Save(ctx, leads.Lead{Name: "No id"}); err == nil {
		t.Fatalf("expected error for empty id")
	}
	got, err := repo.Get(ctx, "l1")
	if err != nil || got.Name != "Ana" {
		t.Fatalf("get got=%+v err=%v", got, err)
	}
	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, leads.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if repo.Count() != 1 {
		t.Fatalf("count got=%d want=1", repo.Count())
	}
}
