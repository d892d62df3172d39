package storage

import (
	"context"
	"testing"

	"SupplierScout/internal/domain"
)

func TestSaveSessionNilDBIsNoop(t *testing.T) {
	t.Parallel()

	r := NewPostgresRepository(nil)
	err := r.SaveSession(context.Background(), domain.SearchRequest{Query: "steel"}, domain.SearchReport{SessionID: "s1"})
	if err != nil {
		t.Fatalf("nil db must be a no-op, got %v", err)
	}
}
