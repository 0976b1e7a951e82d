package local

import (
	"context"
	"testing"

	"github.com/umka-learn/umka/internal/domain"
)

func TestStore_RoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	ctx := context.Background()

	p := domain.NewGuestProfile()
	p.Name = "Алеся"
	p.Points = 120
	p.CompletedLessons = []string{"grammar-e"}
	p.OwnedItems = []domain.OwnedItem{{ItemID: "hat", Used: true}}

	if err := store.SaveSnapshot(ctx, "alesya", p); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	got, err := store.LoadSnapshot(ctx, "alesya")
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if got.Name != p.Name || got.Points != p.Points {
		t.Errorf("loaded %s/%d, want %s/%d", got.Name, got.Points, p.Name, p.Points)
	}
	if len(got.CompletedLessons) != 1 || len(got.OwnedItems) != 1 || !got.OwnedItems[0].Used {
		t.Errorf("collections did not survive the round trip: %+v", got)
	}
}

func TestStore_Overwrite(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	ctx := context.Background()

	p := domain.NewGuestProfile()
	store.SaveSnapshot(ctx, "k", p)
	p.Points = 55
	store.SaveSnapshot(ctx, "k", p)

	got, err := store.LoadSnapshot(ctx, "k")
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if got.Points != 55 {
		t.Errorf("points = %d, want 55: save must replace", got.Points)
	}
}

func TestStore_Missing(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	ctx := context.Background()

	if _, err := store.LoadSnapshot(ctx, "absent"); err != domain.ErrProfileNotFound {
		t.Errorf("err = %v, want ErrProfileNotFound", err)
	}
	if err := store.Delete(ctx, "absent"); err != domain.ErrProfileNotFound {
		t.Errorf("Delete err = %v, want ErrProfileNotFound", err)
	}
}

func TestStore_List(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	ctx := context.Background()

	keys, err := store.List(ctx)
	if err != nil || len(keys) != 0 {
		t.Fatalf("empty store List = %v, %v", keys, err)
	}

	store.SaveSnapshot(ctx, "a", domain.NewGuestProfile())
	store.SaveSnapshot(ctx, "b", domain.NewGuestProfile())
	keys, err = store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("List = %v, want 2 keys", keys)
	}
}
