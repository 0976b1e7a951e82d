package ledger

import (
	"math/rand"
	"testing"

	"github.com/umka-learn/umka/internal/domain"
)

func testCatalog() []domain.ShopItem {
	return []domain.ShopItem{
		{ID: "hat", Name: "Капялюш", Kind: domain.ItemKindStandard, Price: 80},
		{ID: "scarf", Name: "Шалік", Kind: domain.ItemKindStandard, Price: 40},
		{ID: "crown", Name: "Карона", Kind: domain.ItemKindStandard, XPPrice: 200},
		{ID: "case", Name: "Сюрпрыз", Kind: domain.ItemKindSurpriseCase, Price: 50},
	}
}

func testProfile(points, xp int) *domain.Profile {
	p := domain.NewGuestProfile()
	p.Points = points
	p.Experience = xp
	return p
}

func TestShop_Purchase(t *testing.T) {
	shop := NewShop(testCatalog(), rand.New(rand.NewSource(1)))

	t.Run("debits exact price and records ownership", func(t *testing.T) {
		p := testProfile(100, 0)
		receipt, err := shop.Purchase(p, "hat", false)
		if err != nil {
			t.Fatalf("Purchase: %v", err)
		}
		if p.Points != 20 {
			t.Errorf("points = %d, want 20", p.Points)
		}
		if !p.Owns("hat") {
			t.Error("hat not recorded as owned")
		}
		if receipt.Cost != 80 || receipt.Currency != domain.CurrencyPoints {
			t.Errorf("receipt = %+v, want 80 points", receipt)
		}
	})

	t.Run("second purchase is a rejected no-op", func(t *testing.T) {
		p := testProfile(200, 0)
		if _, err := shop.Purchase(p, "hat", false); err != nil {
			t.Fatalf("first Purchase: %v", err)
		}
		_, err := shop.Purchase(p, "hat", false)
		if err != domain.ErrAlreadyOwned {
			t.Fatalf("err = %v, want ErrAlreadyOwned", err)
		}
		if p.Points != 120 {
			t.Errorf("points = %d, want 120: rejection must not debit", p.Points)
		}
		if len(p.OwnedItems) != 1 {
			t.Errorf("owned items = %d, want 1", len(p.OwnedItems))
		}
	})

	t.Run("insufficient funds leaves profile untouched", func(t *testing.T) {
		p := testProfile(79, 0)
		_, err := shop.Purchase(p, "hat", false)
		if err != domain.ErrInsufficientFunds {
			t.Fatalf("err = %v, want ErrInsufficientFunds", err)
		}
		if p.Points != 79 || len(p.OwnedItems) != 0 {
			t.Error("rejected purchase must not mutate the ledger")
		}
	})

	t.Run("xp-priced item debits experience", func(t *testing.T) {
		p := testProfile(10, 250)
		receipt, err := shop.Purchase(p, "crown", false)
		if err != nil {
			t.Fatalf("Purchase: %v", err)
		}
		if p.Experience != 50 || p.Points != 10 {
			t.Errorf("xp = %d points = %d, want 50/10", p.Experience, p.Points)
		}
		if receipt.Currency != domain.CurrencyXP {
			t.Errorf("currency = %s, want xp", receipt.Currency)
		}
	})

	t.Run("unknown item", func(t *testing.T) {
		p := testProfile(1000, 1000)
		if _, err := shop.Purchase(p, "nope", false); err != domain.ErrItemNotFound {
			t.Fatalf("err = %v, want ErrItemNotFound", err)
		}
	})
}

func TestShop_SurpriseCase(t *testing.T) {
	t.Run("awards an unowned points-priced item, never itself", func(t *testing.T) {
		shop := NewShop(testCatalog(), rand.New(rand.NewSource(7)))
		p := testProfile(500, 0)

		seen := map[string]bool{}
		for i := 0; i < 2; i++ {
			receipt, err := shop.Purchase(p, "case", false)
			if err != nil {
				t.Fatalf("Purchase %d: %v", i, err)
			}
			if receipt.Item.ID == "case" || receipt.Item.ID == "crown" {
				t.Fatalf("awarded %q: the case never records itself or xp-priced items", receipt.Item.ID)
			}
			if seen[receipt.Item.ID] {
				t.Fatalf("awarded %q twice: owned items leave the pool", receipt.Item.ID)
			}
			seen[receipt.Item.ID] = true
		}
		if p.Points != 400 {
			t.Errorf("points = %d, want 400 after two 50-point cases", p.Points)
		}
		if p.Owns("case") {
			t.Error("the case itself must never be recorded as owned")
		}
	})

	t.Run("empty pool rejects without debit", func(t *testing.T) {
		shop := NewShop(testCatalog(), rand.New(rand.NewSource(7)))
		p := testProfile(500, 0)
		p.OwnedItems = []domain.OwnedItem{{ItemID: "hat"}, {ItemID: "scarf"}}

		_, err := shop.Purchase(p, "case", false)
		if err != domain.ErrItemNotFound {
			t.Fatalf("err = %v, want ErrItemNotFound with nothing left to win", err)
		}
		if p.Points != 500 {
			t.Errorf("points = %d, want 500", p.Points)
		}
	})

	t.Run("insufficient points", func(t *testing.T) {
		shop := NewShop(testCatalog(), rand.New(rand.NewSource(7)))
		p := testProfile(49, 0)
		if _, err := shop.Purchase(p, "case", false); err != domain.ErrInsufficientFunds {
			t.Fatalf("err = %v, want ErrInsufficientFunds", err)
		}
	})
}

func TestMessage(t *testing.T) {
	receipt := &Receipt{Item: domain.ShopItem{Name: "Капялюш", Icon: "🎩"}}
	if got := Message(receipt, nil); got == "" {
		t.Error("success message empty")
	}
	if Message(nil, domain.ErrAlreadyOwned) == Message(nil, domain.ErrInsufficientFunds) {
		t.Error("rejection reasons must render distinct messages")
	}
}
