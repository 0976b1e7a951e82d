package ledger

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/umka-learn/umka/internal/domain"
)

// Receipt is the record of a successful purchase. For a surprise case
// Item is the randomly awarded item, while Currency and Cost describe
// what the case itself charged.
type Receipt struct {
	Item     domain.ShopItem
	Currency domain.Currency
	Cost     int
}

// Shop executes purchase transactions against a profile. The item list
// is the immutable shop catalog; rng draws surprise-case awards.
type Shop struct {
	items []domain.ShopItem
	rng   *rand.Rand
}

// NewShop builds a shop over the given catalog items. A nil rng falls
// back to a time-seeded source.
func NewShop(items []domain.ShopItem, rng *rand.Rand) *Shop {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Shop{items: items, rng: rng}
}

// Items returns the catalog in definition order.
func (s *Shop) Items() []domain.ShopItem { return s.items }

// Item looks up a catalog entry by id.
func (s *Shop) Item(id string) (*domain.ShopItem, bool) {
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i], true
		}
	}
	return nil, false
}

// Purchase validates and executes a transaction. The currency comes from
// the item's price field; useXP selects experience for dual-priced
// items. Rejections (unknown item, already owned, insufficient funds)
// leave the profile untouched. The debit and the ownership record land
// together or not at all.
func (s *Shop) Purchase(p *domain.Profile, itemID string, useXP bool) (*Receipt, error) {
	item, ok := s.Item(itemID)
	if !ok {
		return nil, domain.ErrItemNotFound
	}

	if item.Kind == domain.ItemKindSurpriseCase {
		return s.openSurpriseCase(p, item)
	}

	if p.Owns(item.ID) {
		return nil, domain.ErrAlreadyOwned
	}

	currency := item.Currency()
	if useXP && item.XPPrice > 0 {
		currency = domain.CurrencyXP
	}
	cost := item.Cost(currency)
	if err := debit(p, currency, cost); err != nil {
		return nil, err
	}
	p.OwnedItems = append(p.OwnedItems, domain.OwnedItem{ItemID: item.ID})
	p.UpdatedAt = time.Now()
	return &Receipt{Item: *item, Currency: currency, Cost: cost}, nil
}

// openSurpriseCase charges the case's points price and records a
// uniformly drawn unowned points-priced item. The case itself is never
// recorded, so it stays purchasable.
func (s *Shop) openSurpriseCase(p *domain.Profile, item *domain.ShopItem) (*Receipt, error) {
	pool := s.surprisePool(p)
	if len(pool) == 0 {
		return nil, domain.ErrItemNotFound
	}
	if err := debit(p, domain.CurrencyPoints, item.Price); err != nil {
		return nil, err
	}
	won := pool[s.rng.Intn(len(pool))]
	p.OwnedItems = append(p.OwnedItems, domain.OwnedItem{ItemID: won.ID})
	p.UpdatedAt = time.Now()
	return &Receipt{Item: won, Currency: domain.CurrencyPoints, Cost: item.Price}, nil
}

func (s *Shop) surprisePool(p *domain.Profile) []domain.ShopItem {
	var pool []domain.ShopItem
	for _, it := range s.items {
		if it.Kind == domain.ItemKindSurpriseCase || it.Currency() != domain.CurrencyPoints {
			continue
		}
		if !p.Owns(it.ID) {
			pool = append(pool, it)
		}
	}
	return pool
}

func debit(p *domain.Profile, currency domain.Currency, cost int) error {
	switch currency {
	case domain.CurrencyXP:
		if p.Experience < cost {
			return domain.ErrInsufficientFunds
		}
		p.Experience -= cost
	default:
		if p.Points < cost {
			return domain.ErrInsufficientFunds
		}
		p.Points -= cost
	}
	return nil
}

// Message renders the user-facing outcome of a purchase attempt.
// Transaction rejections are informational, never fatal.
func Message(receipt *Receipt, err error) string {
	switch err {
	case nil:
		return fmt.Sprintf("Віншуем! %s %s", receipt.Item.Icon, receipt.Item.Name)
	case domain.ErrAlreadyOwned:
		return "Гэты тавар ужо куплены"
	case domain.ErrInsufficientFunds:
		return "Недастаткова сродкаў"
	default:
		return "Пакупка не ўдалася"
	}
}
