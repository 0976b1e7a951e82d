package domain

// Currency is one of the two independent balances items may be priced in.
type Currency string

const (
	CurrencyPoints Currency = "points"
	CurrencyXP     Currency = "xp"
)

// ItemKind distinguishes ordinary items from the surprise case, which is
// bought with points and awards a random unowned points-priced item.
type ItemKind string

const (
	ItemKindStandard     ItemKind = "standard"
	ItemKindSurpriseCase ItemKind = "surprise-case"
)

// ShopItem is a purchasable catalog entry. An item is payable in exactly
// one currency: either Price (points) or XPPrice (experience) is set.
type ShopItem struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Kind        ItemKind
	Price       int // points currency; 0 when XP-priced
	XPPrice     int // experience currency; 0 when points-priced
}

// Currency returns the currency the item is payable in.
func (i *ShopItem) Currency() Currency {
	if i.XPPrice > 0 && i.Price == 0 {
		return CurrencyXP
	}
	return CurrencyPoints
}

// Cost returns the price in the given currency, or 0 if the item is not
// payable in it.
func (i *ShopItem) Cost(c Currency) int {
	switch c {
	case CurrencyPoints:
		return i.Price
	case CurrencyXP:
		return i.XPPrice
	}
	return 0
}
