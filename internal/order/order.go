// Package order keeps the purchase records created when checkout hands a
// cart to the payment provider, and flips them to paid when the provider
// confirms the payment.
package order

import (
	"time"

	"github.com/lojinha/storefront-backend/internal/cart"
)

const (
	StatusPending = "PENDING"
	StatusPaid    = "PAID"
)

// Item is one purchased line, denormalized from the cart at submission time
// so later catalog edits never rewrite history.
type Item struct {
	ProductID string `bson:"product_id" json:"productId"`
	Name      string `bson:"name" json:"name"`
	Quantity  int    `bson:"quantity" json:"quantity"`
	Price     int64  `bson:"price" json:"price"`
}

// Order is one submitted cart, keyed to the provider billing it produced.
type Order struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Owner     string    `bson:"owner" json:"owner"`
	BillingID string    `bson:"billing_id" json:"billingId"`
	Items     []Item    `bson:"items" json:"items"`
	Total     int64     `bson:"total" json:"total"`
	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// itemsFromCart copies the cart lines into order items.
func itemsFromCart(snapshot cart.State) []Item {
	items := make([]Item, 0, len(snapshot.Lines))
	for _, line := range snapshot.Lines {
		items = append(items, Item{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			Quantity:  line.Quantity,
			Price:     line.Product.Price,
		})
	}
	return items
}
