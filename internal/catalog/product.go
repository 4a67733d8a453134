package catalog

import "time"

// Product is a catalog entry. Prices are integer minor currency units
// (centavos); stock is advisory and never goes negative.
type Product struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Price       int64     `json:"price" bson:"price"`
	ImageURL    string    `json:"imageUrl,omitempty" bson:"image_url,omitempty"`
	Stock       int       `json:"stock" bson:"stock"`
	Category    string    `json:"category" bson:"category"`
	CreatedAt   time.Time `json:"createdAt,omitempty" bson:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty" bson:"updated_at,omitempty"`
}
