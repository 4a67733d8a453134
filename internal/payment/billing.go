// Package payment talks to the payment providers and orchestrates the
// submission step of checkout: one billing request per cart, the cart
// cleared only after the provider hands back a payment URL.
package payment

import (
	"github.com/lojinha/storefront-backend/internal/cart"
	"github.com/lojinha/storefront-backend/internal/checkout"
)

// BillingProduct is one cart line in the shape the billing API expects.
type BillingProduct struct {
	ExternalID  string `json:"externalId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price"`
}

// CustomerCreate carries the customer fields for /customer/create and for
// inline customer creation inside a billing.
type CustomerCreate struct {
	Name      string `json:"name"`
	Cellphone string `json:"cellphone"`
	Email     string `json:"email"`
	TaxID     string `json:"taxId"`
}

// BillingCreate is the /billing/create request body.
type BillingCreate struct {
	Frequency     string           `json:"frequency"`
	Methods       []string         `json:"methods"`
	Products      []BillingProduct `json:"products"`
	ReturnURL     string           `json:"returnUrl"`
	CompletionURL string           `json:"completionUrl"`
	CustomerID    string           `json:"customerId,omitempty"`
	Customer      *CustomerCreate  `json:"customer,omitempty"`
}

// Billing is the provider's answer to a billing creation. URL is where the
// customer pays; an empty URL means the billing is unusable.
type Billing struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Status string `json:"status"`
	Amount int64  `json:"amount"`
}

// Customer is the provider's stored customer record.
type Customer struct {
	ID       string         `json:"id"`
	Metadata CustomerCreate `json:"metadata"`
}

// NewBillingRequest builds a one-time PIX billing from the checkout form and
// the cart snapshot. The return URL points back at the cart so an abandoned
// payment lands the customer where they left off.
func NewBillingRequest(origin string, form checkout.FormData, snapshot cart.State) BillingCreate {
	products := make([]BillingProduct, 0, len(snapshot.Lines))
	for _, line := range snapshot.Lines {
		products = append(products, BillingProduct{
			ExternalID:  line.Product.ID,
			Name:        line.Product.Name,
			Description: line.Product.Description,
			Quantity:    line.Quantity,
			Price:       line.Product.Price,
		})
	}
	return BillingCreate{
		Frequency:     "ONE_TIME",
		Methods:       []string{"PIX"},
		Products:      products,
		ReturnURL:     origin + "/cart",
		CompletionURL: origin + "/success",
		Customer: &CustomerCreate{
			Name:      form.Name,
			Cellphone: form.Phone,
			Email:     form.Email,
			TaxID:     form.TaxID,
		},
	}
}
