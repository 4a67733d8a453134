// Package checkout drives the multi-step checkout: a linear step sequence
// gated by per-step validation, seeded from the cart and handed to the
// payment orchestrator on the final step.
package checkout

import (
	"context"
	"errors"

	"github.com/lojinha/storefront-backend/internal/cart"
	"github.com/lojinha/storefront-backend/internal/forms"
	"github.com/lojinha/storefront-backend/internal/places"
)

// ErrSubmitInFlight is returned while a previous submission is still
// running; exactly one submission may be in flight at a time.
var ErrSubmitInFlight = errors.New("uma solicitação de pagamento já está em andamento")

// Submitter hands the validated form and the cart snapshot to the payment
// orchestrator and returns the provider's payment URL.
type Submitter interface {
	Submit(ctx context.Context, owner string, form FormData, snapshot cart.State) (string, error)
}

// Address are the normalized address fields collected during checkout.
type Address struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`
	Country      string `json:"country"`
}

// FormData is the customer data collected during checkout. It lives only
// for the duration of the flow and is discarded when checkout completes or
// the cart empties.
type FormData struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	TaxID   string  `json:"taxId"`
	Address Address `json:"address"`
}

// Controller is the step state machine. Steps are fixed at construction:
// either [personal, address, payment] or, in the merged variant,
// [personal+address, payment].
type Controller struct {
	labels []string
	steps  []*forms.Form
	step   int
}

func NewController(mergeSteps bool) *Controller {
	if mergeSteps {
		return &Controller{
			labels: []string{"Dados Pessoais e Endereço", "Pagamento"},
			steps: []*forms.Form{
				forms.New(forms.Merge(forms.PersonalSchema(), forms.AddressSchema())),
				forms.New(forms.Schema{}),
			},
		}
	}
	return &Controller{
		labels: []string{"Dados Pessoais", "Endereço", "Pagamento"},
		steps: []*forms.Form{
			forms.New(forms.PersonalSchema()),
			forms.New(forms.AddressSchema()),
			forms.New(forms.Schema{}),
		},
	}
}

func (c *Controller) Step() int        { return c.step }
func (c *Controller) Labels() []string { return c.labels }

// AtPaymentStep reports whether the controller reached the final step,
// where the forward action is submit rather than next.
func (c *Controller) AtPaymentStep() bool { return c.step == len(c.steps)-1 }

// Change routes a field change to the form that governs the field, applying
// the field's transform and, for touched fields, re-validating. It returns
// the stored (formatted) value and the field's current error.
func (c *Controller) Change(name, value string) (string, string) {
	for _, f := range c.steps {
		if f.Has(name) {
			f.Change(name, value)
			return f.Value(name), f.Error(name)
		}
	}
	return value, ""
}

// Blur marks the field touched and validates it, returning the current
// error message.
func (c *Controller) Blur(name string) string {
	for _, f := range c.steps {
		if f.Has(name) {
			f.Blur(name)
			return f.Error(name)
		}
	}
	return ""
}

// Next validates the current step's schema in full. With zero errors the
// controller advances one step; otherwise it stays put and returns the
// error map. The final step never advances: its forward action is submit.
func (c *Controller) Next() (bool, map[string]string) {
	if c.AtPaymentStep() {
		return false, nil
	}
	if errs := c.steps[c.step].ValidateAll(); len(errs) > 0 {
		return false, errs
	}
	c.step++
	return true, nil
}

// Back moves one step back without validating; disabled at step 0.
func (c *Controller) Back() bool {
	if c.step == 0 {
		return false
	}
	c.step--
	return true
}

// ValidateAll runs the full validation of every step, as done right before
// submission.
func (c *Controller) ValidateAll() map[string]string {
	out := make(map[string]string)
	for _, f := range c.steps {
		for name, msg := range f.ValidateAll() {
			out[name] = msg
		}
	}
	return out
}

// Errors returns the current error map across all steps.
func (c *Controller) Errors() map[string]string {
	out := make(map[string]string)
	for _, f := range c.steps {
		for name, msg := range f.Errors() {
			out[name] = msg
		}
	}
	return out
}

// Values returns the current field values across all steps.
func (c *Controller) Values() map[string]string {
	out := make(map[string]string)
	for _, f := range c.steps {
		for name, v := range f.Values() {
			out[name] = v
		}
	}
	return out
}

// ApplyAddress merges a resolved place into the address fields. Values are
// set as-is; validation still happens on blur and submission.
func (c *Controller) ApplyAddress(addr places.Address) {
	fields := map[string]string{
		"street":       addr.Street,
		"number":       addr.Number,
		"complement":   addr.Complement,
		"neighborhood": addr.Neighborhood,
		"city":         addr.City,
		"state":        addr.State,
		"zipCode":      forms.FormatCEP(addr.ZipCode),
		"country":      addr.Country,
	}
	for _, f := range c.steps {
		for name, v := range fields {
			if f.Has(name) {
				f.Set(name, v)
			}
		}
	}
}

// FormData assembles the collected values into the typed form handed to the
// payment orchestrator.
func (c *Controller) FormData() FormData {
	v := c.Values()
	return FormData{
		Name:  v["name"],
		Email: v["email"],
		Phone: v["phone"],
		TaxID: v["taxId"],
		Address: Address{
			Street:       v["street"],
			Number:       v["number"],
			Complement:   v["complement"],
			Neighborhood: v["neighborhood"],
			City:         v["city"],
			State:        v["state"],
			ZipCode:      v["zipCode"],
			Country:      v["country"],
		},
	}
}
