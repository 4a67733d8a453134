package cart

import "github.com/lojinha/storefront-backend/internal/catalog"

// Line is one product plus its requested quantity. A line is removed
// entirely rather than kept at quantity zero.
type Line struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// State holds the cart lines in insertion order, at most one line per
// product id, and the derived total. The total is always recomputed from
// the lines, never stored independently, so it cannot drift.
type State struct {
	Lines []Line `json:"items"`
	Total int64  `json:"total"`
}

// AddItem appends a new line with quantity 1, or increments the existing
// line for the same product id.
func (s *State) AddItem(p catalog.Product) {
	for i := range s.Lines {
		if s.Lines[i].Product.ID == p.ID {
			s.Lines[i].Quantity++
			s.recomputeTotal()
			return
		}
	}
	s.Lines = append(s.Lines, Line{Product: p, Quantity: 1})
	s.recomputeTotal()
}

// UpdateQuantity sets the quantity of the line for productID. Anything
// below 1 removes the line.
func (s *State) UpdateQuantity(productID string, quantity int) {
	if quantity < 1 {
		s.RemoveItem(productID)
		return
	}
	for i := range s.Lines {
		if s.Lines[i].Product.ID == productID {
			s.Lines[i].Quantity = quantity
			break
		}
	}
	s.recomputeTotal()
}

// RemoveItem deletes the line if present; no-op otherwise.
func (s *State) RemoveItem(productID string) {
	for i := range s.Lines {
		if s.Lines[i].Product.ID == productID {
			s.Lines = append(s.Lines[:i], s.Lines[i+1:]...)
			break
		}
	}
	s.recomputeTotal()
}

// Clear empties all lines.
func (s *State) Clear() {
	s.Lines = nil
	s.recomputeTotal()
}

func (s State) Empty() bool { return len(s.Lines) == 0 }

func (s *State) recomputeTotal() {
	var total int64
	for _, l := range s.Lines {
		total += l.Product.Price * int64(l.Quantity)
	}
	s.Total = total
}

// snapshot returns a deep-enough copy for handing out of the service: the
// line slice is copied so callers cannot mutate the owned state.
func (s *State) snapshot() State {
	lines := make([]Line, len(s.Lines))
	copy(lines, s.Lines)
	return State{Lines: lines, Total: s.Total}
}
