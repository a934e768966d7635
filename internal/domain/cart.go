package domain

// CartLine is a dish with a positive quantity.
type CartLine struct {
	Dish
	Quantity int `json:"qty"`
}

// Subtotal returns price multiplied by quantity.
func (l CartLine) Subtotal() int {
	return l.Price * l.Quantity
}

// Cart keeps at most one line per dish id, in insertion order.
// The zero value is an empty cart.
type Cart struct {
	lines []CartLine
}

// Add increments the line for d or appends a new line with quantity 1.
func (c *Cart) Add(d Dish) {
	for i := range c.lines {
		if c.lines[i].ID == d.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, CartLine{Dish: d, Quantity: 1})
}

// Remove takes one unit of dishID away. The line disappears when its
// last unit is removed; unknown ids are ignored.
func (c *Cart) Remove(dishID string) {
	for i := range c.lines {
		if c.lines[i].ID != dishID {
			continue
		}
		if c.lines[i].Quantity > 1 {
			c.lines[i].Quantity--
			return
		}
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		return
	}
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the cart lines.
func (c *Cart) Lines() []CartLine {
	if len(c.lines) == 0 {
		return nil
	}
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Quantity(dishID string) int {
	for _, l := range c.lines {
		if l.ID == dishID {
			return l.Quantity
		}
	}
	return 0
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) TotalCount() int {
	total := 0
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

func (c *Cart) TotalPrice() int {
	return TotalPrice(c.lines)
}

// TotalPrice sums price times quantity over lines.
func TotalPrice(lines []CartLine) int {
	total := 0
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}
