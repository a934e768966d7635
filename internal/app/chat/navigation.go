package chat

import (
	"fmt"

	"github.com/YelzhanWeb/sous/internal/domain"
)

// NextCategories returns up to count categories following current in
// catalog order, wrapping past the end. An unknown current starts from
// the first category.
func NextCategories(categories []domain.Category, current string, count int) []domain.Category {
	n := len(categories)
	if n == 0 || count <= 0 {
		return nil
	}
	if count > n {
		count = n
	}

	idx := -1
	for i, c := range categories {
		if c.Name == current {
			idx = i
			break
		}
	}

	next := make([]domain.Category, 0, count)
	for i := 1; i <= count; i++ {
		next = append(next, categories[(idx+i)%n])
	}
	return next
}

// Recommend returns the first count dishes of the flattened catalog.
func Recommend(dishes []domain.Dish, count int) []domain.Dish {
	if count > len(dishes) {
		count = len(dishes)
	}
	if count <= 0 {
		return nil
	}
	return append([]domain.Dish(nil), dishes[:count]...)
}

// Upsell returns the first count dishes that are not already in the cart.
func Upsell(dishes []domain.Dish, cart *domain.Cart, count int) []domain.Dish {
	var out []domain.Dish
	for _, d := range dishes {
		if len(out) >= count {
			break
		}
		if cart.Quantity(d.ID) > 0 {
			continue
		}
		out = append(out, d)
	}
	return out
}

func (s *Service) nextCategoryActions(current string) []domain.Action {
	next := NextCategories(s.catalog.Categories(s.language), current, s.opts.NextCategoryCount)

	actions := make([]domain.Action, 0, len(next))
	for _, c := range next {
		label := fmt.Sprintf("%s %s %s", s.t(domain.KeyShow), c.Name, c.Emoji)
		actions = append(actions, domain.NewAction(label, domain.SelectCategoryDirect{Category: c.Name}))
	}
	return actions
}

func (s *Service) recommendations() []domain.Dish {
	return Recommend(s.catalog.AllDishes(s.language), s.opts.RecommendationCount)
}
