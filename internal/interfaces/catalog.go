package interfaces

import "github.com/YelzhanWeb/sous/internal/domain"

// Catalog supplies categories and dishes per language. Category order is
// significant and must be stable.
type Catalog interface {
	Categories(lang domain.Language) []domain.Category
	Dishes(lang domain.Language, category string) []domain.Dish
	AllDishes(lang domain.Language) []domain.Dish
	FindDish(lang domain.Language, id string) (domain.Dish, bool)
}

type Translations interface {
	Strings(lang domain.Language) domain.Strings
}
