package catalog

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/YelzhanWeb/sous/internal/domain"
)

//go:embed data/menu.yaml
var menuYAML []byte

//go:embed data/strings.yaml
var stringsYAML []byte

type categoryEntry struct {
	domain.Category `yaml:",inline"`
	Dishes          []domain.Dish `yaml:"dishes"`
}

type languageMenu struct {
	categories []domain.Category
	dishes     map[string][]domain.Dish
	all        []domain.Dish
	byID       map[string]domain.Dish
}

// Catalog is an immutable, in-memory menu and translation table.
type Catalog struct {
	menus   map[domain.Language]*languageMenu
	strings map[domain.Language]domain.Strings
}

// Load parses the menu and translations compiled into the binary.
func Load() (*Catalog, error) {
	return Parse(menuYAML, stringsYAML)
}

// Parse builds a catalog from YAML documents. Every supported language
// must have a non-empty menu and every required translation key.
func Parse(menuData, stringsData []byte) (*Catalog, error) {
	var rawMenu map[domain.Language][]categoryEntry
	if err := yaml.Unmarshal(menuData, &rawMenu); err != nil {
		return nil, fmt.Errorf("failed to parse menu: %w", err)
	}

	var rawStrings map[domain.Language]domain.Strings
	if err := yaml.Unmarshal(stringsData, &rawStrings); err != nil {
		return nil, fmt.Errorf("failed to parse translations: %w", err)
	}

	c := &Catalog{
		menus:   make(map[domain.Language]*languageMenu, len(domain.Languages)),
		strings: make(map[domain.Language]domain.Strings, len(domain.Languages)),
	}

	for _, lang := range domain.Languages {
		menu, err := buildMenu(rawMenu[lang])
		if err != nil {
			return nil, fmt.Errorf("menu %s: %w", lang, err)
		}
		c.menus[lang] = menu

		s := rawStrings[lang]
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("translations %s: %w", lang, err)
		}
		c.strings[lang] = s
	}

	return c, nil
}

func buildMenu(entries []categoryEntry) (*languageMenu, error) {
	if len(entries) == 0 {
		return nil, errors.New("no categories")
	}

	m := &languageMenu{
		dishes: make(map[string][]domain.Dish, len(entries)),
		byID:   make(map[string]domain.Dish),
	}

	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("category %q has no name", e.ID)
		}
		if _, dup := m.dishes[e.Name]; dup {
			return nil, fmt.Errorf("duplicate category %q", e.Name)
		}
		for _, d := range e.Dishes {
			if d.ID == "" || d.Price <= 0 {
				return nil, fmt.Errorf("invalid dish %q in %q", d.ID, e.Name)
			}
			if _, dup := m.byID[d.ID]; dup {
				return nil, fmt.Errorf("duplicate dish id %q", d.ID)
			}
			m.byID[d.ID] = d
		}
		m.categories = append(m.categories, e.Category)
		m.dishes[e.Name] = e.Dishes
		m.all = append(m.all, e.Dishes...)
	}

	return m, nil
}

func (c *Catalog) menu(lang domain.Language) *languageMenu {
	if m, ok := c.menus[lang]; ok {
		return m
	}
	return &languageMenu{}
}

func (c *Catalog) Categories(lang domain.Language) []domain.Category {
	return append([]domain.Category(nil), c.menu(lang).categories...)
}

// Dishes returns the dishes of the category with the given display name.
func (c *Catalog) Dishes(lang domain.Language, category string) []domain.Dish {
	return append([]domain.Dish(nil), c.menu(lang).dishes[category]...)
}

// AllDishes flattens the menu in category order.
func (c *Catalog) AllDishes(lang domain.Language) []domain.Dish {
	return append([]domain.Dish(nil), c.menu(lang).all...)
}

func (c *Catalog) FindDish(lang domain.Language, id string) (domain.Dish, bool) {
	d, ok := c.menu(lang).byID[id]
	return d, ok
}

func (c *Catalog) Strings(lang domain.Language) domain.Strings {
	return c.strings[lang]
}
