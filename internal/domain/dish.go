package domain

// Dish is a catalog entry. Price is in whole currency units.
type Dish struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Price       int    `json:"price" yaml:"price"`
	Time        string `json:"time" yaml:"time"`
	Image       string `json:"img" yaml:"img"`
	Description string `json:"desc" yaml:"desc"`
}

type Category struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Emoji string `json:"emoji" yaml:"emoji"`
}
