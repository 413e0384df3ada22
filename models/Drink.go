package models

import "time"

// Drink is a menu item served by the coffee shop. Recipe is persisted as a
// JSON text column; the rest of the application only ever sees the
// structured form.
type Drink struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"type:varchar(80);uniqueIndex;not null" json:"title"`
	Recipe    Recipe    `gorm:"type:text;serializer:json;not null" json:"recipe"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// ShortIngredient is the public view of an ingredient. The name is withheld.
type ShortIngredient struct {
	Color string  `json:"color"`
	Parts float64 `json:"parts"`
}

// ShortDrink is the public projection returned by the unauthenticated listing.
type ShortDrink struct {
	ID     uint              `json:"id"`
	Title  string            `json:"title"`
	Recipe []ShortIngredient `json:"recipe"`
}

// LongDrink is the detailed projection including ingredient names.
type LongDrink struct {
	ID     uint   `json:"id"`
	Title  string `json:"title"`
	Recipe Recipe `json:"recipe"`
}

// Short returns the projection safe for anonymous callers.
func (d Drink) Short() ShortDrink {
	recipe := make([]ShortIngredient, 0, len(d.Recipe))
	for _, ingredient := range d.Recipe {
		recipe = append(recipe, ShortIngredient{Color: ingredient.Color, Parts: ingredient.Parts})
	}
	return ShortDrink{ID: d.ID, Title: d.Title, Recipe: recipe}
}

// Long returns the full projection.
func (d Drink) Long() LongDrink {
	recipe := make(Recipe, len(d.Recipe))
	copy(recipe, d.Recipe)
	return LongDrink{ID: d.ID, Title: d.Title, Recipe: recipe}
}
