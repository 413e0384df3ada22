package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Ingredient is a single entry of a drink recipe. Parts is a relative
// quantity used to draw the drink; Color is the display color.
type Ingredient struct {
	Name  string  `json:"name"`
	Color string  `json:"color"`
	Parts float64 `json:"parts"`
}

// Recipe is the ordered list of ingredients making up a drink.
type Recipe []Ingredient

// UnmarshalJSON accepts either a list of ingredients or a single ingredient
// object, which older clients send for one-ingredient drinks.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
		*r = Recipe{}
		return nil
	case trimmed[0] == '{':
		var single Ingredient
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return err
		}
		*r = Recipe{single}
		return nil
	}

	var list []Ingredient
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return err
	}
	if list == nil {
		list = []Ingredient{}
	}
	*r = list
	return nil
}

// Validate reports the first ingredient that cannot be drawn.
func (r Recipe) Validate() error {
	for i, ingredient := range r {
		if strings.TrimSpace(ingredient.Name) == "" {
			return fmt.Errorf("recipe[%d]: name is required", i)
		}
		if ingredient.Parts <= 0 {
			return fmt.Errorf("recipe[%d]: parts must be greater than zero", i)
		}
	}
	return nil
}

// ErrTitleRequired is returned by ValidateTitle for blank titles.
var ErrTitleRequired = errors.New("title is required")

// NormalizeTitle trims surrounding whitespace from a drink title.
func NormalizeTitle(title string) string {
	return strings.TrimSpace(title)
}

// ValidateTitle ensures a normalized title is usable.
func ValidateTitle(title string) error {
	if NormalizeTitle(title) == "" {
		return ErrTitleRequired
	}
	return nil
}
