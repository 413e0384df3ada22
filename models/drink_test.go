package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func sampleDrink() Drink {
	return Drink{
		ID:    7,
		Title: "Flat White",
		Recipe: Recipe{
			{Name: "Espresso", Color: "brown", Parts: 1},
			{Name: "Milk", Color: "white", Parts: 3},
		},
	}
}

func TestShortHidesIngredientNames(t *testing.T) {
	t.Parallel()

	encoded, err := json.Marshal(sampleDrink().Short())
	if err != nil {
		t.Fatalf("marshal short projection: %v", err)
	}
	body := string(encoded)
	if strings.Contains(body, "name") || strings.Contains(body, "Espresso") {
		t.Fatalf("short projection leaked ingredient names: %s", body)
	}
	if !strings.Contains(body, `"color":"brown"`) || !strings.Contains(body, `"parts":3`) {
		t.Fatalf("short projection missing color/parts: %s", body)
	}
}

func TestLongIncludesIngredientNames(t *testing.T) {
	t.Parallel()

	long := sampleDrink().Long()
	if long.ID != 7 || long.Title != "Flat White" {
		t.Fatalf("unexpected long projection header: %+v", long)
	}
	if len(long.Recipe) != 2 || long.Recipe[0].Name != "Espresso" || long.Recipe[1].Name != "Milk" {
		t.Fatalf("long projection lost ingredient names: %+v", long.Recipe)
	}
}

func TestProjectionsOfEmptyRecipeEncodeAsEmptyList(t *testing.T) {
	t.Parallel()

	drink := Drink{ID: 1, Title: "Air"}
	for name, projection := range map[string]any{"short": drink.Short(), "long": drink.Long()} {
		encoded, err := json.Marshal(projection)
		if err != nil {
			t.Fatalf("marshal %s projection: %v", name, err)
		}
		if !strings.Contains(string(encoded), `"recipe":[]`) {
			t.Fatalf("%s projection should encode an empty list, got %s", name, encoded)
		}
	}
}

func TestRecipeUnmarshalAcceptsListAndObject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"list", `[{"name":"Water","color":"blue","parts":1},{"name":"Ice","color":"white","parts":2}]`, 2},
		{"object", `{"name":"Water","color":"blue","parts":1}`, 1},
		{"empty list", `[]`, 0},
		{"null", `null`, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var recipe Recipe
			if err := json.Unmarshal([]byte(tt.input), &recipe); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.input, err)
			}
			if len(recipe) != tt.want {
				t.Fatalf("len(recipe) = %d, want %d", len(recipe), tt.want)
			}
		})
	}
}

func TestRecipeUnmarshalRejectsScalars(t *testing.T) {
	t.Parallel()

	var recipe Recipe
	if err := json.Unmarshal([]byte(`"water"`), &recipe); err == nil {
		t.Fatal("expected error for scalar recipe")
	}
}

func TestRecipeValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		recipe  Recipe
		wantErr bool
	}{
		{"empty", Recipe{}, false},
		{"valid", Recipe{{Name: "Water", Color: "blue", Parts: 1}}, false},
		{"zero parts", Recipe{{Name: "Water", Color: "blue", Parts: 0}}, true},
		{"negative parts", Recipe{{Name: "Water", Color: "blue", Parts: -2}}, true},
		{"missing name", Recipe{{Name: " ", Color: "blue", Parts: 1}}, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := tt.recipe.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %t", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTitle(t *testing.T) {
	t.Parallel()

	if err := ValidateTitle("  Mocha "); err != nil {
		t.Fatalf("ValidateTitle returned %v", err)
	}
	if err := ValidateTitle("   "); err != ErrTitleRequired {
		t.Fatalf("ValidateTitle(blank) = %v, want %v", err, ErrTitleRequired)
	}
	if got := NormalizeTitle("  Mocha "); got != "Mocha" {
		t.Fatalf("NormalizeTitle = %q", got)
	}
}
