package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	applog "coffeeshop/internal/log"
	"coffeeshop/models"
)

var (
	// ErrNotFound is returned when no drink has the requested id.
	ErrNotFound = errors.New("drink not found")
	// ErrDuplicateTitle is returned when another drink already uses the title.
	ErrDuplicateTitle = errors.New("drink title already exists")
)

// Error wraps an unexpected storage fault with the operation that hit it.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Drinks is the persistence layer for drink records. Every method touches a
// single row or a single read of the table.
type Drinks struct {
	db *gorm.DB
}

// NewDrinks builds a Drinks store on top of a migrated gorm handle.
func NewDrinks(db *gorm.DB) *Drinks {
	return &Drinks{db: db}
}

// ListAll returns every drink ordered by id.
func (s *Drinks) ListAll(ctx context.Context) ([]models.Drink, error) {
	if s.db == nil {
		return nil, &Error{Op: "list", Err: gorm.ErrInvalidDB}
	}

	var drinks []models.Drink
	if err := s.db.WithContext(ctx).Order("id asc").Find(&drinks).Error; err != nil {
		return nil, translate("list", err)
	}
	return drinks, nil
}

// FindByID loads a single drink.
func (s *Drinks) FindByID(ctx context.Context, id uint) (models.Drink, error) {
	if s.db == nil {
		return models.Drink{}, &Error{Op: "find", Err: gorm.ErrInvalidDB}
	}

	var drink models.Drink
	if err := s.db.WithContext(ctx).First(&drink, id).Error; err != nil {
		return models.Drink{}, translate("find", err)
	}
	return drink, nil
}

// Insert stores a new drink and assigns its ID.
func (s *Drinks) Insert(ctx context.Context, drink *models.Drink) error {
	if s.db == nil {
		return &Error{Op: "insert", Err: gorm.ErrInvalidDB}
	}

	drink.ID = 0
	if drink.Recipe == nil {
		drink.Recipe = models.Recipe{}
	}
	if err := s.db.WithContext(ctx).Create(drink).Error; err != nil {
		return translate("insert", err)
	}
	applog.Debug(ctx, "drink inserted", "id", drink.ID, "title", drink.Title)
	return nil
}

// UpdateTitle renames a drink in a single statement and returns the stored
// row. A drink that no longer exists reports ErrNotFound.
func (s *Drinks) UpdateTitle(ctx context.Context, id uint, title string) (models.Drink, error) {
	if s.db == nil {
		return models.Drink{}, &Error{Op: "update", Err: gorm.ErrInvalidDB}
	}

	drink := models.Drink{ID: id}
	result := s.db.WithContext(ctx).Model(&drink).Clauses(clause.Returning{}).Update("title", title)
	if result.Error != nil {
		return models.Drink{}, translate("update", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.Drink{}, ErrNotFound
	}
	drink.Title = title
	applog.Debug(ctx, "drink title updated", "id", id, "title", title)
	return drink, nil
}

// Delete removes a drink. Deleting an id that no longer exists reports ErrNotFound.
func (s *Drinks) Delete(ctx context.Context, id uint) error {
	if s.db == nil {
		return &Error{Op: "delete", Err: gorm.ErrInvalidDB}
	}

	result := s.db.WithContext(ctx).Delete(&models.Drink{}, id)
	if result.Error != nil {
		return translate("delete", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	applog.Debug(ctx, "drink deleted", "id", id)
	return nil
}

func translate(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateTitle
	}
	return &Error{Op: op, Err: err}
}
