package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"coffeeshop/internal/auth"
	applog "coffeeshop/internal/log"
	"coffeeshop/internal/store"
	"coffeeshop/models"
)

const maxBodyBytes = 1 << 20

// DrinkStore is the persistence contract the drink handlers rely on.
type DrinkStore interface {
	ListAll(ctx context.Context) ([]models.Drink, error)
	FindByID(ctx context.Context, id uint) (models.Drink, error)
	Insert(ctx context.Context, drink *models.Drink) error
	UpdateTitle(ctx context.Context, id uint, title string) (models.Drink, error)
	Delete(ctx context.Context, id uint) error
}

// Drinks serves the drink endpoints. Authorization happens before these
// handlers run.
type Drinks struct {
	store DrinkStore
}

// NewDrinks wires the drink handlers to a store.
func NewDrinks(s DrinkStore) *Drinks {
	return &Drinks{store: s}
}

type drinksResponse[T any] struct {
	Success bool `json:"success"`
	Drinks  []T  `json:"drinks"`
}

type deleteResponse struct {
	Success bool `json:"success"`
	Delete  uint `json:"delete"`
}

type createDrinkRequest struct {
	Title  *string       `json:"title"`
	Recipe models.Recipe `json:"recipe"`
}

type updateDrinkRequest struct {
	Title *string `json:"title"`
}

// List handles GET /drinks with the short projection.
func (h *Drinks) List(w http.ResponseWriter, r *http.Request) {
	drinks, err := h.store.ListAll(r.Context())
	if err != nil {
		RespondError(w, r, err)
		return
	}

	out := make([]models.ShortDrink, 0, len(drinks))
	for _, drink := range drinks {
		out = append(out, drink.Short())
	}
	writeJSON(w, r, http.StatusOK, drinksResponse[models.ShortDrink]{Success: true, Drinks: out})
}

// ListDetail handles GET /drinks-detail with the long projection.
func (h *Drinks) ListDetail(w http.ResponseWriter, r *http.Request) {
	drinks, err := h.store.ListAll(r.Context())
	if err != nil {
		RespondError(w, r, err)
		return
	}

	out := make([]models.LongDrink, 0, len(drinks))
	for _, drink := range drinks {
		out = append(out, drink.Long())
	}
	writeJSON(w, r, http.StatusOK, drinksResponse[models.LongDrink]{Success: true, Drinks: out})
}

// Create handles POST /drinks.
func (h *Drinks) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload createDrinkRequest
	if err := decodeBody(w, r, &payload); err != nil {
		applog.Debug(ctx, "invalid drink create payload", "error", err)
		RespondError(w, r, err)
		return
	}

	if payload.Title == nil {
		RespondError(w, r, unprocessable("title is required"))
		return
	}
	title := models.NormalizeTitle(*payload.Title)
	if err := models.ValidateTitle(title); err != nil {
		RespondError(w, r, unprocessable("%v", err))
		return
	}
	if err := payload.Recipe.Validate(); err != nil {
		RespondError(w, r, unprocessable("%v", err))
		return
	}

	drink := models.Drink{Title: title, Recipe: payload.Recipe}
	if err := h.store.Insert(ctx, &drink); err != nil {
		RespondError(w, r, err)
		return
	}

	applog.Info(ctx, "drink created", "id", drink.ID, "title", drink.Title, "subject", subject(ctx))
	writeJSON(w, r, http.StatusOK, drinksResponse[models.LongDrink]{Success: true, Drinks: []models.LongDrink{drink.Long()}})
}

// Update handles PATCH /drinks/{id}. Only the title can change.
func (h *Drinks) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := drinkID(r)
	if !ok {
		NotFound(w, r)
		return
	}

	if _, err := h.store.FindByID(ctx, id); err != nil {
		RespondError(w, r, err)
		return
	}

	var payload updateDrinkRequest
	if err := decodeBody(w, r, &payload); err != nil {
		applog.Debug(ctx, "invalid drink update payload", "error", err, "id", id)
		RespondError(w, r, err)
		return
	}
	if payload.Title == nil {
		RespondError(w, r, unprocessable("title is required"))
		return
	}
	title := models.NormalizeTitle(*payload.Title)
	if err := models.ValidateTitle(title); err != nil {
		RespondError(w, r, unprocessable("%v", err))
		return
	}

	drink, err := h.store.UpdateTitle(ctx, id, title)
	if err != nil {
		RespondError(w, r, err)
		return
	}

	applog.Info(ctx, "drink renamed", "id", drink.ID, "title", drink.Title, "subject", subject(ctx))
	writeJSON(w, r, http.StatusOK, drinksResponse[models.LongDrink]{Success: true, Drinks: []models.LongDrink{drink.Long()}})
}

// Delete handles DELETE /drinks/{id}.
func (h *Drinks) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := drinkID(r)
	if !ok {
		NotFound(w, r)
		return
	}

	if err := h.store.Delete(ctx, id); err != nil {
		RespondError(w, r, err)
		return
	}

	applog.Info(ctx, "drink deleted", "id", id, "subject", subject(ctx))
	writeJSON(w, r, http.StatusOK, deleteResponse{Success: true, Delete: id})
}

// subject names the caller recorded by the permission middleware.
func subject(ctx context.Context) string {
	if claims, ok := auth.ClaimsFromContext(ctx); ok && claims.Subject != "" {
		return claims.Subject
	}
	return "anonymous"
}

func drinkID(r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	value, err := strconv.ParseUint(raw, 10, 63)
	if err != nil || value == 0 {
		applog.Debug(r.Context(), "invalid drink identifier", "identifier", raw)
		return 0, false
	}
	return uint(value), true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return unprocessable("request body is required")
		}
		return unprocessable("invalid request payload: %v", err)
	}
	return nil
}

var _ DrinkStore = (*store.Drinks)(nil)
