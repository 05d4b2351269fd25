package routes

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"gorm.io/gorm"

	"github.com/tcgdecks/api/pkg/auth"
	"github.com/tcgdecks/api/pkg/database"
	"github.com/tcgdecks/api/pkg/models"
)

const DECK_SIZE = 10

type DeckRoutes struct {
	db     *gorm.DB
	tokens *auth.TokenManager
}

func NewDeckRoutes(db *gorm.DB, tokens *auth.TokenManager) *DeckRoutes {
	return &DeckRoutes{
		db:     db,
		tokens: tokens,
	}
}

func (dr DeckRoutes) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(dr.tokens.RequireAuth)

		r.Post("/", dr.CreateDeck)
		r.Get("/mine", dr.ListMine)
		r.Get("/{id}", dr.GetDeck)
		r.Patch("/{id}", dr.PatchDeck)
		r.Delete("/{id}", dr.DeleteDeck)
	})

	return r
}

type (
	CreateDeckPayload struct {
		Name  string `json:"name"`
		Cards []uint `json:"cards"`
	}

	PatchDeckPayload struct {
		Name  *string `json:"name"`
		Cards []uint  `json:"cards"`
	}

	DeleteDeckResponse struct {
		Message string `json:"message"`
	}
)

// resolvedCount counts how many of the supplied ids exist in the catalog,
// per occurrence. Duplicates are deliberately not collapsed: ten copies of
// one existing card count as ten.
func (dr DeckRoutes) resolvedCount(ids []uint) (int, error) {
	found, err := database.FindCardsByIDs(dr.db, ids)
	if err != nil {
		return 0, err
	}

	exists := make(map[uint]bool, len(found))
	for _, card := range found {
		exists[card.ID] = true
	}

	count := 0
	for _, id := range ids {
		if exists[id] {
			count++
		}
	}

	return count, nil
}

// lookupOwned loads the deck and enforces the existence-then-ownership
// order: a missing deck answers 404 before any ownership concern, a deck
// owned by someone else answers 403. Returns nil after writing the failure.
func (dr DeckRoutes) lookupOwned(w http.ResponseWriter, r *http.Request) *database.Deck {
	deckID, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		w.Write(models.CreateError("deck not found"))
		return nil
	}

	deck, err := database.FindDeckByID(dr.db, uint(deckID))
	if err != nil {
		fmt.Printf("failed to load deck %d: %v\n", deckID, err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write(models.CreateError("internal server error"))
		return nil
	}

	if deck == nil {
		w.WriteHeader(http.StatusNotFound)
		w.Write(models.CreateError("deck not found"))
		return nil
	}

	claims := auth.ClaimsFromContext(r.Context())
	if deck.UserID != claims.UserID {
		w.WriteHeader(http.StatusForbidden)
		w.Write(models.CreateError("access to this deck denied"))
		return nil
	}

	return deck
}

func (dr DeckRoutes) CreateDeck(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	var pl CreateDeckPayload
	if err := json.NewDecoder(r.Body).Decode(&pl); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write(models.CreateError("invalid request body"))
		return
	}

	if len(pl.Name) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		w.Write(models.CreateError("deck name is required"))
		return
	}

	if len(pl.Cards) != DECK_SIZE {
		w.WriteHeader(http.StatusBadRequest)
		w.Write(models.CreateError("deck must contain exactly 10 cards"))
		return
	}

	count, err := dr.resolvedCount(pl.Cards)
	if err != nil {
		fmt.Printf("failed to resolve cards: %v\n", err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write(models.CreateError("internal server error"))
		return
	}

	if count != DECK_SIZE {
		w.WriteHeader(http.StatusBadRequest)
		w.Write(models.CreateError("one or more cards do not exist"))
		return
	}

	deck, err := database.CreateDeck(dr.db, claims.UserID, pl.Name, pl.Cards)
	if err != nil {
		fmt.Printf("failed to create deck: %v\n", err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write(models.CreateError("internal server error"))
		return
	}

	writeJSON(w, http.StatusCreated, deck)
}

func (dr DeckRoutes) ListMine(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	decks, err := database.FindDecksByUser(dr.db, claims.UserID)
	if err != nil {
		fmt.Printf("failed to list decks: %v\n", err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write(models.CreateError("internal server error"))
		return
	}

	if decks == nil {
		decks = []database.Deck{}
	}

	writeJSON(w, http.StatusOK, decks)
}

func (dr DeckRoutes) GetDeck(w http.ResponseWriter, r *http.Request) {
	deck := dr.lookupOwned(w, r)
	if deck == nil {
		return
	}

	writeJSON(w, http.StatusOK, deck)
}

func (dr DeckRoutes) PatchDeck(w http.ResponseWriter, r *http.Request) {
	deck := dr.lookupOwned(w, r)
	if deck == nil {
		return
	}

	// an empty body is a valid no-op patch
	var pl PatchDeckPayload
	if err := json.NewDecoder(r.Body).Decode(&pl); err != nil && err != io.EOF {
		w.WriteHeader(http.StatusBadRequest)
		w.Write(models.CreateError("invalid request body"))
		return
	}

	if pl.Cards != nil {
		if len(pl.Cards) != DECK_SIZE {
			w.WriteHeader(http.StatusBadRequest)
			w.Write(models.CreateError("deck must contain exactly 10 cards"))
			return
		}

		count, err := dr.resolvedCount(pl.Cards)
		if err != nil {
			fmt.Printf("failed to resolve cards: %v\n", err)
			w.WriteHeader(http.StatusInternalServerError)
			w.Write(models.CreateError("internal server error"))
			return
		}

		if count != DECK_SIZE {
			w.WriteHeader(http.StatusBadRequest)
			w.Write(models.CreateError("some cards are invalid or unknown"))
			return
		}
	}

	updated, err := database.UpdateDeck(dr.db, deck.ID, pl.Name, pl.Cards)
	if err != nil {
		fmt.Printf("failed to update deck %d: %v\n", deck.ID, err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write(models.CreateError("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (dr DeckRoutes) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	deck := dr.lookupOwned(w, r)
	if deck == nil {
		return
	}

	if err := database.DeleteDeck(dr.db, deck.ID); err != nil {
		fmt.Printf("failed to delete deck %d: %v\n", deck.ID, err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write(models.CreateError("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, DeleteDeckResponse{
		Message: "deck deleted successfully",
	})
}
