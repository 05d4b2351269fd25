package routes

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi"
	"gorm.io/gorm"

	"github.com/tcgdecks/api/pkg/database"
	"github.com/tcgdecks/api/pkg/models"
)

type CardRoutes struct {
	db *gorm.DB
}

func NewCardRoutes(db *gorm.DB) *CardRoutes {
	return &CardRoutes{db: db}
}

func (cr CardRoutes) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", cr.ListCards)

	return r
}

// ListCards is public: the catalog is the same for everyone.
func (cr CardRoutes) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := database.ListCards(cr.db)
	if err != nil {
		fmt.Printf("failed to list cards: %v\n", err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write(models.CreateError("internal server error"))
		return
	}

	if cards == nil {
		cards = []database.Card{}
	}

	writeJSON(w, http.StatusOK, cards)
}
