package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/httprate"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tcgdecks/api/pkg/auth"
	"github.com/tcgdecks/api/pkg/database"
	"github.com/tcgdecks/api/pkg/models"
)

type AuthRoutes struct {
	db     *gorm.DB
	tokens *auth.TokenManager
}

func NewAuthRoutes(db *gorm.DB, tokens *auth.TokenManager) *AuthRoutes {
	return &AuthRoutes{
		db:     db,
		tokens: tokens,
	}
}

func (ar AuthRoutes) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(20, 1*time.Minute))

		r.Post("/sign-up", ar.SignUp)
		r.Post("/sign-in", ar.SignIn)
	})

	return r
}

type (
	SignUpPayload struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	SignInPayload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	AuthUser struct {
		ID    uint   `json:"id,omitempty"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	AuthResponse struct {
		Message string   `json:"message"`
		Token   string   `json:"token"`
		User    AuthUser `json:"user"`
	}
)

// isUniqueViolation reports whether err is a postgres unique-index violation.
func isUniqueViolation(err error) bool {
	var e *pgconn.PgError
	return errors.As(err, &e) && e.Code == "23505"
}

func (ar AuthRoutes) SignUp(w http.ResponseWriter, r *http.Request) {
	var pl SignUpPayload
	if err := json.NewDecoder(r.Body).Decode(&pl); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write(models.CreateError("invalid request body"))
		return
	}

	if len(pl.Username) == 0 || len(pl.Email) == 0 || len(pl.Password) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		w.Write(models.CreateError("missing required fields"))
		return
	}

	existing, err := database.FindUserByEmail(ar.db, pl.Email)
	if err != nil {
		fmt.Printf("failed to look up user by email: %v\n", err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write(models.CreateError("internal server error"))
		return
	}

	if existing == nil {
		existing, err = database.FindUserByUsername(ar.db, pl.Username)
		if err != nil {
			fmt.Printf("failed to look up user by username: %v\n", err)
			w.WriteHeader(http.StatusInternalServerError)
			w.Write(models.CreateError("internal server error"))
			return
		}
	}

	if existing != nil {
		w.WriteHeader(http.StatusConflict)
		w.Write(models.CreateError("user already exists"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pl.Password), bcrypt.DefaultCost)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write(models.CreateError("internal server error"))
		return
	}

	user := database.User{
		Username: pl.Username,
		Email:    pl.Email,
		Password: string(hash),
	}

	res := ar.db.Create(&user)
	if res.Error != nil {
		// A concurrent sign-up can slip past the lookup; the unique index
		// reports it as 23505.
		if isUniqueViolation(res.Error) {
			w.WriteHeader(http.StatusConflict)
			w.Write(models.CreateError("user already exists"))
			return
		}

		fmt.Printf("failed to create user: %v\n", res.Error)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write(models.CreateError("internal server error"))
		return
	}

	token, err := ar.tokens.Issue(user.ID, user.Email)
	if err != nil {
		fmt.Printf("failed to issue token: %v\n", err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write(models.CreateError("internal server error"))
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		Message: "user created successfully",
		Token:   token,
		User: AuthUser{
			ID:    user.ID,
			Name:  user.Username,
			Email: user.Email,
		},
	})
}

func (ar AuthRoutes) SignIn(w http.ResponseWriter, r *http.Request) {
	var pl SignInPayload
	if err := json.NewDecoder(r.Body).Decode(&pl); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write(models.CreateError("invalid request body"))
		return
	}

	if len(pl.Email) == 0 || len(pl.Password) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		w.Write(models.CreateError("missing required fields"))
		return
	}

	user, err := database.FindUserByEmail(ar.db, pl.Email)
	if err != nil {
		fmt.Printf("failed to look up user by email: %v\n", err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write(models.CreateError("internal server error"))
		return
	}

	// Unknown email and wrong password answer identically.
	if user == nil {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write(models.CreateError("invalid email or password"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(pl.Password)); err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write(models.CreateError("invalid email or password"))
		return
	}

	token, err := ar.tokens.Issue(user.ID, user.Email)
	if err != nil {
		fmt.Printf("failed to issue token: %v\n", err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write(models.CreateError("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Message: "signed in successfully",
		Token:   token,
		User: AuthUser{
			Name:  user.Username,
			Email: user.Email,
		},
	})
}
