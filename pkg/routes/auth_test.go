package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tcgdecks/api/pkg/auth"
	"github.com/tcgdecks/api/pkg/database"
)

func authRouter(db *gorm.DB, tokens *auth.TokenManager) chi.Router {
	r := chi.NewRouter()
	r.Mount("/api/auth", NewAuthRoutes(db, tokens).Routes())
	return r
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSignUpThenSignIn(t *testing.T) {
	db := setupTestDB(t)
	tokens := testTokenManager()
	r := authRouter(db, tokens)

	w := postJSON(r, "/api/auth/sign-up", `{"username":"red","email":"red@example.com","password":"pw"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}

	var signup AuthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &signup); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(signup.Token) == 0 {
		t.Fatal("expected non-empty token on sign-up")
	}
	if signup.User.Name != "red" || signup.User.Email != "red@example.com" {
		t.Fatalf("unexpected user payload: %+v", signup.User)
	}
	if signup.User.ID == 0 {
		t.Fatal("expected user id on sign-up")
	}

	// password is stored hashed
	stored, err := database.FindUserByEmail(db, "red@example.com")
	if err != nil || stored == nil {
		t.Fatalf("stored user lookup failed: %v", err)
	}
	if stored.Password == "pw" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("pw")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	w = postJSON(r, "/api/auth/sign-in", `{"email":"red@example.com","password":"pw"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	var signin AuthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &signin); err != nil {
		t.Fatalf("decode: %v", err)
	}

	claims, err := tokens.Verify(signin.Token)
	if err != nil {
		t.Fatalf("sign-in token does not verify: %v", err)
	}
	if claims.UserID != stored.ID || claims.Email != "red@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestSignUpConflict(t *testing.T) {
	db := setupTestDB(t)
	r := authRouter(db, testTokenManager())

	w := postJSON(r, "/api/auth/sign-up", `{"username":"red","email":"red@example.com","password":"pw"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", w.Code)
	}

	// same email
	w = postJSON(r, "/api/auth/sign-up", `{"username":"crimson","email":"red@example.com","password":"pw"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", w.Code)
	}

	// same username
	w = postJSON(r, "/api/auth/sign-up", `{"username":"red","email":"other@example.com","password":"pw"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", w.Code)
	}
}

func TestSignUpMissingFields(t *testing.T) {
	db := setupTestDB(t)
	r := authRouter(db, testTokenManager())

	bodies := []string{
		`{"email":"red@example.com","password":"pw"}`,
		`{"username":"red","password":"pw"}`,
		`{"username":"red","email":"red@example.com"}`,
		`{}`,
	}

	for _, body := range bodies {
		w := postJSON(r, "/api/auth/sign-up", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body=%s: expected 400 got %d", body, w.Code)
		}
		if !strings.Contains(w.Body.String(), "error") {
			t.Fatalf("body=%s: expected error payload", body)
		}
	}
}

func TestSignInBadCredentials(t *testing.T) {
	db := setupTestDB(t)
	r := authRouter(db, testTokenManager())

	w := postJSON(r, "/api/auth/sign-up", `{"username":"red","email":"red@example.com","password":"pw"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", w.Code)
	}

	// unknown email and wrong password must be indistinguishable
	wrongPass := postJSON(r, "/api/auth/sign-in", `{"email":"red@example.com","password":"nope"}`)
	unknownEmail := postJSON(r, "/api/auth/sign-in", `{"email":"ghost@example.com","password":"pw"}`)

	if wrongPass.Code != http.StatusUnauthorized || unknownEmail.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401 got %d/%d", wrongPass.Code, unknownEmail.Code)
	}
	if wrongPass.Body.String() != unknownEmail.Body.String() {
		t.Fatal("bad-credential responses differ between unknown email and wrong password")
	}
}

func TestAuthRateLimited(t *testing.T) {
	db := setupTestDB(t)
	r := authRouter(db, testTokenManager())

	// 20 requests per IP per minute pass, the 21st is rejected
	for i := 0; i < 20; i++ {
		w := postJSON(r, "/api/auth/sign-in", `{"email":"red@example.com","password":"pw"}`)
		if w.Code == http.StatusTooManyRequests {
			t.Fatalf("request %d rate limited too early", i+1)
		}
	}

	w := postJSON(r, "/api/auth/sign-in", `{"email":"red@example.com","password":"pw"}`)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after the limit got %d", w.Code)
	}
}

func TestSignInMissingFields(t *testing.T) {
	db := setupTestDB(t)
	r := authRouter(db, testTokenManager())

	for _, body := range []string{`{"email":"red@example.com"}`, `{"password":"pw"}`, `{}`} {
		w := postJSON(r, "/api/auth/sign-in", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body=%s: expected 400 got %d", body, w.Code)
		}
	}
}

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505"}

	if !isUniqueViolation(pgErr) {
		t.Fatal("expected 23505 to be a unique violation")
	}
	if !isUniqueViolation(fmt.Errorf("create user: %w", pgErr)) {
		t.Fatal("expected wrapped 23505 to be a unique violation")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatal("foreign-key violation misread as unique violation")
	}
	if isUniqueViolation(errors.New("not a pg error")) {
		t.Fatal("plain error misread as unique violation")
	}
	if isUniqueViolation(nil) {
		t.Fatal("nil misread as unique violation")
	}
}
