package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"dvg-portal/internal/auth"
	"dvg-portal/internal/domain"
)

// AuthHandler exposes sign-up, sign-in and sign-out as plain JSON endpoints.
type AuthHandler struct {
	auth *auth.Service
}

func NewAuthHandler(authSvc *auth.Service) *AuthHandler {
	return &AuthHandler{auth: authSvc}
}

// Register mounts the auth routes on a mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/signup", h.signUp)
	mux.HandleFunc("/api/signin", h.signIn)
	mux.HandleFunc("/api/signout", h.signOut)
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signOutRequest struct {
	Token string `json:"token"`
}

type accountResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type sessionResponse struct {
	Token   string          `json:"token"`
	Account accountResponse `json:"account"`
}

func (h *AuthHandler) signUp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var na auth.NewAccount
	if err := json.NewDecoder(r.Body).Decode(&na); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	account, err := h.auth.SignUp(r.Context(), na)
	if err != nil {
		var verr *auth.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"fields": verr.Fields})
		case errors.Is(err, domain.ErrEmailTaken):
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusCreated, accountResponse{ID: account.ID, Username: account.Username, Email: account.Email})
}

func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	session, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": domain.ErrInvalidCredentials.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		Token: session.Token,
		Account: accountResponse{
			ID:       session.Account.ID,
			Username: session.Account.Username,
			Email:    session.Account.Email,
		},
	})
}

func (h *AuthHandler) signOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req signOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.auth.SignOut(r.Context(), req.Token); err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": domain.ErrInvalidToken.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
