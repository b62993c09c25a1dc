package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cpretorius/huiswinkel/internal/auth"
	"github.com/cpretorius/huiswinkel/internal/httpx"
)

type AuthHandler struct {
	Creds auth.Credentials
}

func NewAuthHandler(creds auth.Credentials) *AuthHandler {
	return &AuthHandler{Creds: creds}
}

// Login: POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		User     string `json:"user"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if h.Creds.PasswordHash == "" || !h.Creds.Verify(req.User, req.Password) {
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
		return
	}
	auth.CreateSession(w, req.User)
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Logout: POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	auth.ClearSession(w)
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
