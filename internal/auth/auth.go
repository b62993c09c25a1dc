// Package auth implements the operator login: a bcrypt-checked credential
// pair from the environment and an HMAC-signed session cookie. There is one
// operator account; this is a single-person business.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const sessionCookieName = "session"

// Credentials is the configured operator account. PasswordHash is a bcrypt
// hash (generate one with `htpasswd -nbB` or a small Go snippet).
type Credentials struct {
	User         string
	PasswordHash string
}

// Verify checks a login attempt in constant time.
func (c Credentials) Verify(user, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(c.User), []byte(user)) == 1
	passOK := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) == nil
	return userOK && passOK
}

// Secret returns SESSION_SECRET or a default dev value.
func Secret() string {
	if s := os.Getenv("SESSION_SECRET"); s != "" {
		return s
	}
	return "devsessionsecret"
}

func sign(user string) string {
	mac := hmac.New(sha256.New, []byte(Secret()))
	mac.Write([]byte(user))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// CreateSession sets a signed cookie naming the logged-in operator.
func CreateSession(w http.ResponseWriter, user string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    user + "." + sign(user),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(14 * 24 * time.Hour),
	})
}

// ClearSession deletes the session cookie.
func ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name: sessionCookieName, Value: "", Path: "/",
		Expires: time.Unix(0, 0), HttpOnly: true, SameSite: http.SameSiteLaxMode,
	})
}

// ParseSession validates the cookie signature and returns the operator name.
func ParseSession(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	i := strings.LastIndex(c.Value, ".")
	if i <= 0 {
		return "", false
	}
	user, sig := c.Value[:i], c.Value[i+1:]
	if !hmac.Equal([]byte(sig), []byte(sign(user))) {
		return "", false
	}
	return user, true
}

// RequireAuth rejects requests without a valid session.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ParseSession(r); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
