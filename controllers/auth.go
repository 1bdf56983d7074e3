package controllers

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"

	"gitea.com/go-chi/session"

	"github.com/blogem/crud-audit/authenticator"
	"github.com/blogem/crud-audit/middleware"
	"github.com/blogem/crud-audit/services"
)

type AuthController struct {
	auth services.AuthService
}

func NewAuthController(auth services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Login initiates the authentication process
func (ac *AuthController) Login(provider authenticator.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := generateRandomState()
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, err)
			return
		}

		// Save the state in the session to validate in callback
		sess := session.GetSession(r)
		if err := sess.Set("state", state); err != nil {
			writeError(w, r, http.StatusInternalServerError, err)
			return
		}

		http.Redirect(w, r, provider.GetAuthURL(state), http.StatusTemporaryRedirect)
	}
}

// Callback handles the redirect back from the identity provider and stores
// the local user id in the session
func (ac *AuthController) Callback(provider authenticator.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.GetSession(r)

		storedState, _ := sess.Get("state").(string)
		if storedState == "" {
			writeError(w, r, http.StatusBadRequest, errors.New("state not found in session"))
			return
		}
		if r.URL.Query().Get("state") != storedState {
			writeError(w, r, http.StatusBadRequest, errors.New("invalid state parameter"))
			return
		}

		token, err := provider.ExchangeCode(r.Context(), r.URL.Query().Get("code"))
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, errors.New("failed to exchange authorization code for a token"))
			return
		}

		claims, err := provider.GetClaims(r.Context(), token)
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, errors.New("failed to verify ID token"))
			return
		}

		user, err := ac.auth.ResolveUser(r.Context(), claims)
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, err)
			return
		}

		sess.Set(middleware.SessionUserIDKey, user.ID)
		sess.Set(middleware.SessionNicknameKey, user.DisplayName)
		sess.Delete("state")

		slog.InfoContext(r.Context(), "user logged in", "user_id", user.ID)

		redirect, _ := sess.Get(middleware.SessionRedirectKey).(string)
		sess.Delete(middleware.SessionRedirectKey)
		if redirect == "" {
			redirect = "/"
		}
		http.Redirect(w, r, redirect, http.StatusSeeOther)
	}
}

// Logout clears the session
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.GetSession(r)
	if err := sess.Flush(); err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// generateRandomState generates a random state value for CSRF protection
func generateRandomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
