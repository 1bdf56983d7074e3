package middleware

import (
	"encoding/json"
	"net/http"

	"gitea.com/go-chi/session"

	"github.com/blogem/crud-audit/userctx"
)

// Session keys written at login
const (
	SessionUserIDKey   = "user_id"
	SessionNicknameKey = "user_nickname"
	SessionRedirectKey = "redirect_after_login"
)

// RequireAuth ensures the request carries a logged-in user and puts the
// user's id on the context as the acting user. Unauthenticated requests get
// 401 and the path is remembered for after login.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.GetSession(r)

		userID, ok := sess.Get(SessionUserIDKey).(int64)
		if !ok || userID == 0 {
			if r.Method == http.MethodGet {
				sess.Set(SessionRedirectKey, r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
			return
		}

		ctx := userctx.SetActorID(r.Context(), userID)
		if nickname, ok := sess.Get(SessionNicknameKey).(string); ok {
			ctx = userctx.SetDisplayName(ctx, nickname)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
