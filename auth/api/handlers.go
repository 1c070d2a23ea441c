package api

import (
	"encoding/json"
	"net/http"

	"github.com/andrebq/turnstile/auth"
	"github.com/andrebq/turnstile/internal/logutil"
)

type (
	errorBody struct {
		Error string `json:"error"`
	}
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	buf, err := json.Marshal(body)
	if err != nil {
		http.Error(w, "unable to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf)
	w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusUnauthorized, "Unauthorized")
}

func forbidden(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusForbidden, "Forbidden")
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Not found")
}

func me(w http.ResponseWriter, r *http.Request) {
	u := UserFromContext(r.Context())
	if u == nil {
		notFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, u.Public())
}

func login(strategy auth.SessionStrategy, store auth.UserStore, secureCookie bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logutil.GetOrDefault(ctx)
		email := r.PostFormValue("email")
		if email == "" {
			writeError(w, http.StatusBadRequest, "email missing")
			return
		}
		password := r.PostFormValue("password")
		if password == "" {
			writeError(w, http.StatusBadRequest, "password missing")
			return
		}
		found, err := store.SearchByEmail(ctx, email)
		if err != nil {
			log.Error().Err(err).Msg("Unable to search users")
			writeError(w, http.StatusInternalServerError, "unable to search users")
			return
		}
		if len(found) == 0 {
			writeError(w, http.StatusNotFound, "no user found for this email")
			return
		}
		user := found[0]
		if !user.IsValidPassword(password) {
			writeError(w, http.StatusUnauthorized, "wrong password")
			return
		}
		sessionID, err := strategy.CreateSession(ctx, user.ID)
		if err != nil {
			log.Error().Err(err).Str("user_id", user.ID).Msg("Unable to create session")
			writeError(w, http.StatusInternalServerError, "unable to create session")
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     strategy.CookieName(),
			Value:    sessionID,
			Path:     "/",
			HttpOnly: true,
			Secure:   secureCookie,
			SameSite: http.SameSiteLaxMode,
		})
		writeJSON(w, http.StatusOK, user.Public())
	}
}

func logout(strategy auth.SessionStrategy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		destroyed, err := strategy.DestroySession(r)
		if err != nil {
			logger := logutil.GetOrDefault(r.Context())
			logger.Error().Err(err).Msg("Unable to destroy session")
			writeError(w, http.StatusInternalServerError, "unable to destroy session")
			return
		}
		if !destroyed {
			notFound(w, r)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:   strategy.CookieName(),
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})
		writeJSON(w, http.StatusOK, struct{}{})
	}
}
