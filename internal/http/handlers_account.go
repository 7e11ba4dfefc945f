package http

import (
	"errors"
	"net/http"

	"kharcha/internal/core"
	"kharcha/internal/log"
	"kharcha/internal/services"
	"kharcha/internal/storage"
)

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body := parseBody(r)
	if body.Err() != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.accounts.Signup(r.Context(),
		body.Get("username"), body.Get("email"), body.Get("password"))
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrDuplicateUser):
			writeError(w, http.StatusBadRequest, "user already exists")
		case errors.Is(err, core.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			log.FromContext(r.Context()).ErrorContext(r.Context(), "Signup failed", log.FieldError, err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"userId":   user.ID,
		"username": user.Username,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body := parseBody(r)
	if body.Err() != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	identifier := body.Get("identifier")
	if identifier == "" {
		// Clients may send the identifier under its concrete name.
		identifier = body.Get("username")
	}
	if identifier == "" {
		identifier = body.Get("email")
	}

	token, userID, err := s.accounts.Login(r.Context(), identifier, body.Get("password"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeError(w, http.StatusBadRequest, "invalid credentials")
			return
		}
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Login failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"token":  token,
		"userId": userID,
	})
}
