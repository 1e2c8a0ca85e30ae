package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avykov/go-auth-keeper/internal/logger"
	"github.com/avykov/go-auth-keeper/internal/service"
	"github.com/avykov/go-auth-keeper/internal/store"
	"github.com/avykov/go-auth-keeper/internal/utils"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	registeredUser, err := h.services.AuthService.Register(ctx, req.Username, req.Password, req.TelephoneNumber)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid data provided")
			http.Error(w, "invalid data provided", http.StatusBadRequest)
			return
		case errors.Is(err, store.ErrUsernameAlreadyExists):
			log.Err(err).Msg("username already exists")
			http.Error(w, "username already exists", http.StatusConflict)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during user registration")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	utils.WriteJSON(w, userResponse{
		ID:              registeredUser.ID,
		Username:        registeredUser.Username,
		TelephoneNumber: registeredUser.TelephoneNumber,
	}, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	token, err := h.services.AuthService.Login(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid data provided")
			http.Error(w, "invalid data provided", http.StatusBadRequest)
			return
		// one status and one body for both outcomes, so the response does
		// not reveal whether the account exists
		case errors.Is(err, store.ErrUserNotFound) || errors.Is(err, service.ErrWrongPassword):
			log.Err(err).Msg("no user was found/wrong password")
			http.Error(w, "invalid login/password", http.StatusUnauthorized)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during user login")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	log.Debug().Str("username", token.Username).Msg("user successfully logged in")

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) requestPasswordReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	username := chi.URLParam(r, "username")
	if username == "" {
		http.Error(w, "invalid data provided", http.StatusBadRequest)
		return
	}

	code, err := h.services.AuthService.RequestPasswordReset(ctx, username)
	if err != nil {
		log.Err(err).Str("username", username).Msg("password reset request failed")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	utils.WriteJSON(w, resetCodeResponse{
		Username:  username,
		ResetCode: code,
	}, http.StatusOK)
}

func (h *Handler) confirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req resetConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	ok, err := h.services.AuthService.ConfirmPasswordReset(ctx, req.Username, req.ResetCode, req.NewPassword)
	if err != nil || !ok {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid data provided")
			http.Error(w, "invalid data provided", http.StatusBadRequest)
			return
		// the endpoint is unauthenticated: unknown account, missing code
		// and wrong code all collapse into the same response
		case errors.Is(err, store.ErrUserNotFound),
			errors.Is(err, service.ErrNoPendingReset),
			errors.Is(err, service.ErrResetCodeMismatch):
			log.Err(err).Str("username", req.Username).Msg("reset code was not accepted")
			http.Error(w, "reset code was not accepted", http.StatusBadRequest)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during password reset")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	// the password hash never travels over the wire, so the current record
	// is loaded first and only the mutable fields are replaced
	user, err := h.services.AuthService.GetUserByID(ctx, req.ID)
	if err != nil {
		log.Err(err).Str("id", req.ID).Msg("user lookup failed")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	user.Username = req.Username
	user.TelephoneNumber = req.TelephoneNumber

	if err := h.services.AuthService.UpdateUser(ctx, user); err != nil {
		log.Err(err).Str("username", user.Username).Msg("user update failed")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	username := chi.URLParam(r, "username")
	if username == "" {
		http.Error(w, "invalid data provided", http.StatusBadRequest)
		return
	}

	if err := h.services.AuthService.DeleteUserByUsername(ctx, username); err != nil {
		log.Err(err).Str("username", username).Msg("user deletion failed")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
