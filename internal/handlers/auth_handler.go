package handlers

import (
	"net/http"

	"github.com/fcornetti/booking-yoga-system/internal/service"
	"github.com/fcornetti/booking-yoga-system/internal/validation"
)

// AuthHandler serves registration, verification and login endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

// Register handles POST /users
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validation.ValidateName("name", req.Name); err != nil {
		respondWithServiceError(w, err)
		return
	}
	if err := validation.ValidateName("surname", req.Surname); err != nil {
		respondWithServiceError(w, err)
		return
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		respondWithServiceError(w, err)
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		respondWithServiceError(w, err)
		return
	}

	user, err := h.authService.Register(r.Context(), req.Name, req.Surname, req.Email, req.Password)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, userResponse{
		ID:      user.ID,
		Name:    user.Name,
		Surname: user.Surname,
		Email:   user.Email,
	})
}

// Verify handles GET /verify?token=...
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	user, err := h.authService.Verify(token)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, userResponse{
		ID:       user.ID,
		Name:     user.Name,
		Surname:  user.Surname,
		Email:    user.Email,
		Verified: true,
	})
}

type emailRequest struct {
	Email string `json:"email"`
}

// ResendVerification handles POST /resend-verification
func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		respondWithServiceError(w, err)
		return
	}

	if err := h.authService.ResendVerification(r.Context(), req.Email); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "verification email sent"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.authService.Authenticate(req.Email, req.Password)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, loginResponse{
		Token: token,
		User: userResponse{
			ID:       user.ID,
			Name:     user.Name,
			Surname:  user.Surname,
			Email:    user.Email,
			Verified: true,
		},
	})
}

// RequestPasswordReset handles POST /password-reset/request. It always
// reports success so the endpoint can't be used to probe registered emails.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		respondWithServiceError(w, err)
		return
	}

	if err := h.authService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "if that email has an account, a reset link is on its way",
	})
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetPassword handles POST /password-reset/confirm
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		respondWithServiceError(w, err)
		return
	}

	if err := h.authService.ResetPassword(req.Token, req.Password); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}
