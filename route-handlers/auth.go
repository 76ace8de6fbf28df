package routehandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/butchersbasket/api/auth"
	"github.com/butchersbasket/api/datastore"
	"github.com/butchersbasket/api/models"
	"github.com/butchersbasket/api/webutil"
	"github.com/google/uuid"
)

// Kept identical for the unknown-email and wrong-password cases so the
// response does not reveal which one failed.
const msgInvalidCredentials = "Invalid email or password"

type AuthHandler struct {
	Users  datastore.UserStore
	Tokens *auth.TokenIssuer
}

func NewAuthHandler(users datastore.UserStore, tokens *auth.TokenIssuer) *AuthHandler {
	return &AuthHandler{Users: users, Tokens: tokens}
}

// HandleRegister creates a user with a hashed password. Duplicate emails are
// rejected before the write when the advisory lookup finds one, and by the
// unique index when two registrations race past the lookup.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) error {
	var requestData struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	decoder := json.NewDecoder(r.Body)
	defer r.Body.Close()

	if err := decoder.Decode(&requestData); err != nil {
		return webutil.ErrBadRequestWrap("Invalid request payload", err)
	}

	if requestData.Name == "" || requestData.Email == "" || requestData.Password == "" {
		return webutil.ErrBadRequest("Name, email and password are required")
	}

	_, err := h.Users.GetUserByEmail(r.Context(), requestData.Email)
	if err == nil {
		respondDuplicateUser(w)
		return nil
	}
	if !errors.Is(err, datastore.ErrNotFound) {
		return fmt.Errorf("failed to check existing user %s: %w", requestData.Email, err)
	}

	passwordHash, err := auth.HashPassword(requestData.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	newUser := &models.User{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
		Name:         requestData.Name,
		Email:        requestData.Email,
		PasswordHash: passwordHash,
	}

	if err := h.Users.CreateUser(r.Context(), newUser); err != nil {
		if errors.Is(err, datastore.ErrDuplicateEmail) {
			respondDuplicateUser(w)
			return nil
		}
		return fmt.Errorf("failed to create user %s: %w", newUser.Email, err)
	}

	webutil.RespondWithJSON(w, http.StatusCreated, statusResponse{
		Success: true,
		Message: "User registered successfully",
	})
	return nil
}

func respondDuplicateUser(w http.ResponseWriter) {
	webutil.RespondWithJSON(w, http.StatusBadRequest, statusResponse{
		Success: false,
		Message: "User already exists",
	})
}

// HandleLogin verifies credentials and issues a bearer token carrying the
// user's email.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) error {
	var requestData struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	decoder := json.NewDecoder(r.Body)
	defer r.Body.Close()

	if err := decoder.Decode(&requestData); err != nil {
		return webutil.ErrBadRequestWrap("Invalid request payload", err)
	}

	if requestData.Email == "" || requestData.Password == "" {
		return webutil.ErrBadRequest("Email and password are required")
	}

	user, err := h.Users.GetUserByEmail(r.Context(), requestData.Email)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return webutil.ErrUnauthorized(msgInvalidCredentials)
		}
		return fmt.Errorf("failed to look up user %s: %w", requestData.Email, err)
	}

	if !auth.CheckPassword(user.PasswordHash, requestData.Password) {
		return webutil.ErrUnauthorized(msgInvalidCredentials)
	}

	token, err := h.Tokens.Issue(user.Email)
	if err != nil {
		return fmt.Errorf("failed to issue token for %s: %w", user.Email, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, loginResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
	})
	return nil
}

type loginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
}
