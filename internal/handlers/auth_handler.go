package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Techspace-2020/gas-agency-system-backend/internal/auth"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/models"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/store"
	"github.com/Techspace-2020/gas-agency-system-backend/pkg/utils"
)

type AuthHandler struct {
	Store      store.Store
	JWTManager *auth.JWTManager
}

func NewAuthHandler(s store.Store, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{Store: s, JWTManager: jwtManager}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.Store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		utils.Error(w, err)
		return
	}
	if user == nil || !auth.VerifyPassword(user.PasswordHash, req.Password) {
		utils.ErrorMessage(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if !user.IsActive {
		utils.ErrorMessage(w, http.StatusForbidden, "Account suspended. Please contact administrator.")
		return
	}

	token, err := h.JWTManager.GenerateToken(user)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}
