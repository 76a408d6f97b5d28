package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"pinshop/internal/api/middleware"
	"pinshop/internal/app/service"
	"pinshop/internal/common"

	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	accountService *service.AccountService
	sessionTTL     time.Duration
}

func NewAuthHandler(accountService *service.AccountService, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{accountService: accountService, sessionTTL: sessionTTL}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
}

type registerResponse struct {
	Message string `json:"message"`
	service.RegisterResponse
}

type loginResponse struct {
	Message string `json:"message"`
	service.LoginResponse
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	resp, err := h.accountService.Register(r.Context(), req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, registerResponse{
		Message:          "Registered successfully",
		RegisterResponse: *resp,
	})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	resp, err := h.accountService.Login(r.Context(), req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    resp.Token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	common.RespondWithJSON(w, http.StatusOK, loginResponse{
		Message:       "Login successful",
		LoginResponse: *resp,
	})
}
