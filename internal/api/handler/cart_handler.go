package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"pinshop/internal/api/middleware"
	"pinshop/internal/app/service"
	"pinshop/internal/common"
	"pinshop/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	cartService *service.CartService
}

func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// RegisterRoutes expects the router to already require a session.
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Post("/add", h.addToCart)
	r.Post("/remove", h.removeFromCart)
	r.Get("/{userID}", h.getCart)
}

func (h *CartHandler) addToCart(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.cartService.AddToCart, "Product added to cart")
}

func (h *CartHandler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.cartService.RemoveFromCart, "Product removed from cart")
}

type cartMutation = func(ctx context.Context, sess model.Session, req service.CartItemRequest) error

func (h *CartHandler) mutate(w http.ResponseWriter, r *http.Request, op cartMutation, okMessage string) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
		return
	}
	var req service.CartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := op(r.Context(), sess, req); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithMessage(w, http.StatusOK, okMessage)
}

func (h *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
		return
	}
	items, err := h.cartService.GetCart(r.Context(), sess, chi.URLParam(r, "userID"))
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, items)
}
