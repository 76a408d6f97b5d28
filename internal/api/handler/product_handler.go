package handler

import (
	"encoding/json"
	"net/http"

	"pinshop/internal/api/middleware"
	"pinshop/internal/app/service"
	"pinshop/internal/common"

	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	catalogService *service.CatalogService
}

func NewProductHandler(catalogService *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalogService: catalogService}
}

// RegisterRoutes mounts the public listing and the admin-only mutations.
// authn must resolve the caller's session.
func (h *ProductHandler) RegisterRoutes(r chi.Router, authn func(http.Handler) http.Handler) {
	r.Get("/products", h.listProducts)

	r.Route("/product", func(admin chi.Router) {
		admin.Use(authn)
		admin.Use(middleware.AdminOnly)
		admin.Post("/add", h.addProduct)
		admin.Delete("/remove/{id}", h.removeProduct)
	})
}

func (h *ProductHandler) addProduct(w http.ResponseWriter, r *http.Request) {
	var req service.AddProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	product, err := h.catalogService.AddProduct(r.Context(), req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) removeProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalogService.RemoveProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "Product removed successfully")
}

func (h *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.ListProducts(r.Context())
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, products)
}
