package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"posadmin-cloud/internal/auth"
	"posadmin-cloud/internal/catalog"
	"posadmin-cloud/internal/salesapi"
)

// Handler serves catalog pass-through endpoints.
type Handler struct {
	service *catalog.Service
}

// NewHandler constructs a Handler.
func NewHandler(service *catalog.Service) (*Handler, error) {
	if service == nil {
		return nil, errors.New("catalog handler: nil service")
	}
	return &Handler{service: service}, nil
}

// ServeHTTP routes catalog requests.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, "/api/v1/catalog/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/catalog/")
	parts := strings.Split(path, "/")
	if len(parts) < 1 || parts[0] == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	entity := parts[0]

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.handleList(w, r, entity)
	case len(parts) == 1 && r.Method == http.MethodPost:
		h.handleSave(w, r, entity)
	case len(parts) == 2 && r.Method == http.MethodDelete:
		h.handleDelete(w, r, entity, parts[1])
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request, entity string) {
	shopID, err := shopIDQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := auth.EnsureShop(r.Context(), shopID); err != nil {
		respondShopError(w, err)
		return
	}

	var payload any
	switch entity {
	case "products":
		payload, err = h.service.ListProducts(r.Context(), shopID)
	case "categories":
		payload, err = h.service.ListCategories(r.Context(), shopID)
	case "sizes":
		payload, err = h.service.ListSizes(r.Context(), shopID)
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, payload)
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request, entity string) {
	var payload any
	var err error
	switch entity {
	case "products":
		var product salesapi.Product
		if decodeErr := json.NewDecoder(r.Body).Decode(&product); decodeErr != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if shopErr := auth.EnsureShop(r.Context(), product.ShopID); shopErr != nil {
			respondShopError(w, shopErr)
			return
		}
		payload, err = h.service.SaveProduct(r.Context(), product)
	case "categories":
		var category salesapi.Category
		if decodeErr := json.NewDecoder(r.Body).Decode(&category); decodeErr != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if shopErr := auth.EnsureShop(r.Context(), category.ShopID); shopErr != nil {
			respondShopError(w, shopErr)
			return
		}
		payload, err = h.service.SaveCategory(r.Context(), category)
	case "sizes":
		var size salesapi.ProductSize
		if decodeErr := json.NewDecoder(r.Body).Decode(&size); decodeErr != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if shopErr := auth.EnsureShop(r.Context(), size.ShopID); shopErr != nil {
			respondShopError(w, shopErr)
			return
		}
		payload, err = h.service.SaveSize(r.Context(), size)
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, payload)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request, entity, rawID string) {
	id, err := strconv.Atoi(rawID)
	if err != nil || id <= 0 {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	shopID, err := shopIDQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := auth.EnsureShop(r.Context(), shopID); err != nil {
		respondShopError(w, err)
		return
	}

	switch entity {
	case "products":
		err = h.service.DeleteProduct(r.Context(), shopID, id)
	case "categories":
		err = h.service.DeleteCategory(r.Context(), shopID, id)
	case "sizes":
		err = h.service.DeleteSize(r.Context(), shopID, id)
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func shopIDQuery(r *http.Request) (int, error) {
	value := r.URL.Query().Get("shopId")
	if value == "" {
		return 0, errors.New("shopId is required")
	}
	shopID, err := strconv.Atoi(value)
	if err != nil || shopID <= 0 {
		return 0, errors.New("shopId must be a positive integer")
	}
	return shopID, nil
}

func respondShopError(w http.ResponseWriter, err error) {
	if errors.Is(err, auth.ErrShopMismatch) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
