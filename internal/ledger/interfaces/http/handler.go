package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"posadmin-cloud/internal/auth"
	reportapp "posadmin-cloud/internal/ledger/application"
	ledger "posadmin-cloud/internal/ledger/domain"
	"posadmin-cloud/internal/ledger/interfaces"
	"posadmin-cloud/internal/observability/metrics"
)

// Handler serves report session endpoints.
type Handler struct {
	service *reportapp.Service
}

// NewHandler constructs a Handler.
func NewHandler(service *reportapp.Service) (*Handler, error) {
	if service == nil {
		return nil, errors.New("report handler: nil service")
	}
	return &Handler{service: service}, nil
}

// ServeHTTP routes report requests.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, "/api/v1/reports/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/reports/")
	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	shopID, err := strconv.Atoi(parts[0])
	if err != nil || shopID <= 0 {
		http.Error(w, "shop id must be a positive integer", http.StatusBadRequest)
		return
	}
	date := parts[1]
	if _, err := time.Parse("2006-01-02", date); err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if err := auth.EnsureShop(r.Context(), shopID); err != nil {
		respondShopError(w, err)
		return
	}

	switch {
	case len(parts) == 2 && r.Method == http.MethodGet:
		h.handleGet(w, r, shopID, date)
	case len(parts) == 2 && r.Method == http.MethodDelete:
		h.handleReload(w, r, shopID, date)
	case len(parts) == 3 && parts[2] == "cells" && r.Method == http.MethodPost:
		h.handleCell(w, r, shopID, date)
	case len(parts) == 3 && parts[2] == "save" && r.Method == http.MethodPost:
		h.handleSave(w, r, shopID, date)
	case len(parts) == 3 && parts[2] == "full" && r.Method == http.MethodGet:
		h.handleHistory(w, r, shopID, date)
	case len(parts) == 3 && parts[2] == "export.xlsx" && r.Method == http.MethodGet:
		h.handleExport(w, r, shopID, date, "xlsx")
	case len(parts) == 3 && parts[2] == "export.pdf" && r.Method == http.MethodGet:
		h.handleExport(w, r, shopID, date, "pdf")
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type snapshotResponse struct {
	ledger.Snapshot
	UniqueSizes            []ledger.SizeID `json:"uniqueSizes"`
	GrandTotalClosingValue float64         `json:"grandTotalClosingValue"`
	GrandTotalSalesValue   float64         `json:"grandTotalSalesValue"`
	GrandTotalBreaksValue  float64         `json:"grandTotalBreaksValue"`
	HasMovementData        bool            `json:"hasMovementData"`
}

func newSnapshotResponse(snapshot ledger.Snapshot) snapshotResponse {
	return projectedResponse(snapshot, ledger.Project(snapshot))
}

func projectedResponse(snapshot ledger.Snapshot, projections ledger.Projections) snapshotResponse {
	return snapshotResponse{
		Snapshot:               snapshot,
		UniqueSizes:            projections.UniqueSizes,
		GrandTotalClosingValue: projections.GrandTotalClosingValue,
		GrandTotalSalesValue:   projections.GrandTotalSalesValue,
		GrandTotalBreaksValue:  projections.GrandTotalBreaksValue,
		HasMovementData:        projections.HasMovementData,
	}
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request, shopID int, date string) {
	snapshot, projections, err := h.service.Report(r.Context(), shopID, date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, projectedResponse(snapshot, projections))
}

func (h *Handler) handleReload(w http.ResponseWriter, r *http.Request, shopID int, date string) {
	snapshot, err := h.service.Load(r.Context(), shopID, date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, newSnapshotResponse(snapshot))
}

func (h *Handler) handleCell(w http.ResponseWriter, r *http.Request, shopID int, date string) {
	var req struct {
		ProductID int    `json:"productId"`
		SizeID    int    `json:"sizeId"`
		Field     string `json:"field"`
		Value     string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	field, ok := ledger.ParseField(req.Field)
	if !ok {
		http.Error(w, "field must be receipts, sold or broken", http.StatusBadRequest)
		return
	}

	item, err := h.service.Edit(r.Context(), shopID, date, ledger.ProductID(req.ProductID), ledger.SizeID(req.SizeID), field, req.Value)
	if err != nil {
		h.respondEditError(w, r, shopID, date, req.ProductID, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) respondEditError(w http.ResponseWriter, r *http.Request, shopID int, date string, productID int, err error) {
	if errors.Is(err, ledger.ErrItemNotFound) || errors.Is(err, ledger.ErrSizeNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if errors.Is(err, ledger.ErrNonNumericInput) || errors.Is(err, ledger.ErrStockExceeded) || errors.Is(err, ledger.ErrUnknownField) {
		body := map[string]any{
			"error":  err.Error(),
			"reason": reportapp.RejectionReason(err),
		}
		// Return the unchanged item so the client can restore the cell.
		if snapshot, current := h.service.Current(r.Context(), shopID, date); current == nil {
			if item, found := findItem(snapshot, ledger.ProductID(productID)); found {
				body["item"] = item
			}
		}
		writeJSON(w, http.StatusUnprocessableEntity, body)
		return
	}
	http.Error(w, err.Error(), http.StatusBadGateway)
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request, shopID int, date string) {
	snapshot, err := h.service.Save(r.Context(), shopID, date)
	if err != nil {
		switch {
		case errors.Is(err, reportapp.ErrNothingToSave):
			http.Error(w, "no movement data to save", http.StatusUnprocessableEntity)
		case errors.Is(err, reportapp.ErrReportPublished):
			http.Error(w, "report is already published", http.StatusConflict)
		case errors.Is(err, reportapp.ErrUpstreamSave):
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"error":          err.Error(),
				"resynchronized": true,
				"snapshot":       newSnapshotResponse(snapshot),
			})
		default:
			http.Error(w, err.Error(), http.StatusBadGateway)
		}
		return
	}
	writeJSON(w, http.StatusOK, newSnapshotResponse(snapshot))
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request, shopID int, date string) {
	docs, err := h.service.History(r.Context(), shopID, date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request, shopID int, date, format string) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveReportExport(format, result, time.Since(start))
	}()

	snapshot, err := h.service.Current(r.Context(), shopID, date)
	if err != nil {
		result = metrics.ResultError
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	var payload []byte
	var contentType string
	switch format {
	case "xlsx":
		payload, err = interfaces.BuildReportXLSX(snapshot)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "pdf":
		payload, err = interfaces.BuildReportPDF(snapshot)
		contentType = "application/pdf"
	}
	if err != nil {
		result = metrics.ResultError
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	filename := "report-" + strconv.Itoa(shopID) + "-" + date + "." + format
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(payload)
}

func findItem(s ledger.Snapshot, productID ledger.ProductID) (ledger.Item, bool) {
	for _, category := range s.Categories {
		for _, item := range category.Items {
			if item.ProductID == productID {
				return item, true
			}
		}
	}
	return ledger.Item{}, false
}

func respondShopError(w http.ResponseWriter, err error) {
	if errors.Is(err, auth.ErrShopMismatch) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
