package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/pharmadesk/pharmacy-service/internal/application/ports"
	"github.com/pharmadesk/pharmacy-service/internal/domain/inventory"
	"github.com/pharmadesk/pharmacy-service/internal/infrastructure/http/response"
	"github.com/pharmadesk/pharmacy-service/internal/pkg/clock"
	"github.com/pharmadesk/pharmacy-service/internal/pkg/logger"
)

const expiryDateLayout = "2006-01-02"

type ItemHandler struct {
	itemRepo          ports.ItemRepository
	clk               clock.Clock
	log               *logger.Logger
	nearExpiryDays    int
	lowStockThreshold int
}

func NewItemHandler(
	itemRepo ports.ItemRepository,
	clk clock.Clock,
	log *logger.Logger,
	nearExpiryDays int,
	lowStockThreshold int,
) *ItemHandler {
	return &ItemHandler{
		itemRepo:          itemRepo,
		clk:               clk,
		log:               log,
		nearExpiryDays:    nearExpiryDays,
		lowStockThreshold: lowStockThreshold,
	}
}

type ItemResponse struct {
	ID                  int64  `json:"id"`
	Name                string `json:"name"`
	Description         string `json:"description,omitempty"`
	PriceCents          int64  `json:"price_cents"`
	StockQuantity       int    `json:"stock_quantity"`
	ExpiresAt           string `json:"expires_at,omitempty"`
	Active              bool   `json:"active"`
	DaysUntilExpiration *int   `json:"days_until_expiration,omitempty"`
	NearExpiry          bool   `json:"near_expiry"`
	Expired             bool   `json:"expired"`
}

func (h *ItemHandler) toResponse(item *inventory.Item) ItemResponse {
	today := h.clk.Today()

	resp := ItemResponse{
		ID:            item.ID,
		Name:          item.Name,
		Description:   item.Description,
		PriceCents:    item.PriceCents,
		StockQuantity: item.StockQuantity,
		Active:        item.Active,
		NearExpiry:    item.IsNearExpiry(today, h.nearExpiryDays),
		Expired:       item.IsExpired(today),
	}

	if item.ExpiresAt != nil {
		resp.ExpiresAt = item.ExpiresAt.Format(expiryDateLayout)
	}

	if days, ok := item.DaysUntilExpiration(today); ok {
		resp.DaysUntilExpiration = &days
	}

	return resp
}

type CreateItemRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	PriceCents    int64  `json:"price_cents"`
	StockQuantity int    `json:"stock_quantity"`
	ExpiresAt     string `json:"expires_at,omitempty"`
}

func (h *ItemHandler) HandleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, response.StatusValidationError, "Invalid request body", err.Error())
		return
	}

	expiresAt, errs := parseExpiresAt(req.ExpiresAt)
	if req.Name == "" {
		errs["name"] = "name is required"
	}
	if req.PriceCents <= 0 {
		errs["price_cents"] = "unit price must be greater than zero"
	}
	if req.StockQuantity < 0 {
		errs["stock_quantity"] = "stock quantity cannot be negative"
	}
	if len(errs) > 0 {
		response.WriteValidationError(w, "Validation failed", errs)
		return
	}

	item, err := inventory.NewItem(req.Name, req.Description, req.PriceCents, req.StockQuantity, expiresAt)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, response.StatusValidationError, "Validation failed", err.Error())
		return
	}

	if err := h.itemRepo.Create(r.Context(), item); err != nil {
		h.log.Error("Failed to create item", "error", err.Error(), "name", req.Name)
		response.WriteDomainError(w, err)
		return
	}

	h.log.Info("Item created", "item_id", item.ID, "name", item.Name)
	response.WriteJSON(w, http.StatusCreated, h.toResponse(item))
}

func (h *ItemHandler) HandleGetItem(w http.ResponseWriter, r *http.Request, id int64) {
	item, err := h.itemRepo.GetByID(r.Context(), id)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteSuccess(w, h.toResponse(item))
}

func (h *ItemHandler) HandleListItems(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	items, err := h.itemRepo.List(r.Context(), limit, offset)
	if err != nil {
		h.log.Error("Failed to list items", "error", err.Error())
		response.WriteDomainError(w, err)
		return
	}

	responses := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, h.toResponse(item))
	}

	response.WriteSuccess(w, responses)
}

type UpdateItemRequest struct {
	Name          *string `json:"name,omitempty"`
	Description   *string `json:"description,omitempty"`
	PriceCents    *int64  `json:"price_cents,omitempty"`
	StockQuantity *int    `json:"stock_quantity,omitempty"`
	ExpiresAt     *string `json:"expires_at,omitempty"`
}

func (h *ItemHandler) HandleUpdateItem(w http.ResponseWriter, r *http.Request, id int64) {
	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, response.StatusValidationError, "Invalid request body", err.Error())
		return
	}

	item, err := h.itemRepo.GetByID(r.Context(), id)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	errs := make(map[string]string)

	if req.Name != nil {
		if *req.Name == "" {
			errs["name"] = "name cannot be empty"
		} else {
			item.Name = *req.Name
		}
	}

	if req.Description != nil {
		item.Description = *req.Description
	}

	if req.PriceCents != nil {
		if *req.PriceCents <= 0 {
			errs["price_cents"] = "unit price must be greater than zero"
		} else {
			item.PriceCents = *req.PriceCents
		}
	}

	if req.StockQuantity != nil {
		// SetStock re-activates a soft-deleted item when restocked.
		if err := item.SetStock(*req.StockQuantity); err != nil {
			errs["stock_quantity"] = err.Error()
		}
	}

	if req.ExpiresAt != nil {
		if *req.ExpiresAt == "" {
			item.ExpiresAt = nil
		} else {
			parsed, parseErrs := parseExpiresAt(*req.ExpiresAt)
			if len(parseErrs) > 0 {
				errs["expires_at"] = parseErrs["expires_at"]
			} else {
				item.ExpiresAt = parsed
			}
		}
	}

	if len(errs) > 0 {
		response.WriteValidationError(w, "Validation failed", errs)
		return
	}

	if err := h.itemRepo.Update(r.Context(), item); err != nil {
		h.log.Error("Failed to update item", "error", err.Error(), "item_id", id)
		response.WriteDomainError(w, err)
		return
	}

	response.WriteSuccess(w, h.toResponse(item))
}

func (h *ItemHandler) HandleDeactivateItem(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.itemRepo.Deactivate(r.Context(), id); err != nil {
		response.WriteDomainError(w, err)
		return
	}

	h.log.Info("Item deactivated", "item_id", id)
	w.WriteHeader(http.StatusNoContent)
}

type AlertsResponse struct {
	Expired    []ItemResponse `json:"expired"`
	NearExpiry []ItemResponse `json:"near_expiry"`
	LowStock   []ItemResponse `json:"low_stock"`
}

func (h *ItemHandler) HandleGetAlerts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	expired, err := h.itemRepo.GetExpired(ctx)
	if err != nil {
		h.log.Error("Failed to load expired items", "error", err.Error())
		response.WriteDomainError(w, err)
		return
	}

	nearExpiry, err := h.itemRepo.GetExpiringWithin(ctx, h.nearExpiryDays)
	if err != nil {
		h.log.Error("Failed to load near-expiry items", "error", err.Error())
		response.WriteDomainError(w, err)
		return
	}

	lowStock, err := h.itemRepo.GetLowStock(ctx, h.lowStockThreshold)
	if err != nil {
		h.log.Error("Failed to load low-stock items", "error", err.Error())
		response.WriteDomainError(w, err)
		return
	}

	alerts := AlertsResponse{
		Expired:    make([]ItemResponse, 0, len(expired)),
		NearExpiry: make([]ItemResponse, 0, len(nearExpiry)),
		LowStock:   make([]ItemResponse, 0, len(lowStock)),
	}
	for _, item := range expired {
		alerts.Expired = append(alerts.Expired, h.toResponse(item))
	}
	for _, item := range nearExpiry {
		alerts.NearExpiry = append(alerts.NearExpiry, h.toResponse(item))
	}
	for _, item := range lowStock {
		alerts.LowStock = append(alerts.LowStock, h.toResponse(item))
	}

	response.WriteSuccess(w, alerts)
}

func parseExpiresAt(value string) (*time.Time, map[string]string) {
	errs := make(map[string]string)
	if value == "" {
		return nil, errs
	}

	parsed, err := time.ParseInLocation(expiryDateLayout, value, time.UTC)
	if err != nil {
		errs["expires_at"] = "expiration date must be formatted as YYYY-MM-DD"
		return nil, errs
	}

	return &parsed, errs
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit = 50
	offset = 0

	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	return limit, offset
}
