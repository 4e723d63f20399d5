package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/pharmadesk/pharmacy-service/internal/application/commands"
	"github.com/pharmadesk/pharmacy-service/internal/application/ports"
	"github.com/pharmadesk/pharmacy-service/internal/domain/sales"
	"github.com/pharmadesk/pharmacy-service/internal/infrastructure/http/response"
	"github.com/pharmadesk/pharmacy-service/internal/infrastructure/monitoring"
	"github.com/pharmadesk/pharmacy-service/internal/pkg/logger"
)

type SaleHandler struct {
	processHandler  *commands.ProcessSaleHandler
	validateHandler *commands.ValidateCartHandler
	saleRepo        ports.SaleRepository
	log             *logger.Logger
}

func NewSaleHandler(
	processHandler *commands.ProcessSaleHandler,
	validateHandler *commands.ValidateCartHandler,
	saleRepo ports.SaleRepository,
	log *logger.Logger,
) *SaleHandler {
	return &SaleHandler{
		processHandler:  processHandler,
		validateHandler: validateHandler,
		saleRepo:        saleRepo,
		log:             log,
	}
}

type SaleLineRequest struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

type ProcessSaleRequest struct {
	ActorID int64             `json:"actor_id"`
	Lines   []SaleLineRequest `json:"lines"`
}

func (req *ProcessSaleRequest) toLines() []sales.ProposedLine {
	lines := make([]sales.ProposedLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, sales.ProposedLine{ItemID: line.ItemID, Quantity: line.Quantity})
	}
	return lines
}

func (h *SaleHandler) HandleProcessSale(w http.ResponseWriter, r *http.Request) {
	var req ProcessSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, response.StatusValidationError, "Invalid request body", err.Error())
		return
	}

	if req.ActorID <= 0 {
		response.WriteError(w, http.StatusBadRequest, response.StatusValidationError, "Validation failed", "actor_id must be greater than zero")
		return
	}

	metrics := monitoring.NewSaleBatchMetrics(req.ActorID)
	metrics.RecordAttempt()

	result, err := h.processHandler.Handle(r.Context(), commands.ProcessSaleCommand{
		ActorID: req.ActorID,
		Lines:   req.toLines(),
	})
	if err != nil {
		metrics.RecordFailed("internal")
		response.WriteDomainError(w, err)
		return
	}

	if result.Success {
		response.WriteJSON(w, http.StatusOK, result)
		return
	}

	// A rejected batch carries the rejection message; anything else is a
	// commit-time failure reported as a database error.
	if result.Message == sales.MessageRejected {
		metrics.RecordRejected()
		response.WriteJSON(w, http.StatusUnprocessableEntity, result)
		return
	}

	metrics.RecordFailed("commit")
	response.WriteJSON(w, http.StatusInternalServerError, result)
}

type ValidateCartRequest struct {
	Lines []SaleLineRequest `json:"lines"`
}

func (h *SaleHandler) HandleValidateCart(w http.ResponseWriter, r *http.Request) {
	var req ValidateCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, response.StatusValidationError, "Invalid request body", err.Error())
		return
	}

	lines := make([]sales.ProposedLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, sales.ProposedLine{ItemID: line.ItemID, Quantity: line.Quantity})
	}

	result, err := h.validateHandler.Handle(r.Context(), commands.ValidateCartCommand{Lines: lines})
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteSuccess(w, result)
}

func (h *SaleHandler) HandleListSales(w http.ResponseWriter, r *http.Request) {
	rawActorID := r.URL.Query().Get("actor_id")
	actorID, err := strconv.ParseInt(rawActorID, 10, 64)
	if err != nil || actorID <= 0 {
		response.WriteError(w, http.StatusBadRequest, response.StatusValidationError, "Validation failed", "actor_id query parameter is required")
		return
	}

	limit, offset := parsePagination(r)

	saleRows, err := h.saleRepo.ListByActor(r.Context(), actorID, limit, offset)
	if err != nil {
		h.log.Error("Failed to list sales", "error", err.Error(), "actor_id", actorID)
		response.WriteDomainError(w, err)
		return
	}

	response.WriteSuccess(w, saleRows)
}

type BatchDetailResponse struct {
	BatchCode  string                 `json:"batch_code"`
	Lines      []*sales.CommittedSale `json:"lines"`
	TotalUnits int                    `json:"total_units"`
	TotalCents int64                  `json:"total_cents"`
}

func (h *SaleHandler) HandleGetBatch(w http.ResponseWriter, r *http.Request, batchCode string) {
	batchCode = strings.TrimSpace(batchCode)
	if batchCode == "" {
		response.WriteError(w, http.StatusBadRequest, response.StatusValidationError, "Validation failed", "batch code is required")
		return
	}

	saleRows, err := h.saleRepo.GetByBatchCode(r.Context(), batchCode)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	summary := sales.Summarize(saleRows)
	response.WriteSuccess(w, BatchDetailResponse{
		BatchCode:  batchCode,
		Lines:      saleRows,
		TotalUnits: summary.TotalUnits,
		TotalCents: summary.TotalCents,
	})
}
