package commands

import (
	"context"

	"github.com/pharmadesk/pharmacy-service/internal/application/use_cases"
	"github.com/pharmadesk/pharmacy-service/internal/domain/sales"
	"github.com/pharmadesk/pharmacy-service/internal/pkg/logger"
)

type ProcessSaleCommand struct {
	ActorID int64
	Lines   []sales.ProposedLine
}

type ProcessSaleHandler struct {
	saleUseCase *use_cases.SaleTransactionUseCase
	log         *logger.Logger
}

func NewProcessSaleHandler(
	saleUseCase *use_cases.SaleTransactionUseCase,
	log *logger.Logger,
) *ProcessSaleHandler {
	return &ProcessSaleHandler{
		saleUseCase: saleUseCase,
		log:         log,
	}
}

func (h *ProcessSaleHandler) Handle(ctx context.Context, cmd ProcessSaleCommand) (*sales.BatchResult, error) {
	h.log.Info("Processing sale batch", "actor_id", cmd.ActorID, "lines", len(cmd.Lines))

	result, err := h.saleUseCase.ProcessSale(ctx, cmd.ActorID, cmd.Lines)
	if err != nil {
		h.log.Error("Sale batch processing failed", "error", err.Error(), "actor_id", cmd.ActorID)
		return nil, err
	}

	return result, nil
}
