package commands

import (
	"context"

	"github.com/pharmadesk/pharmacy-service/internal/application/use_cases"
	"github.com/pharmadesk/pharmacy-service/internal/domain/sales"
	"github.com/pharmadesk/pharmacy-service/internal/pkg/logger"
)

type ValidateCartCommand struct {
	Lines []sales.ProposedLine
}

type ValidateCartResponse struct {
	Valid      bool              `json:"valid"`
	Violations []sales.Violation `json:"violations"`
}

type ValidateCartHandler struct {
	saleUseCase *use_cases.SaleTransactionUseCase
	log         *logger.Logger
}

func NewValidateCartHandler(
	saleUseCase *use_cases.SaleTransactionUseCase,
	log *logger.Logger,
) *ValidateCartHandler {
	return &ValidateCartHandler{
		saleUseCase: saleUseCase,
		log:         log,
	}
}

func (h *ValidateCartHandler) Handle(ctx context.Context, cmd ValidateCartCommand) (*ValidateCartResponse, error) {
	violations, err := h.saleUseCase.ValidateCart(ctx, cmd.Lines)
	if err != nil {
		h.log.Error("Cart validation failed", "error", err.Error())
		return nil, err
	}

	return &ValidateCartResponse{
		Valid:      len(violations) == 0,
		Violations: violations,
	}, nil
}
