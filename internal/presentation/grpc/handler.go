package grpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/homefinder/loancalc/internal/application/dto"
	"github.com/homefinder/loancalc/internal/application/usecase"
	"github.com/homefinder/loancalc/internal/domain/model"
	"github.com/homefinder/loancalc/internal/domain/port"
	"github.com/homefinder/loancalc/pkg/auth"
)

// CalculatorHandler exposes the calculators and history over gRPC.
type CalculatorHandler struct {
	UnimplementedCalculatorServiceServer

	calculateEMI     *usecase.CalculateEMIUseCase
	checkEligibility *usecase.CheckEligibilityUseCase
	getCalculation   *usecase.GetCalculationUseCase
	listCalculations *usecase.ListCalculationsUseCase
	logger           *slog.Logger
}

// NewCalculatorHandler creates a new handler with all use-case dependencies.
func NewCalculatorHandler(
	calculateEMI *usecase.CalculateEMIUseCase,
	checkEligibility *usecase.CheckEligibilityUseCase,
	getCalculation *usecase.GetCalculationUseCase,
	listCalculations *usecase.ListCalculationsUseCase,
	logger *slog.Logger,
) *CalculatorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CalculatorHandler{
		calculateEMI:     calculateEMI,
		checkEligibility: checkEligibility,
		getCalculation:   getCalculation,
		listCalculations: listCalculations,
		logger:           logger,
	}
}

// CalculateEMI computes an instalment for the authenticated caller.
func (h *CalculatorHandler) CalculateEMI(ctx context.Context, req *dto.CalculateEMIRequest) (*dto.EMIResponse, error) {
	req.OwnerID = auth.UserIDFromContext(ctx)
	resp, err := h.calculateEMI.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, "CalculateEMI", err)
	}
	return &resp, nil
}

// CheckEligibility scores a borrower profile.
func (h *CalculatorHandler) CheckEligibility(ctx context.Context, req *dto.CheckEligibilityRequest) (*dto.EligibilityResponse, error) {
	req.OwnerID = auth.UserIDFromContext(ctx)
	resp, err := h.checkEligibility.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, "CheckEligibility", err)
	}
	return &resp, nil
}

// GetCalculation returns one of the caller's history records.
func (h *CalculatorHandler) GetCalculation(ctx context.Context, req *dto.GetCalculationRequest) (*dto.CalculationResponse, error) {
	req.OwnerID = auth.UserIDFromContext(ctx)
	resp, err := h.getCalculation.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, "GetCalculation", err)
	}
	return &resp, nil
}

// ListCalculations returns the caller's most recent history records.
func (h *CalculatorHandler) ListCalculations(ctx context.Context, req *dto.ListCalculationsRequest) (*dto.CalculationListResponse, error) {
	req.OwnerID = auth.UserIDFromContext(ctx)
	resp, err := h.listCalculations.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, "ListCalculations", err)
	}
	return &resp, nil
}

func (h *CalculatorHandler) toStatus(ctx context.Context, method string, err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, port.ErrNotFound):
		return status.Error(codes.NotFound, "calculation not found")
	case errors.Is(err, usecase.ErrOwnerRequired):
		return status.Error(codes.Unauthenticated, "authentication required")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		h.logger.ErrorContext(ctx, "grpc call failed", "method", method, "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
