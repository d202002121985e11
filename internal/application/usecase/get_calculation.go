package usecase

import (
	"context"
	"fmt"

	"github.com/homefinder/loancalc/internal/application/dto"
	"github.com/homefinder/loancalc/internal/domain/model"
	"github.com/homefinder/loancalc/internal/domain/port"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// GetCalculationUseCase retrieves a single history record owned by the caller.
type GetCalculationUseCase struct {
	repo port.CalculationRepository
}

// NewGetCalculationUseCase wires dependencies.
func NewGetCalculationUseCase(repo port.CalculationRepository) *GetCalculationUseCase {
	return &GetCalculationUseCase{repo: repo}
}

// Execute returns port.ErrNotFound both for unknown ids and for records that
// belong to someone else.
func (uc *GetCalculationUseCase) Execute(ctx context.Context, req dto.GetCalculationRequest) (dto.CalculationResponse, error) {
	if req.OwnerID == "" {
		return dto.CalculationResponse{}, ErrOwnerRequired
	}
	calc, err := uc.repo.FindByID(ctx, req.ID)
	if err != nil {
		return dto.CalculationResponse{}, fmt.Errorf("find calculation: %w", err)
	}
	if !calc.IsOwnedBy(req.OwnerID) {
		return dto.CalculationResponse{}, fmt.Errorf("find calculation: %w", port.ErrNotFound)
	}
	return toCalculationResponse(calc), nil
}

// ListCalculationsUseCase pages through the caller's history.
type ListCalculationsUseCase struct {
	repo port.CalculationRepository
}

// NewListCalculationsUseCase wires dependencies.
func NewListCalculationsUseCase(repo port.CalculationRepository) *ListCalculationsUseCase {
	return &ListCalculationsUseCase{repo: repo}
}

// Execute lists newest first. Limit defaults to DefaultHistoryLimit and is
// capped at MaxHistoryLimit.
func (uc *ListCalculationsUseCase) Execute(ctx context.Context, req dto.ListCalculationsRequest) (dto.CalculationListResponse, error) {
	if req.OwnerID == "" {
		return dto.CalculationListResponse{}, ErrOwnerRequired
	}
	limit := req.Limit
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}

	calcs, err := uc.repo.ListByOwner(ctx, req.OwnerID, limit)
	if err != nil {
		return dto.CalculationListResponse{}, fmt.Errorf("list calculations: %w", err)
	}

	items := make([]dto.CalculationResponse, 0, len(calcs))
	for _, c := range calcs {
		items = append(items, toCalculationResponse(c))
	}
	return dto.CalculationListResponse{Items: items, Count: len(items)}, nil
}

func toCalculationResponse(c model.Calculation) dto.CalculationResponse {
	return dto.CalculationResponse{
		ID:        c.ID(),
		Kind:      string(c.Kind()),
		Inputs:    c.Inputs(),
		Result:    c.Result(),
		CreatedAt: c.CreatedAt(),
	}
}
