package usecase

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/homefinder/loancalc/internal/application/dto"
	"github.com/homefinder/loancalc/internal/domain/model"
	"github.com/homefinder/loancalc/internal/domain/port"
)

// CalculateEMIUseCase computes an instalment and amortization schedule,
// serving repeat inputs from the result cache.
type CalculateEMIUseCase struct {
	cache   port.ResultCache
	metrics port.CalculationMetrics
	history historyRecorder
	logger  *slog.Logger
	now     func() time.Time
}

// NewCalculateEMIUseCase wires dependencies.
func NewCalculateEMIUseCase(
	repo port.CalculationRepository,
	publisher port.EventPublisher,
	cache port.ResultCache,
	metrics port.CalculationMetrics,
	logger *slog.Logger,
) *CalculateEMIUseCase {
	logger = loggerOrDefault(logger)
	return &CalculateEMIUseCase{
		cache:   cache,
		metrics: metrics,
		history: historyRecorder{repo: repo, publisher: publisher, logger: logger},
		logger:  logger,
		now:     time.Now,
	}
}

// Execute validates the loan terms, computes (or recalls) the result and
// records it in the caller's history.
func (uc *CalculateEMIUseCase) Execute(ctx context.Context, req dto.CalculateEMIRequest) (dto.EMIResponse, error) {
	if err := req.Validate(); err != nil {
		return dto.EMIResponse{}, err
	}
	in := req.LoanInputs()
	key := EMICacheKey(in)

	// 1. Cache lookup.
	res, cached, err := uc.cache.Get(ctx, key)
	if err != nil {
		uc.logger.WarnContext(ctx, "emi cache lookup failed", "key", key, "error", err)
		cached = false
	}

	// 2. Compute on miss.
	if !cached {
		res, err = model.ComputeEMI(in.Principal, in.AnnualRatePercent, in.TermYears)
		if err != nil {
			return dto.EMIResponse{}, err
		}
		if err := uc.cache.Set(ctx, key, res); err != nil {
			uc.logger.WarnContext(ctx, "emi cache store failed", "key", key, "error", err)
		}
	}

	// 3. Record history and publish.
	calc, err := model.NewEMICalculation(req.OwnerID, res, uc.now())
	if err != nil {
		return dto.EMIResponse{}, err
	}
	id := uc.history.record(ctx, &calc)

	uc.metrics.Record(ctx, model.KindEMI, cached)

	return toEMIResponse(id, res, cached, req.IncludeSchedule, req.IncludeYearly), nil
}

// EMICacheKey is the canonical cache key for a set of loan terms.
func EMICacheKey(in model.LoanInputs) string {
	return "emi:v1:" +
		strconv.FormatFloat(in.Principal, 'g', -1, 64) + ":" +
		strconv.FormatFloat(in.AnnualRatePercent, 'g', -1, 64) + ":" +
		strconv.Itoa(in.TermYears)
}

func toEMIResponse(id string, res model.EMIResult, cached, withSchedule, withYearly bool) dto.EMIResponse {
	resp := dto.EMIResponse{
		CalculationID:     id,
		Principal:         res.Inputs.Principal,
		AnnualRatePercent: res.Inputs.AnnualRatePercent,
		TermYears:         res.Inputs.TermYears,
		MonthlyPayment:    res.MonthlyPayment,
		TotalPayment:      res.TotalPayment,
		TotalInterest:     res.TotalInterest,
		Months:            len(res.Schedule),
		Cached:            cached,
	}
	if withSchedule {
		resp.Schedule = make([]dto.ScheduleEntryResponse, len(res.Schedule))
		for i, e := range res.Schedule {
			resp.Schedule[i] = dto.ScheduleEntryResponse{
				Month:     e.Month,
				Principal: e.Principal,
				Interest:  e.Interest,
				Balance:   e.RemainingBalance,
			}
		}
	}
	if withYearly {
		for _, y := range model.SummarizeByYear(res.Schedule) {
			resp.Yearly = append(resp.Yearly, dto.YearlySummaryResponse{
				Year:           y.Year,
				PrincipalPaid:  y.PrincipalPaid,
				InterestPaid:   y.InterestPaid,
				ClosingBalance: y.ClosingBalance,
			})
		}
	}
	return resp
}
