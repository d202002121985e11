package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/homefinder/loancalc/internal/application/dto"
	"github.com/homefinder/loancalc/internal/application/usecase"
	"github.com/homefinder/loancalc/pkg/auth"
)

const maxBodyBytes = 1 << 20

// UseCases groups the application services the handlers call. Export may be
// nil when no object storage is configured.
type UseCases struct {
	CalculateEMI     *usecase.CalculateEMIUseCase
	CheckEligibility *usecase.CheckEligibilityUseCase
	ExportSchedule   *usecase.ExportScheduleUseCase
	ShareSummary     *usecase.ShareSummaryUseCase
	GetCalculation   *usecase.GetCalculationUseCase
	ListCalculations *usecase.ListCalculationsUseCase
}

// Handler adapts HTTP requests to use case calls.
type Handler struct {
	uc     UseCases
	logger *slog.Logger
}

// NewHandler creates the calculator HTTP handler.
func NewHandler(uc UseCases, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{uc: uc, logger: logger}
}

func (h *Handler) calculateEMI(w http.ResponseWriter, r *http.Request) {
	var req dto.CalculateEMIRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.OwnerID = auth.UserIDFromContext(r.Context())

	resp, err := h.uc.CalculateEMI.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	success(w, "emi calculated", resp)
}

func (h *Handler) checkEligibility(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckEligibilityRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.OwnerID = auth.UserIDFromContext(r.Context())

	resp, err := h.uc.CheckEligibility.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	success(w, "eligibility assessed", resp)
}

func (h *Handler) exportSchedule(w http.ResponseWriter, r *http.Request) {
	if h.uc.ExportSchedule == nil {
		errorResponse(w, http.StatusServiceUnavailable, CodeInternal, "schedule export is not configured")
		return
	}

	var req dto.ExportScheduleRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.OwnerID = auth.UserIDFromContext(r.Context())
	req.Currency, req.Locale = displayParams(r)

	resp, err := h.uc.ExportSchedule.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	success(w, "schedule exported", resp)
}

func (h *Handler) emiSummary(w http.ResponseWriter, r *http.Request) {
	var req dto.EMISummaryRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.Currency, req.Locale = displayParams(r)

	resp, err := h.uc.ShareSummary.EMI(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	success(w, "summary generated", resp)
}

func (h *Handler) eligibilitySummary(w http.ResponseWriter, r *http.Request) {
	var req dto.EligibilitySummaryRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.Currency, req.Locale = displayParams(r)

	resp, err := h.uc.ShareSummary.Eligibility(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	success(w, "summary generated", resp)
}

func (h *Handler) listCalculations(w http.ResponseWriter, r *http.Request) {
	req := dto.ListCalculationsRequest{OwnerID: auth.UserIDFromContext(r.Context())}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			respond(w, http.StatusBadRequest, CodeInvalidInput, "limit must be an integer", map[string]string{"field": "limit"})
			return
		}
		req.Limit = limit
	}

	resp, err := h.uc.ListCalculations.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	success(w, "calculations retrieved", resp)
}

func (h *Handler) getCalculation(w http.ResponseWriter, r *http.Request) {
	req := dto.GetCalculationRequest{
		OwnerID: auth.UserIDFromContext(r.Context()),
		ID:      chi.URLParam(r, "id"),
	}

	resp, err := h.uc.GetCalculation.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	success(w, "calculation retrieved", resp)
}

// decode reads a JSON body into dst. It writes a 400 and returns false when
// the body is missing or malformed.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		errorResponse(w, http.StatusBadRequest, CodeInvalidInput, decodeMessage(err))
		return false
	}
	return true
}

func decodeMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		return "request body is required"
	case errors.As(err, &typeErr):
		return fmt.Sprintf("invalid value for field %q", typeErr.Field)
	case errors.As(err, &maxErr):
		return "request body too large"
	default:
		return "invalid JSON body: " + err.Error()
	}
}

// displayParams reads the currency and locale query parameters. Empty values
// fall back to the formatter defaults.
func displayParams(r *http.Request) (currency, locale string) {
	q := r.URL.Query()
	return q.Get("currency"), q.Get("locale")
}
