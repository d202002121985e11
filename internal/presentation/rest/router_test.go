package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homefinder/loancalc/internal/application/usecase"
	"github.com/homefinder/loancalc/internal/domain/port"
	"github.com/homefinder/loancalc/internal/domain/service"
	"github.com/homefinder/loancalc/internal/infrastructure/export"
	"github.com/homefinder/loancalc/internal/infrastructure/persistence/memory"
	"github.com/homefinder/loancalc/internal/presentation/rest"
	"github.com/homefinder/loancalc/pkg/auth"
)

type envelope struct {
	ErrorCode int             `json:"error_code"`
	Status    string          `json:"status"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
}

type memoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func (s *memoryStore) Put(_ context.Context, key string, data []byte, _ string) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *memoryStore) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://objects.test/" + key + "?sig=abc", nil
}

type testServer struct {
	handler http.Handler
	jwt     *auth.JWTService
	store   *memoryStore
}

func newTestServer(t *testing.T, opts ...func(*rest.RouterConfig)) *testServer {
	t.Helper()

	jwtSvc, err := auth.NewJWTService(auth.JWTConfig{
		Secret:     "test-secret",
		Issuer:     "homefinder",
		Expiration: time.Hour,
	})
	require.NoError(t, err)

	repo := memory.NewCalculationRepo(100)
	store := &memoryStore{objects: make(map[string][]byte)}
	scorer := service.NewEligibilityScorer()

	uc := rest.UseCases{
		CalculateEMI:     usecase.NewCalculateEMIUseCase(repo, port.NoopPublisher{}, port.NoopCache{}, port.NoopMetrics{}, nil),
		CheckEligibility: usecase.NewCheckEligibilityUseCase(scorer, repo, port.NoopPublisher{}, port.NoopMetrics{}, nil),
		ExportSchedule:   usecase.NewExportScheduleUseCase(export.NewXLSXRenderer("test"), store, port.NoopPublisher{}, 0, nil),
		ShareSummary:     usecase.NewShareSummaryUseCase(scorer),
		GetCalculation:   usecase.NewGetCalculationUseCase(repo),
		ListCalculations: usecase.NewListCalculationsUseCase(repo),
	}

	cfg := rest.RouterConfig{
		Handler: rest.NewHandler(uc, nil),
		Health:  rest.NewHealthHandler("loancalc", nil, nil),
		JWT:     jwtSvc,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	h, err := rest.NewRouter(cfg)
	require.NoError(t, err)
	return &testServer{handler: h, jwt: jwtSvc, store: store}
}

func (s *testServer) token(t *testing.T, userID string) string {
	t.Helper()
	tok, err := s.jwt.GenerateToken(userID, nil)
	require.NoError(t, err)
	return tok
}

func (s *testServer) do(t *testing.T, method, path, body, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

const loanBody = `{"principal":1000000,"annual_rate_percent":8.5,"term_years":20}`

func TestRouter_CalculateEMI(t *testing.T) {
	srv := newTestServer(t)

	t.Run("anonymous request succeeds", func(t *testing.T) {
		rec, env := srv.do(t, http.MethodPost, "/api/v1/emi", loanBody, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, rest.CodeOK, env.ErrorCode)
		assert.Equal(t, "success", env.Status)

		var data struct {
			MonthlyPayment float64 `json:"monthly_payment"`
			Months         int     `json:"months"`
			Schedule       []any   `json:"schedule"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.InDelta(t, 8678.23, data.MonthlyPayment, 0.01)
		assert.Equal(t, 240, data.Months)
		assert.Empty(t, data.Schedule)
	})

	t.Run("schedule on request", func(t *testing.T) {
		body := `{"principal":120000,"annual_rate_percent":12,"term_years":1,"include_schedule":true}`
		rec, env := srv.do(t, http.MethodPost, "/api/v1/emi", body, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var data struct {
			Schedule []any `json:"schedule"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Len(t, data.Schedule, 12)
	})

	t.Run("invalid input names the field", func(t *testing.T) {
		body := `{"principal":-1,"annual_rate_percent":8.5,"term_years":20}`
		rec, env := srv.do(t, http.MethodPost, "/api/v1/emi", body, "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, rest.CodeInvalidInput, env.ErrorCode)
		assert.Equal(t, "error", env.Status)
		assert.JSONEq(t, `{"field":"principal"}`, string(env.Data))
	})

	t.Run("term above maximum is rejected", func(t *testing.T) {
		body := `{"principal":100000,"annual_rate_percent":8.5,"term_years":100000000}`
		rec, env := srv.do(t, http.MethodPost, "/api/v1/emi", body, "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, rest.CodeInvalidInput, env.ErrorCode)
		assert.JSONEq(t, `{"field":"term_years"}`, string(env.Data))
	})

	t.Run("non-numeric field is rejected", func(t *testing.T) {
		body := `{"principal":"lots","annual_rate_percent":8.5,"term_years":20}`
		rec, env := srv.do(t, http.MethodPost, "/api/v1/emi", body, "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, rest.CodeInvalidInput, env.ErrorCode)
		assert.Contains(t, env.Message, "principal")
	})

	t.Run("missing body is rejected", func(t *testing.T) {
		rec, env := srv.do(t, http.MethodPost, "/api/v1/emi", "", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "request body is required", env.Message)
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		rec, env := srv.do(t, http.MethodPost, "/api/v1/emi", loanBody, "not-a-token")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, rest.CodeUnauthorized, env.ErrorCode)
	})
}

func TestRouter_CheckEligibility(t *testing.T) {
	srv := newTestServer(t)

	body := `{"monthly_income":100000,"monthly_expenses":30000,"existing_monthly_debt":0,
		"employment_type":"salaried","credit_score":780,"age":35}`
	rec, env := srv.do(t, http.MethodPost, "/api/v1/eligibility", body, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		MaxLoanAmount    float64  `json:"max_loan_amount"`
		EligibilityScore int      `json:"eligibility_score"`
		Recommendations  []string `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Positive(t, data.MaxLoanAmount)
	assert.NotEmpty(t, data.Recommendations)

	t.Run("unknown employment type", func(t *testing.T) {
		body := `{"monthly_income":100000,"monthly_expenses":0,"existing_monthly_debt":0,"employment_type":"retired"}`
		rec, env := srv.do(t, http.MethodPost, "/api/v1/eligibility", body, "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"field":"employment_type"}`, string(env.Data))
	})
}

func TestRouter_History(t *testing.T) {
	srv := newTestServer(t)
	alice := srv.token(t, "alice")
	bob := srv.token(t, "bob")

	t.Run("requires authentication", func(t *testing.T) {
		rec, env := srv.do(t, http.MethodGet, "/api/v1/calculations", "", "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, rest.CodeUnauthorized, env.ErrorCode)
	})

	_, env := srv.do(t, http.MethodPost, "/api/v1/emi", loanBody, alice)
	var calc struct {
		CalculationID string `json:"calculation_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &calc))
	require.NotEmpty(t, calc.CalculationID)

	// Anonymous calculations are never listed.
	srv.do(t, http.MethodPost, "/api/v1/emi", loanBody, "")

	t.Run("lists the owner's calculations", func(t *testing.T) {
		rec, env := srv.do(t, http.MethodGet, "/api/v1/calculations?limit=5", "", alice)
		require.Equal(t, http.StatusOK, rec.Code)

		var list struct {
			Items []struct {
				ID   string `json:"id"`
				Kind string `json:"kind"`
			} `json:"items"`
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &list))
		require.Equal(t, 1, list.Count)
		assert.Equal(t, calc.CalculationID, list.Items[0].ID)
		assert.Equal(t, "emi", list.Items[0].Kind)
	})

	t.Run("bad limit", func(t *testing.T) {
		rec, env := srv.do(t, http.MethodGet, "/api/v1/calculations?limit=ten", "", alice)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, rest.CodeInvalidInput, env.ErrorCode)
	})

	t.Run("owner can fetch a record", func(t *testing.T) {
		rec, _ := srv.do(t, http.MethodGet, "/api/v1/calculations/"+calc.CalculationID, "", alice)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("other users get not found", func(t *testing.T) {
		rec, env := srv.do(t, http.MethodGet, "/api/v1/calculations/"+calc.CalculationID, "", bob)
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, rest.CodeNotFound, env.ErrorCode)
	})
}

func TestRouter_ExportSchedule(t *testing.T) {
	srv := newTestServer(t)
	tok := srv.token(t, "alice")

	t.Run("requires authentication", func(t *testing.T) {
		rec, _ := srv.do(t, http.MethodPost, "/api/v1/emi/export", loanBody, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("uploads and returns a link", func(t *testing.T) {
		rec, env := srv.do(t, http.MethodPost, "/api/v1/emi/export?currency=USD&locale=en-US", loanBody, tok)
		require.Equal(t, http.StatusOK, rec.Code)

		var data struct {
			ObjectKey string `json:"object_key"`
			URL       string `json:"url"`
			SizeBytes int64  `json:"size_bytes"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.True(t, strings.HasPrefix(data.ObjectKey, "schedules/alice/"))
		assert.True(t, strings.HasSuffix(data.ObjectKey, ".xlsx"))
		assert.Contains(t, data.URL, data.ObjectKey)
		assert.Positive(t, data.SizeBytes)
		assert.Len(t, srv.store.objects, 1)
	})

	t.Run("unknown currency", func(t *testing.T) {
		rec, env := srv.do(t, http.MethodPost, "/api/v1/emi/export?currency=ZZZ", loanBody, tok)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"field":"currency"}`, string(env.Data))
	})

	t.Run("upload failure is an internal error", func(t *testing.T) {
		srv.store.putErr = errors.New("bucket unavailable")
		defer func() { srv.store.putErr = nil }()

		rec, env := srv.do(t, http.MethodPost, "/api/v1/emi/export", loanBody, tok)
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, rest.CodeInternal, env.ErrorCode)
		assert.Equal(t, "internal error", env.Message)
	})
}

func TestRouter_ExportNotConfigured(t *testing.T) {
	jwtSvc, err := auth.NewJWTService(auth.JWTConfig{Secret: "s", Issuer: "homefinder", Expiration: time.Hour})
	require.NoError(t, err)

	h, err := rest.NewRouter(rest.RouterConfig{
		Handler: rest.NewHandler(rest.UseCases{}, nil),
		Health:  rest.NewHealthHandler("loancalc", nil, nil),
		JWT:     jwtSvc,
	})
	require.NoError(t, err)

	tok, err := jwtSvc.GenerateToken("alice", nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/emi/export", strings.NewReader(loanBody))
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_Summaries(t *testing.T) {
	srv := newTestServer(t)

	t.Run("emi summary", func(t *testing.T) {
		rec, env := srv.do(t, http.MethodPost, "/api/v1/emi/summary?currency=USD&locale=en-US", loanBody, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var data struct {
			Text     string `json:"text"`
			Currency string `json:"currency"`
			Locale   string `json:"locale"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Contains(t, data.Text, "Home loan EMI summary")
		assert.Equal(t, "USD", data.Currency)
		assert.Equal(t, "en-US", data.Locale)
	})

	t.Run("eligibility summary uses defaults", func(t *testing.T) {
		body := `{"monthly_income":100000,"monthly_expenses":30000,"existing_monthly_debt":0,"employment_type":"salaried"}`
		rec, env := srv.do(t, http.MethodPost, "/api/v1/eligibility/summary", body, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var data struct {
			Text     string `json:"text"`
			Currency string `json:"currency"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Contains(t, data.Text, "Eligibility score:")
		assert.Equal(t, "INR", data.Currency)
	})

	t.Run("bad locale", func(t *testing.T) {
		rec, env := srv.do(t, http.MethodPost, "/api/v1/emi/summary?locale=!!", loanBody, "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"field":"locale"}`, string(env.Data))
	})
}

func TestRouter_RateLimit(t *testing.T) {
	srv := newTestServer(t, func(cfg *rest.RouterConfig) {
		cfg.Limiter = rest.NewRateLimiter(0.001, 1)
	})

	rec, _ := srv.do(t, http.MethodPost, "/api/v1/emi", loanBody, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := srv.do(t, http.MethodPost, "/api/v1/emi", loanBody, "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, rest.CodeRateLimited, env.ErrorCode)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// Probes are not rate limited.
	rec, _ = srv.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Health(t *testing.T) {
	srv := newTestServer(t, func(cfg *rest.RouterConfig) {
		cfg.Health = rest.NewHealthHandler("loancalc", map[string]rest.ReadinessCheck{
			"database": func(context.Context) error { return nil },
			"cache":    func(context.Context) error { return errors.New("connection refused") },
		}, nil)
	})

	rec, _ := srv.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = srv.do(t, http.MethodGet, "/readyz", "", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not_ready", body.Status)
	assert.Equal(t, "ok", body.Checks["database"])
	assert.Equal(t, "connection refused", body.Checks["cache"])
}

func TestRouter_UnknownRoute(t *testing.T) {
	srv := newTestServer(t)

	rec, env := srv.do(t, http.MethodGet, "/api/v1/nope", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, rest.CodeNotFound, env.ErrorCode)
}

func TestNewRouter_RequiresJWT(t *testing.T) {
	_, err := rest.NewRouter(rest.RouterConfig{
		Handler: rest.NewHandler(rest.UseCases{}, nil),
		Health:  rest.NewHealthHandler("loancalc", nil, nil),
	})
	assert.Error(t, err)
}
