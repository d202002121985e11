package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/homefinder/loancalc/internal/domain/event"
	"github.com/homefinder/loancalc/internal/domain/model"
	"github.com/homefinder/loancalc/internal/domain/port"
)

// ---------------------------------------------------------------------------
// Mock CalculationRepository
// ---------------------------------------------------------------------------

type mockCalculationRepository struct {
	mu              sync.Mutex
	saved           []model.Calculation
	saveFunc        func(ctx context.Context, calc model.Calculation) error
	findByIDFunc    func(ctx context.Context, id string) (model.Calculation, error)
	listByOwnerFunc func(ctx context.Context, ownerID string, limit int) ([]model.Calculation, error)
}

func (m *mockCalculationRepository) Save(ctx context.Context, calc model.Calculation) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, calc)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, calc)
	return nil
}

func (m *mockCalculationRepository) FindByID(ctx context.Context, id string) (model.Calculation, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Calculation{}, port.ErrNotFound
}

func (m *mockCalculationRepository) ListByOwner(ctx context.Context, ownerID string, limit int) ([]model.Calculation, error) {
	if m.listByOwnerFunc != nil {
		return m.listByOwnerFunc(ctx, ownerID, limit)
	}
	return nil, nil
}

// ---------------------------------------------------------------------------
// Mock EventPublisher
// ---------------------------------------------------------------------------

type mockEventPublisher struct {
	published   []event.DomainEvent
	publishFunc func(ctx context.Context, events ...event.DomainEvent) error
}

func (m *mockEventPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, events...)
	}
	m.published = append(m.published, events...)
	return nil
}

// ---------------------------------------------------------------------------
// Mock ResultCache
// ---------------------------------------------------------------------------

type mockResultCache struct {
	entries map[string]model.EMIResult
	getErr  error
	setErr  error
	sets    int
}

func newMockResultCache() *mockResultCache {
	return &mockResultCache{entries: make(map[string]model.EMIResult)}
}

func (m *mockResultCache) Get(_ context.Context, key string) (model.EMIResult, bool, error) {
	if m.getErr != nil {
		return model.EMIResult{}, false, m.getErr
	}
	res, ok := m.entries[key]
	return res, ok, nil
}

func (m *mockResultCache) Set(_ context.Context, key string, res model.EMIResult) error {
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.entries[key] = res
	return nil
}

// ---------------------------------------------------------------------------
// Mock CalculationMetrics
// ---------------------------------------------------------------------------

type metricCall struct {
	kind   model.CalculationKind
	cached bool
}

type mockMetrics struct {
	calls []metricCall
}

func (m *mockMetrics) Record(_ context.Context, kind model.CalculationKind, cached bool) {
	m.calls = append(m.calls, metricCall{kind: kind, cached: cached})
}

// ---------------------------------------------------------------------------
// Mock ScheduleRenderer / ObjectStore
// ---------------------------------------------------------------------------

type mockRenderer struct {
	lastOpts   port.RenderOptions
	renderFunc func(res model.EMIResult, opts port.RenderOptions) ([]byte, error)
}

func (m *mockRenderer) Render(res model.EMIResult, opts port.RenderOptions) ([]byte, error) {
	m.lastOpts = opts
	if m.renderFunc != nil {
		return m.renderFunc(res, opts)
	}
	return []byte("xlsx-bytes"), nil
}

func (m *mockRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (m *mockRenderer) Extension() string { return "xlsx" }

type mockObjectStore struct {
	objects     map[string][]byte
	putErr      error
	presignFunc func(ctx context.Context, key string, ttl time.Duration) (string, error)
}

func newMockObjectStore() *mockObjectStore {
	return &mockObjectStore{objects: make(map[string][]byte)}
}

func (m *mockObjectStore) Put(_ context.Context, key string, data []byte, _ string) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.objects[key] = data
	return nil
}

func (m *mockObjectStore) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if m.presignFunc != nil {
		return m.presignFunc(ctx, key, ttl)
	}
	return "https://objects.test/" + key + "?sig=abc", nil
}
