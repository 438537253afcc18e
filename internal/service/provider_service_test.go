package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hometracker/home-backup-service/internal/domain"
	"github.com/hometracker/home-backup-service/internal/dto"
	"github.com/hometracker/home-backup-service/pkg/code"
	"github.com/hometracker/home-backup-service/pkg/storage"
)

// --- Mocks ---

type providerMockRepo struct {
	domain.ProviderRepository
	mu        sync.Mutex
	providers map[string]*domain.Provider
}

func newProviderMockRepo() *providerMockRepo {
	return &providerMockRepo{providers: make(map[string]*domain.Provider)}
}

func (m *providerMockRepo) GetByName(ctx context.Context, name string) (*domain.Provider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.providers[name]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *providerMockRepo) List(ctx context.Context) ([]*domain.Provider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Provider
	for _, p := range m.providers {
		cp := *p
		result = append(result, &cp)
	}
	return result, nil
}

func (m *providerMockRepo) Create(ctx context.Context, provider *domain.Provider) (*domain.Provider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	provider.CreatedAt = time.Now()
	cp := *provider
	m.providers[provider.Name] = &cp
	return provider, nil
}

func (m *providerMockRepo) Delete(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.providers, name)
	return nil
}

type providerMockScheduleRepo struct {
	domain.ScheduleRepository
	counts map[string]int64
}

func (m *providerMockScheduleRepo) CountByProvider(ctx context.Context, provider string, enabledOnly bool) (int64, error) {
	return m.counts[provider], nil
}

func newTestProviderService(t *testing.T, repo domain.ProviderRepository, schedRepo domain.ScheduleRepository) (ProviderService, *storage.Registry) {
	t.Helper()
	registry := storage.NewRegistry()
	s := NewProviderService(repo, schedRepo, registry, t.TempDir(), zap.NewNop())
	return s, registry
}

// --- Tests ---

func TestBootstrapRegistersLocal(t *testing.T) {
	s, registry := newTestProviderService(t, newProviderMockRepo(), &providerMockScheduleRepo{})

	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	local, ok := registry.Get(storage.LocalName)
	if !ok {
		t.Fatal("local provider must exist after bootstrap")
	}
	if local.Kind() != storage.Local {
		t.Errorf("kind = %q", local.Kind())
	}
}

func TestBootstrapSkipsUnreachableProviders(t *testing.T) {
	repo := newProviderMockRepo()
	repo.providers["dead-nas"] = &domain.Provider{
		Name: "dead-nas",
		Kind: string(storage.WebDAV),
		URL:  "http://127.0.0.1:1", // nothing listens here
	}

	s, registry := newTestProviderService(t, repo, &providerMockScheduleRepo{})

	// unreachable persisted providers are skipped, never fatal
	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if _, ok := registry.Get("dead-nas"); ok {
		t.Error("unreachable provider must not be registered")
	}
	if _, ok := registry.Get(storage.LocalName); !ok {
		t.Error("local provider must still be registered")
	}
}

func TestAddRejectsDuplicateName(t *testing.T) {
	s, _ := newTestProviderService(t, newProviderMockRepo(), &providerMockScheduleRepo{})
	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	_, err := s.Add(context.Background(), &dto.ProviderAddRequest{
		Name: storage.LocalName,
		URL:  "https://dav.example.com",
	})
	assertCode(t, err, code.ErrorProviderExists)
}

func TestAddRejectsUnknownKind(t *testing.T) {
	s, registry := newTestProviderService(t, newProviderMockRepo(), &providerMockScheduleRepo{})

	_, err := s.Add(context.Background(), &dto.ProviderAddRequest{
		Name: "bucket",
		Kind: "s3",
		URL:  "https://s3.example.com",
	})
	assertCode(t, err, code.ErrorProviderKindInvalid)

	if _, ok := registry.Get("bucket"); ok {
		t.Error("rejected provider must not be registered")
	}
}

func TestAddRejectsPersistedDuplicate(t *testing.T) {
	repo := newProviderMockRepo()
	repo.providers["nas"] = &domain.Provider{Name: "nas", Kind: string(storage.WebDAV)}

	s, _ := newTestProviderService(t, repo, &providerMockScheduleRepo{})

	_, err := s.Add(context.Background(), &dto.ProviderAddRequest{
		Name: "nas",
		URL:  "https://dav.example.com",
	})
	assertCode(t, err, code.ErrorProviderExists)
}

func TestAddUnreachableProvider(t *testing.T) {
	s, registry := newTestProviderService(t, newProviderMockRepo(), &providerMockScheduleRepo{})

	_, err := s.Add(context.Background(), &dto.ProviderAddRequest{
		Name: "nas",
		URL:  "http://127.0.0.1:1",
	})
	assertCode(t, err, code.ErrorProviderUnreachable)

	if _, ok := registry.Get("nas"); ok {
		t.Error("unreachable provider must not be registered")
	}
}

func TestRemoveProtectsLocal(t *testing.T) {
	s, _ := newTestProviderService(t, newProviderMockRepo(), &providerMockScheduleRepo{})
	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	err := s.Remove(context.Background(), storage.LocalName)
	assertCode(t, err, code.ErrorProviderProtected)
}

func TestRemoveNotFound(t *testing.T) {
	s, _ := newTestProviderService(t, newProviderMockRepo(), &providerMockScheduleRepo{})

	err := s.Remove(context.Background(), "missing")
	assertCode(t, err, code.ErrorProviderNotFound)
}

func TestRemoveInUseByEnabledSchedule(t *testing.T) {
	repo := newProviderMockRepo()
	schedRepo := &providerMockScheduleRepo{counts: map[string]int64{"nas": 2}}
	s, registry := newTestProviderService(t, repo, schedRepo)

	_ = registry.Register(newMemProvider("nas"))

	err := s.Remove(context.Background(), "nas")
	assertCode(t, err, code.ErrorProviderInUse)
}

func TestRemove(t *testing.T) {
	repo := newProviderMockRepo()
	repo.providers["nas"] = &domain.Provider{Name: "nas", Kind: string(storage.WebDAV)}
	s, registry := newTestProviderService(t, repo, &providerMockScheduleRepo{})

	_ = registry.Register(newMemProvider("nas"))

	if err := s.Remove(context.Background(), "nas"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok := registry.Get("nas"); ok {
		t.Error("removed provider still registered")
	}
	if p, _ := repo.GetByName(context.Background(), "nas"); p != nil {
		t.Error("removed provider still persisted")
	}
}

func TestTestChecksConnection(t *testing.T) {
	s, registry := newTestProviderService(t, newProviderMockRepo(), &providerMockScheduleRepo{})
	_ = registry.Register(newMemProvider("nas"))

	result, err := s.Test(context.Background(), "nas")
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if !result.OK {
		t.Error("connection check must succeed")
	}

	_, err = s.Test(context.Background(), "missing")
	assertCode(t, err, code.ErrorProviderNotFound)
}
