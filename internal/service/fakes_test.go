package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"coresync/coach/internal/domain"
	"coresync/coach/internal/metrics"
	"coresync/coach/internal/notify"
	"coresync/coach/internal/repository"
)

func newTestMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.NewRegistry())
}

type fakePlanRepo struct {
	mu      sync.Mutex
	created []domain.Plan
	active  map[string]*domain.Plan
	err     error
	getErr  error
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{active: map[string]*domain.Plan{}}
}

func (f *fakePlanRepo) CreatePlan(_ context.Context, plan *domain.Plan) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	plan.ID = fmt.Sprintf("plan_%d", len(f.created)+1)
	f.created = append(f.created, *plan)
	if plan.IsActive {
		p := *plan
		f.active[plan.UserID] = &p
	}
	return plan.ID, nil
}

func (f *fakePlanRepo) GetActivePlan(_ context.Context, userID string) (*domain.Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.active[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakePlanRepo) Created() []domain.Plan {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Plan(nil), f.created...)
}

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	synced []domain.UserSync
	err    error
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{users: map[string]*domain.User{}}
	for _, u := range users {
		f.users[u.ClerkID] = u
	}
	return f
}

func (f *fakeUserRepo) SyncUser(_ context.Context, user domain.UserSync) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.synced = append(f.synced, user)
	f.users[user.ClerkID] = &domain.User{ClerkID: user.ClerkID, Name: user.Name, Email: user.Email, Image: user.Image}
	return nil
}

func (f *fakeUserRepo) GetByClerkID(_ context.Context, clerkID string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[clerkID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) Synced() []domain.UserSync {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.UserSync(nil), f.synced...)
}

type fakeDeliveries struct {
	mu       sync.Mutex
	seen     map[string]bool
	released []string
	err      error
}

func newFakeDeliveries() *fakeDeliveries {
	return &fakeDeliveries{seen: map[string]bool{}}
}

func (f *fakeDeliveries) MarkDelivered(_ context.Context, id string, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if f.seen[id] {
		return false, nil
	}
	f.seen[id] = true
	return true, nil
}

func (f *fakeDeliveries) Release(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.seen, id)
	f.released = append(f.released, id)
	return nil
}

type fakeArchive struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{objects: map[string][]byte{}}
}

func (f *fakeArchive) PutObject(_ context.Context, key string, body []byte, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[key] = body
	return nil
}

func (f *fakeArchive) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://archive.test/" + key + "?sig=1", nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notify.PlanReady
	err  error
}

func (f *fakeNotifier) NotifyPlanReady(_ context.Context, msg notify.PlanReady) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}
