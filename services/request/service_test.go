package request

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/ConteMartin/PASTO/config"
	"github.com/ConteMartin/PASTO/models"
	"github.com/ConteMartin/PASTO/services/notification"
	"github.com/ConteMartin/PASTO/services/pricing"

	"go.mongodb.org/mongo-driver/mongo"
)

// fakeRequestRepo is an in-memory RequestRepository with the same
// check-and-set semantics as the Mongo implementation: every mutation
// re-checks its precondition under the lock.
type fakeRequestRepo struct {
	mu    sync.Mutex
	reqs  map[string]*models.ServiceRequest
	order []string
	seq   int
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{reqs: make(map[string]*models.ServiceRequest)}
}

func (f *fakeRequestRepo) Create(ctx context.Context, req *models.ServiceRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	req.ID = fmt.Sprintf("req-%d", f.seq)
	req.CreatedAt = time.Now().UTC()
	req.StatusUpdatedAt = req.CreatedAt
	stored := *req
	f.reqs[req.ID] = &stored
	f.order = append(f.order, req.ID)
	return nil
}

func (f *fakeRequestRepo) GetByID(ctx context.Context, id string) (*models.ServiceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.reqs[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	snapshot := *stored
	return &snapshot, nil
}

func (f *fakeRequestRepo) GetByClient(ctx context.Context, clientID string) ([]models.ServiceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ServiceRequest
	for i := len(f.order) - 1; i >= 0; i-- {
		if r := f.reqs[f.order[i]]; r.ClientID == clientID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) GetByGardener(ctx context.Context, gardenerID string) ([]models.ServiceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ServiceRequest
	for i := len(f.order) - 1; i >= 0; i-- {
		r := f.reqs[f.order[i]]
		if r.GardenerID != nil && *r.GardenerID == gardenerID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) GetAvailable(ctx context.Context) ([]models.ServiceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ServiceRequest
	for _, id := range f.order {
		if r := f.reqs[id]; r.Status == models.StatusPending && r.GardenerID == nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) AcceptPending(ctx context.Context, id, gardenerID string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reqs[id]
	if !ok || r.Status != models.StatusPending || r.GardenerID != nil {
		return false, nil
	}
	g := gardenerID
	r.GardenerID = &g
	r.Status = models.StatusAccepted
	r.StatusUpdatedAt = at
	return true, nil
}

func (f *fakeRequestRepo) UpdateStatus(ctx context.Context, id, from, to, actorField, actorID string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reqs[id]
	if !ok || r.Status != from {
		return false, nil
	}
	switch actorField {
	case "client_id":
		if r.ClientID != actorID {
			return false, nil
		}
	case "gardener_id":
		if r.GardenerID == nil || *r.GardenerID != actorID {
			return false, nil
		}
	default:
		return false, fmt.Errorf("unknown actor field %q", actorField)
	}
	r.Status = to
	r.StatusUpdatedAt = at
	return true, nil
}

func (f *fakeRequestRepo) SetRating(ctx context.Context, id, side string, rating models.Rating) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reqs[id]
	if !ok || r.Status != models.StatusCompleted {
		return false, nil
	}
	switch side {
	case "client_rating":
		if r.ClientRating != nil {
			return false, nil
		}
		r.ClientRating = &rating
	case "gardener_rating":
		if r.GardenerRating != nil {
			return false, nil
		}
		r.GardenerRating = &rating
	default:
		return false, fmt.Errorf("unknown rating side %q", side)
	}
	return true, nil
}

func (f *fakeRequestRepo) EnsureIndexes() error { return nil }

// fakeUserRepo is an in-memory UserRepository mirroring the incremental
// mean update of the Mongo implementation.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		stored := *u
		f.users[u.ID] = &stored
	}
	return f
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	snapshot := *u
	return &snapshot, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			snapshot := *u
			return &snapshot, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeUserRepo) GetManyByIDs(ctx context.Context, ids []string) (map[string]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]models.User, len(ids))
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = *u
		}
	}
	return out, nil
}

func (f *fakeUserRepo) ApplyRating(ctx context.Context, userID string, score int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return fmt.Errorf("user %s not found", userID)
	}
	newAvg := (u.Rating*float64(u.TotalRatings) + float64(score)) / float64(u.TotalRatings+1)
	u.Rating = math.Round(newAvg*100) / 100
	u.TotalRatings++
	return nil
}

func (f *fakeUserRepo) IncrementCompletedJobs(ctx context.Context, gardenerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[gardenerID]
	if !ok || u.Gardener == nil {
		return fmt.Errorf("gardener %s not found", gardenerID)
	}
	u.Gardener.CompletedJobs++
	return nil
}

func (f *fakeUserRepo) EnsureIndexes() error { return nil }

// recordedTransition captures one dispatcher call.
type recordedTransition struct {
	RequestID string
	From      string
	To        string
	ActorID   string
}

type fakeDispatcher struct {
	mu          sync.Mutex
	transitions []recordedTransition
}

func (f *fakeDispatcher) OnTransition(ctx context.Context, req *models.ServiceRequest, from, to, actorID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transitions = append(f.transitions, recordedTransition{req.ID, from, to, actorID})
}

func (f *fakeDispatcher) ListForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	return []models.Notification{}, nil
}

func (f *fakeDispatcher) MarkRead(ctx context.Context, id, userID string) error {
	return notification.ErrNotFound
}

func (f *fakeDispatcher) recorded() []recordedTransition {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]recordedTransition, len(f.transitions))
	copy(out, f.transitions)
	return out
}

func testPricing() config.PricingConfig {
	return config.PricingConfig{
		Currency: "ARS",
		Rates: map[string]config.ServiceRate{
			models.ServiceGrassCutting: {BasePrice: 500, BaseDuration: 30, PricePerSqm: 5, MinutesPerSqm: 0.3},
			models.ServicePruning:      {BasePrice: 800, BaseDuration: 45, PricePerSqm: 8, MinutesPerSqm: 0.45},
			models.ServiceCleaning:     {BasePrice: 400, BaseDuration: 60, PricePerSqm: 4, MinutesPerSqm: 0.6},
			models.ServiceMaintenance:  {BasePrice: 1000, BaseDuration: 90, PricePerSqm: 10, MinutesPerSqm: 0.9},
		},
		DifficultyMultipliers: map[string]float64{
			models.DifficultyEasy:   1.0,
			models.DifficultyMedium: 1.3,
			models.DifficultyHard:   1.6,
		},
	}
}

func testUsers() (*models.User, *models.User, *models.User) {
	client := &models.User{ID: "client-1", Email: "ana@example.com", FullName: "Ana García", Role: models.RoleClient, IsActive: true}
	gardener := &models.User{ID: "gardener-1", Email: "luis@example.com", FullName: "Luis Pérez", Role: models.RoleGardener, IsActive: true, Gardener: &models.GardenerProfile{IsAvailable: true}}
	rival := &models.User{ID: "gardener-2", Email: "marta@example.com", FullName: "Marta López", Role: models.RoleGardener, IsActive: true, Gardener: &models.GardenerProfile{IsAvailable: true}}
	return client, gardener, rival
}

func newTestService() (*DefaultRequestService, *fakeRequestRepo, *fakeUserRepo, *fakeDispatcher) {
	client, gardener, rival := testUsers()
	repo := newFakeRequestRepo()
	users := newFakeUserRepo(client, gardener, rival)
	dispatcher := &fakeDispatcher{}
	svc := &DefaultRequestService{
		Repo:       repo,
		Users:      users,
		Estimator:  pricing.NewEstimator(testPricing()),
		Dispatcher: dispatcher,
	}
	return svc, repo, users, dispatcher
}

func createGrassRequest(t *testing.T, svc *DefaultRequestService) *models.ServiceRequest {
	t.Helper()
	req, err := svc.Create(context.Background(), CreateInput{
		ClientID:      "client-1",
		ServiceType:   models.ServiceGrassCutting,
		Address:       "Av. Siempreviva 742",
		TerrainWidth:  10,
		TerrainLength: 10,
		IsImmediate:   true,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return req
}

func TestCreateFreezesQuote(t *testing.T) {
	svc, _, _, _ := newTestService()

	quote, err := svc.Estimate(models.ServiceGrassCutting, 10, 10, nil)
	if err != nil {
		t.Fatalf("estimate failed: %v", err)
	}

	req := createGrassRequest(t, svc)
	if req.Status != models.StatusPending {
		t.Errorf("status = %s, want pending", req.Status)
	}
	if req.GardenerID != nil {
		t.Errorf("gardener assigned at creation: %v", *req.GardenerID)
	}
	if req.EstimatedPrice != quote.EstimatedPrice || req.EstimatedDuration != quote.EstimatedDuration {
		t.Errorf("frozen quote %v/%v does not match estimate %v/%v",
			req.EstimatedPrice, req.EstimatedDuration, quote.EstimatedPrice, quote.EstimatedDuration)
	}
	if req.Currency != "ARS" {
		t.Errorf("currency = %q, want ARS", req.Currency)
	}
	if req.Images == nil {
		t.Error("images should default to an empty slice")
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	hard := models.DifficultyHard

	cases := []struct {
		name  string
		input CreateInput
	}{
		{"missing client", CreateInput{ServiceType: models.ServiceGrassCutting, Address: "x", TerrainWidth: 5, TerrainLength: 5}},
		{"missing address", CreateInput{ClientID: "client-1", ServiceType: models.ServiceGrassCutting, TerrainWidth: 5, TerrainLength: 5}},
		{"zero terrain", CreateInput{ClientID: "client-1", ServiceType: models.ServiceGrassCutting, Address: "x", TerrainWidth: 0, TerrainLength: 5}},
		{"unknown service", CreateInput{ClientID: "client-1", ServiceType: "topiary", Address: "x", TerrainWidth: 5, TerrainLength: 5}},
		{"pruning without difficulty", CreateInput{ClientID: "client-1", ServiceType: models.ServicePruning, Address: "x", TerrainWidth: 5, TerrainLength: 5}},
		{"difficulty outside pruning", CreateInput{ClientID: "client-1", ServiceType: models.ServiceCleaning, Address: "x", TerrainWidth: 5, TerrainLength: 5, PruningDifficulty: &hard}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tc.input); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAvailablePool(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	first := createGrassRequest(t, svc)
	second := createGrassRequest(t, svc)

	jobs, err := svc.Available(ctx)
	if err != nil {
		t.Fatalf("available failed: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("pool size = %d, want 2", len(jobs))
	}
	if jobs[0].ID != first.ID || jobs[1].ID != second.ID {
		t.Errorf("pool not oldest-first: got %s, %s", jobs[0].ID, jobs[1].ID)
	}
	if jobs[0].ClientName != "Ana García" {
		t.Errorf("client name = %q, want Ana García", jobs[0].ClientName)
	}
	if jobs[0].TerrainArea != 100 {
		t.Errorf("terrain area = %v, want 100", jobs[0].TerrainArea)
	}

	if _, err := svc.Accept(ctx, first.ID, "gardener-1"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	jobs, err = svc.Available(ctx)
	if err != nil {
		t.Fatalf("available failed: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != second.ID {
		t.Errorf("accepted request still in pool: %+v", jobs)
	}
}

func TestAcceptIsExclusive(t *testing.T) {
	svc, _, _, dispatcher := newTestService()
	ctx := context.Background()
	req := createGrassRequest(t, svc)

	accepted, err := svc.Accept(ctx, req.ID, "gardener-1")
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if accepted.Status != models.StatusAccepted || accepted.GardenerID == nil || *accepted.GardenerID != "gardener-1" {
		t.Fatalf("unexpected accepted state: %+v", accepted)
	}

	if _, err := svc.Accept(ctx, req.ID, "gardener-2"); !errors.Is(err, ErrAlreadyAccepted) {
		t.Fatalf("second accept: expected ErrAlreadyAccepted, got %v", err)
	}
	if _, err := svc.Accept(ctx, req.ID, "gardener-1"); !errors.Is(err, ErrAlreadyAccepted) {
		t.Fatalf("repeat accept by winner: expected ErrAlreadyAccepted, got %v", err)
	}

	recorded := dispatcher.recorded()
	if len(recorded) != 1 || recorded[0].To != models.StatusAccepted {
		t.Errorf("expected exactly one accepted transition notification, got %+v", recorded)
	}
}

func TestAcceptUnknownAndDeadRequests(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Accept(ctx, "no-such-id", "gardener-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	req := createGrassRequest(t, svc)
	if _, err := svc.UpdateStatus(ctx, req.ID, "client-1", models.RoleClient, models.StatusCancelled); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if _, err := svc.Accept(ctx, req.ID, "gardener-1"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("accept of cancelled request: expected ErrInvalidTransition, got %v", err)
	}
}

func TestConcurrentAcceptSingleWinner(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	req := createGrassRequest(t, svc)

	const gardeners = 16
	var wg sync.WaitGroup
	errs := make([]error, gardeners)
	for i := 0; i < gardeners; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Accept(ctx, req.ID, fmt.Sprintf("racer-%d", i))
		}(i)
	}
	wg.Wait()

	winners := 0
	for i, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, ErrAlreadyAccepted):
		default:
			t.Errorf("gardener %d: unexpected error %v", i, err)
		}
	}
	if winners != 1 {
		t.Fatalf("winners = %d, want exactly 1", winners)
	}

	final, err := svc.Repo.GetByID(ctx, req.ID)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if final.Status != models.StatusAccepted || final.GardenerID == nil {
		t.Fatalf("unexpected final state: %+v", final)
	}
}

func TestLifecycleHappyPathSkipsOnWay(t *testing.T) {
	svc, _, users, dispatcher := newTestService()
	ctx := context.Background()
	req := createGrassRequest(t, svc)

	if _, err := svc.Accept(ctx, req.ID, "gardener-1"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	// on_way is optional.
	if _, err := svc.UpdateStatus(ctx, req.ID, "gardener-1", models.RoleGardener, models.StatusInProgress); err != nil {
		t.Fatalf("in_progress failed: %v", err)
	}
	final, err := svc.UpdateStatus(ctx, req.ID, "gardener-1", models.RoleGardener, models.StatusCompleted)
	if err != nil {
		t.Fatalf("completed failed: %v", err)
	}
	if final.Status != models.StatusCompleted {
		t.Errorf("status = %s, want completed", final.Status)
	}

	gardener, err := users.GetByID(ctx, "gardener-1")
	if err != nil {
		t.Fatalf("fetch gardener failed: %v", err)
	}
	if gardener.Gardener.CompletedJobs != 1 {
		t.Errorf("completed jobs = %d, want 1", gardener.Gardener.CompletedJobs)
	}

	recorded := dispatcher.recorded()
	if len(recorded) != 3 {
		t.Fatalf("transition notifications = %d, want 3: %+v", len(recorded), recorded)
	}
	wantOrder := []string{models.StatusAccepted, models.StatusInProgress, models.StatusCompleted}
	for i, to := range wantOrder {
		if recorded[i].To != to {
			t.Errorf("notification %d is for %s, want %s", i, recorded[i].To, to)
		}
	}
}

func TestUpdateStatusGuards(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	req := createGrassRequest(t, svc)

	// Acceptance never goes through the generic transition endpoint.
	if _, err := svc.UpdateStatus(ctx, req.ID, "gardener-1", models.RoleGardener, models.StatusAccepted); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("accepted via update-status: expected ErrInvalidTransition, got %v", err)
	}
	// No skipping straight to completion from pending.
	if _, err := svc.UpdateStatus(ctx, req.ID, "gardener-1", models.RoleGardener, models.StatusCompleted); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("pending to completed: expected ErrInvalidTransition, got %v", err)
	}

	if _, err := svc.Accept(ctx, req.ID, "gardener-1"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	// Only the assigned gardener advances the work.
	if _, err := svc.UpdateStatus(ctx, req.ID, "gardener-2", models.RoleGardener, models.StatusOnWay); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("rival gardener on_way: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, req.ID, "client-1", models.RoleClient, models.StatusInProgress); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("client in_progress: expected ErrInvalidTransition, got %v", err)
	}

	// Failed guards leave the request untouched.
	current, err := svc.Repo.GetByID(ctx, req.ID)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if current.Status != models.StatusAccepted {
		t.Errorf("status = %s after rejected transitions, want accepted", current.Status)
	}

	// Cancellation closes once the gardener is on the way.
	if _, err := svc.UpdateStatus(ctx, req.ID, "gardener-1", models.RoleGardener, models.StatusOnWay); err != nil {
		t.Fatalf("on_way failed: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, req.ID, "client-1", models.RoleClient, models.StatusCancelled); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("cancel after on_way: expected ErrInvalidTransition, got %v", err)
	}

	if _, err := svc.UpdateStatus(ctx, "no-such-id", "gardener-1", models.RoleGardener, models.StatusOnWay); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown id: expected ErrNotFound, got %v", err)
	}
}

func completeRequest(t *testing.T, svc *DefaultRequestService, gardenerID string) *models.ServiceRequest {
	t.Helper()
	ctx := context.Background()
	req := createGrassRequest(t, svc)
	if _, err := svc.Accept(ctx, req.ID, gardenerID); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, req.ID, gardenerID, models.RoleGardener, models.StatusInProgress); err != nil {
		t.Fatalf("in_progress failed: %v", err)
	}
	final, err := svc.UpdateStatus(ctx, req.ID, gardenerID, models.RoleGardener, models.StatusCompleted)
	if err != nil {
		t.Fatalf("completed failed: %v", err)
	}
	return final
}

func TestRateAfterCompletion(t *testing.T) {
	svc, repo, users, _ := newTestService()
	ctx := context.Background()
	req := completeRequest(t, svc, "gardener-1")

	if err := svc.Rate(ctx, req.ID, "client-1", models.RoleClient, 5, "excelente trabajo"); err != nil {
		t.Fatalf("client rating failed: %v", err)
	}
	if err := svc.Rate(ctx, req.ID, "client-1", models.RoleClient, 4, ""); !errors.Is(err, ErrAlreadyRated) {
		t.Fatalf("second client rating: expected ErrAlreadyRated, got %v", err)
	}
	// The other side still has its own slot.
	if err := svc.Rate(ctx, req.ID, "gardener-1", models.RoleGardener, 4, ""); err != nil {
		t.Fatalf("gardener rating failed: %v", err)
	}

	stored, err := repo.GetByID(ctx, req.ID)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if stored.ClientRating == nil || stored.ClientRating.Score != 5 || stored.ClientRating.RatedBy != "client-1" {
		t.Errorf("client rating not recorded: %+v", stored.ClientRating)
	}
	if stored.GardenerRating == nil || stored.GardenerRating.Score != 4 {
		t.Errorf("gardener rating not recorded: %+v", stored.GardenerRating)
	}

	gardener, _ := users.GetByID(ctx, "gardener-1")
	if gardener.Rating != 5 || gardener.TotalRatings != 1 {
		t.Errorf("gardener aggregate = %v/%d, want 5/1", gardener.Rating, gardener.TotalRatings)
	}
	client, _ := users.GetByID(ctx, "client-1")
	if client.Rating != 4 || client.TotalRatings != 1 {
		t.Errorf("client aggregate = %v/%d, want 4/1", client.Rating, client.TotalRatings)
	}
}

func TestRateIncrementalMean(t *testing.T) {
	svc, _, users, _ := newTestService()
	ctx := context.Background()

	first := completeRequest(t, svc, "gardener-1")
	second := completeRequest(t, svc, "gardener-1")

	if err := svc.Rate(ctx, first.ID, "client-1", models.RoleClient, 5, ""); err != nil {
		t.Fatalf("first rating failed: %v", err)
	}
	if err := svc.Rate(ctx, second.ID, "client-1", models.RoleClient, 4, ""); err != nil {
		t.Fatalf("second rating failed: %v", err)
	}

	gardener, _ := users.GetByID(ctx, "gardener-1")
	if gardener.Rating != 4.5 || gardener.TotalRatings != 2 {
		t.Errorf("aggregate = %v/%d, want 4.5/2", gardener.Rating, gardener.TotalRatings)
	}
}

func TestRateEligibility(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	req := createGrassRequest(t, svc)

	if err := svc.Rate(ctx, req.ID, "client-1", models.RoleClient, 5, ""); !errors.Is(err, ErrNotEligible) {
		t.Fatalf("rating before completion: expected ErrNotEligible, got %v", err)
	}
	if err := svc.Rate(ctx, req.ID, "client-1", models.RoleClient, 0, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("score 0: expected ErrInvalidInput, got %v", err)
	}
	if err := svc.Rate(ctx, req.ID, "client-1", models.RoleClient, 6, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("score 6: expected ErrInvalidInput, got %v", err)
	}

	completed := completeRequest(t, svc, "gardener-1")
	if err := svc.Rate(ctx, completed.ID, "client-2", models.RoleClient, 5, ""); !errors.Is(err, ErrNotEligible) {
		t.Fatalf("foreign client: expected ErrNotEligible, got %v", err)
	}
	if err := svc.Rate(ctx, completed.ID, "gardener-2", models.RoleGardener, 5, ""); !errors.Is(err, ErrNotEligible) {
		t.Fatalf("foreign gardener: expected ErrNotEligible, got %v", err)
	}
	if err := svc.Rate(ctx, "no-such-id", "client-1", models.RoleClient, 5, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown id: expected ErrNotFound, got %v", err)
	}
}

func TestListByClientAndGardener(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	first := createGrassRequest(t, svc)
	second := createGrassRequest(t, svc)
	if _, err := svc.Accept(ctx, second.ID, "gardener-1"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	mine, err := svc.ListByClient(ctx, "client-1")
	if err != nil {
		t.Fatalf("list by client failed: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != second.ID || mine[1].ID != first.ID {
		t.Errorf("client list not newest-first: %+v", mine)
	}

	jobs, err := svc.ListByGardener(ctx, "gardener-1")
	if err != nil {
		t.Fatalf("list by gardener failed: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != second.ID {
		t.Errorf("gardener list = %+v, want only %s", jobs, second.ID)
	}

	empty, err := svc.ListByGardener(ctx, "gardener-2")
	if err != nil {
		t.Fatalf("list by gardener failed: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", empty)
	}
}
