package simulated

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/conectar/console-gateway/internal/core/domain"
	"github.com/conectar/console-gateway/internal/core/ports"
	"github.com/conectar/console-gateway/internal/infrastructure/kv"
	"github.com/conectar/console-gateway/internal/infrastructure/queue"
	"github.com/conectar/console-gateway/internal/infrastructure/store"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type testEnv struct {
	kv      *kv.Memory
	store   *store.Store
	queue   *queue.Serial
	backend *Backend
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	mem := kv.NewMemory()
	st := store.New(mem, "", discardLogger)
	q := queue.NewSerial(discardLogger)
	q.Start(ctx)

	return &testEnv{kv: mem, store: st, queue: q, backend: New(ctx, st, q, opts, discardLogger)}
}

// steppingClock returns a clock that advances one second per call.
func steppingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	cur := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		cur = cur.Add(time.Second)
		return cur
	}
}

func sampleClient(name string) domain.ClientInput {
	return domain.ClientInput{
		FacadeName:  name,
		CNPJ:        "12.345.678/0001-00",
		CompanyName: name + " Ltda",
		Status:      domain.ClientActive,
		ConectaPlus: domain.ConectaPlusYes,
		Address: domain.Address{
			CEP: "01001-000", Street: "Praça da Sé", Number: "100",
			Neighborhood: "Sé", City: "São Paulo", State: "SP",
		},
	}
}

// ---------------------------------------------------------------------------
// Auth
// ---------------------------------------------------------------------------

func TestBackend_Login_AdminOnFreshSeeds(t *testing.T) {
	env := newTestEnv(t, Options{JWTSecret: "secret"})

	res, err := env.backend.Login(context.Background(), "admin@conectar.com", "anything")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.User.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %q", res.User.Role)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(res.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["role"] != "admin" || claims["email"] != "admin@conectar.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestBackend_Login_Rejections(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()

	if _, err := env.backend.Login(ctx, "ghost@conectar.com", "x"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := env.backend.Login(ctx, "maria@conectar.com", "x"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("inactive user: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestBackend_Register_PasswordAndDuplicates(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()

	res, err := env.backend.Register(ctx, domain.UserInput{Name: "Carla", Email: "carla@conectar.com", Password: "s3cret!"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.User.ID != 4 || res.User.Role != domain.RoleUser || res.Token == "" {
		t.Fatalf("unexpected register result: %+v", res)
	}

	if _, err := env.backend.Login(ctx, "CARLA@conectar.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected wrong password to fail, got %v", err)
	}
	if _, err := env.backend.Login(ctx, "carla@conectar.com", "s3cret!"); err != nil {
		t.Errorf("expected correct password to succeed, got %v", err)
	}

	if _, err := env.backend.Register(ctx, domain.UserInput{Name: "Dup", Email: "carla@conectar.com"}); !errors.Is(err, domain.ErrUserExists) {
		t.Errorf("expected ErrUserExists, got %v", err)
	}
	if _, err := env.backend.Register(ctx, domain.UserInput{Name: "Bad", Email: "bad@conectar.com", Role: "root"}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for unknown role, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Id allocation
// ---------------------------------------------------------------------------

func TestBackend_CreateClient_IDsStrictlyIncreasingFromEmpty(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()
	_ = env.store.SaveClients(ctx, []domain.Client{})
	if err := env.backend.Reload(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}

	var last int64
	seen := map[int64]bool{}
	for i := 0; i < 10; i++ {
		c, err := env.backend.CreateClient(ctx, sampleClient("Loja"))
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if c.ID <= last {
			t.Fatalf("id %d not greater than previous %d", c.ID, last)
		}
		if seen[c.ID] {
			t.Fatalf("duplicate id %d", c.ID)
		}
		seen[c.ID] = true
		last = c.ID
	}
	if last != 10 {
		t.Fatalf("expected ids 1..10, last was %d", last)
	}
}

func TestBackend_CreateClient_AssignsIDAndTimestamps(t *testing.T) {
	env := newTestEnv(t, Options{})

	c, err := env.backend.CreateClient(context.Background(), sampleClient("Padaria Central"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.ID != 5 {
		t.Errorf("expected id 5 after four seeds, got %d", c.ID)
	}
	if c.CreatedAt.IsZero() || c.UpdatedAt.IsZero() {
		t.Error("timestamps must be populated")
	}
	if !c.CreatedAt.Equal(c.UpdatedAt) {
		t.Error("createdAt and updatedAt should match on create")
	}
}

func TestBackend_CreateClient_DefaultsStatusAndConectaPlus(t *testing.T) {
	env := newTestEnv(t, Options{})
	in := sampleClient("Sem Status")
	in.Status = ""
	in.ConectaPlus = ""

	c, err := env.backend.CreateClient(context.Background(), in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Status != domain.ClientPending || c.ConectaPlus != domain.ConectaPlusNo {
		t.Fatalf("unexpected defaults: %s / %s", c.Status, c.ConectaPlus)
	}
}

// Deleting the highest id does not recycle it while the process runs because
// the counter only grows. A reload recomputes max(id)+1 and the id comes back.
func TestBackend_DeleteHighestThenCreate(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()

	if _, err := env.backend.DeleteClient(ctx, 4); err != nil {
		t.Fatalf("delete: %v", err)
	}
	c, err := env.backend.CreateClient(ctx, sampleClient("Nova"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.ID != 5 {
		t.Fatalf("within a process the deleted id must not be reused, got %d", c.ID)
	}

	if _, err := env.backend.DeleteClient(ctx, 5); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := env.backend.Reload(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	c, err = env.backend.CreateClient(ctx, sampleClient("Depois do reload"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.ID != 4 {
		t.Fatalf("after reload next id is max(id)+1 = 4, got %d", c.ID)
	}
}

func TestBackend_ConcurrentCreatesGetUniqueIDs(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()

	const n = 25
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := env.backend.CreateClient(ctx, sampleClient("Paralela"))
			if err != nil {
				t.Errorf("create: %v", err)
				return
			}
			ids <- c.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Fatalf("expected %d ids, got %d", n, len(seen))
	}
}

// ---------------------------------------------------------------------------
// Updates
// ---------------------------------------------------------------------------

func TestBackend_UpdateClient_PartialMerge(t *testing.T) {
	env := newTestEnv(t, Options{Now: steppingClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))})
	ctx := context.Background()

	before, err := env.backend.GetClient(ctx, 2)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	status := domain.ClientInactive
	notes := "renegociar contrato"
	after, err := env.backend.UpdateClient(ctx, 2, domain.ClientPatch{Status: &status, InternalNotes: &notes})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if after.ID != before.ID || !after.CreatedAt.Equal(before.CreatedAt) {
		t.Fatalf("id/createdAt changed: %+v -> %+v", before, after)
	}
	if after.UpdatedAt.Before(before.UpdatedAt) || after.UpdatedAt.Equal(before.UpdatedAt) {
		t.Fatalf("updatedAt must advance: %v -> %v", before.UpdatedAt, after.UpdatedAt)
	}
	if after.Status != domain.ClientInactive || after.InternalNotes != notes {
		t.Fatalf("patch not applied: %+v", after)
	}
	if after.FacadeName != before.FacadeName || after.CNPJ != before.CNPJ {
		t.Fatalf("untouched fields changed: %+v", after)
	}
}

func TestBackend_UpdateClient_UpdatedAtNeverGoesBackwards(t *testing.T) {
	past := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	env := newTestEnv(t, Options{Now: func() time.Time { return past }})
	ctx := context.Background()

	before, _ := env.backend.GetClient(ctx, 1)
	name := "Renomeada"
	after, err := env.backend.UpdateClient(ctx, 1, domain.ClientPatch{FacadeName: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if after.UpdatedAt.Before(before.UpdatedAt) {
		t.Fatalf("updatedAt went backwards: %v -> %v", before.UpdatedAt, after.UpdatedAt)
	}
}

func TestBackend_UpdateUser_PasswordAndEmailConflict(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()

	pw := "novaSenha"
	name := "João S."
	u, err := env.backend.UpdateUser(ctx, 2, domain.UserPatch{Name: &name, Password: &pw})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if u.Name != name || u.PasswordHash == "" {
		t.Fatalf("unexpected user after update: %+v", u)
	}
	if _, err := env.backend.Login(ctx, "joao@conectar.com", "outra"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("a password is now set, wrong ones must fail, got %v", err)
	}

	taken := "admin@conectar.com"
	if _, err := env.backend.UpdateUser(ctx, 2, domain.UserPatch{Email: &taken}); !errors.Is(err, domain.ErrUserExists) {
		t.Errorf("expected ErrUserExists, got %v", err)
	}
}

func TestBackend_NotFound(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()
	name := "x"

	if _, err := env.backend.GetClient(ctx, 99); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("get: expected ErrNotFound, got %v", err)
	}
	if _, err := env.backend.UpdateClient(ctx, 99, domain.ClientPatch{FacadeName: &name}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("update: expected ErrNotFound, got %v", err)
	}
	if _, err := env.backend.DeleteClient(ctx, 99); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("delete: expected ErrNotFound, got %v", err)
	}
	if _, err := env.backend.GetUser(ctx, 99); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("get user: expected ErrNotFound, got %v", err)
	}
	if _, err := env.backend.DeleteUser(ctx, 99); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("delete user: expected ErrNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Fault injection and latency
// ---------------------------------------------------------------------------

func TestBackend_FailureRateOneAlwaysFails(t *testing.T) {
	env := newTestEnv(t, Options{FailureRate: 1})
	ctx := context.Background()

	if _, err := env.backend.ListClients(ctx); !errors.Is(err, domain.ErrSimulatedFailure) {
		t.Errorf("expected ErrSimulatedFailure, got %v", err)
	}
	// Raised regardless of whether the record exists.
	if _, err := env.backend.GetClient(ctx, 999); !errors.Is(err, domain.ErrSimulatedFailure) {
		t.Errorf("expected ErrSimulatedFailure for a missing id, got %v", err)
	}
}

func TestBackend_FailureRateUsesInjectedRand(t *testing.T) {
	draws := []float64{0.01, 0.9}
	i := 0
	env := newTestEnv(t, Options{FailureRate: 0.05, Rand: func() float64 {
		v := draws[i%len(draws)]
		i++
		return v
	}})

	if _, err := env.backend.ListUsers(context.Background()); !errors.Is(err, domain.ErrSimulatedFailure) {
		t.Fatalf("draw 0.01 < 0.05 should fail, got %v", err)
	}
	if _, err := env.backend.ListUsers(context.Background()); err != nil {
		t.Fatalf("draw 0.9 should succeed, got %v", err)
	}
}

func TestBackend_DelayHonoursContext(t *testing.T) {
	env := newTestEnv(t, Options{Delay: time.Hour})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := env.backend.ListClients(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Durability
// ---------------------------------------------------------------------------

func TestBackend_MutationsArePersisted(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()

	created, err := env.backend.CreateClient(ctx, sampleClient("Durável"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	fresh := New(ctx, env.store, env.queue, Options{}, discardLogger)
	got, err := fresh.GetClient(ctx, created.ID)
	if err != nil {
		t.Fatalf("record not visible after restart: %v", err)
	}
	if got.FacadeName != "Durável" {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestBackend_ResetData(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()

	_, _ = env.backend.DeleteClient(ctx, 1)
	_, _ = env.backend.CreateClient(ctx, sampleClient("Extra"))

	if err := env.backend.ResetData(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	list, _ := env.backend.ListClients(ctx)
	if len(list) != 4 || list[0].ID != 1 {
		t.Fatalf("expected seed clients after reset, got %+v", list)
	}
	if snap := env.store.Load(ctx); len(snap.Clients) != 4 {
		t.Fatalf("reset not persisted: %d clients", len(snap.Clients))
	}
}

func TestBackend_DeleteReturnsAcknowledgement(t *testing.T) {
	env := newTestEnv(t, Options{})

	res, err := env.backend.DeleteUser(context.Background(), 3)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !res.Success || res.Message == "" {
		t.Fatalf("unexpected delete result: %+v", res)
	}
	users, _ := env.backend.ListUsers(context.Background())
	for _, u := range users {
		if u.ID == 3 {
			t.Fatal("user 3 still listed after delete")
		}
	}
}

var _ ports.Backend = (*Backend)(nil)
