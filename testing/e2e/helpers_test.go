package e2e

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/example/prodplan/client"
	"github.com/example/prodplan/internal/endpoint"
	"github.com/example/prodplan/internal/observability"
	"github.com/example/prodplan/internal/service"
	"github.com/example/prodplan/internal/storage/sqlite"
	"github.com/example/prodplan/internal/web"
)

// TestEnv wires the full stack: sqlite storage, plan service, HTTP server and
// an API client pointed at it.
type TestEnv struct {
	Storage *sqlite.SQLiteStorage
	Service *service.PlanService
	Client  *client.Client

	httpServer *httptest.Server
	t          *testing.T
	dbPath     string
}

// NewTestEnv creates a test environment with a temp database and a running
// HTTP server.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	ctx := context.Background()

	// A real file with WAL mode behaves like production; shared memory does
	// not exercise the dual read/write connection setup.
	dbPath := filepath.Join(os.TempDir(), "prodplan_e2e_"+t.Name()+".db")
	os.Remove(dbPath)
	os.Remove(dbPath + "-wal")
	os.Remove(dbPath + "-shm")

	store, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	metrics := observability.NewMetrics()
	svc := service.NewPlanServiceWithMetrics(store, metrics)
	endpoints := endpoint.MakeEndpoints(svc)
	server := web.NewServer(":0", endpoints, metrics, zap.NewNop())

	httpServer := httptest.NewServer(server.Handler())

	return &TestEnv{
		Storage:    store,
		Service:    svc,
		Client:     client.New(httpServer.URL),
		httpServer: httpServer,
		t:          t,
		dbPath:     dbPath,
	}
}

// Stop shuts down the HTTP server and removes the temp database.
func (env *TestEnv) Stop() {
	env.httpServer.Close()
	env.Storage.Close()
	os.Remove(env.dbPath)
	os.Remove(env.dbPath + "-wal")
	os.Remove(env.dbPath + "-shm")
}
