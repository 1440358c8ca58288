package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/example/prodplan/internal/endpoint"
	"github.com/example/prodplan/internal/observability"
	"github.com/example/prodplan/internal/service"
	"github.com/example/prodplan/internal/storage/sqlite"
)

// testEnv provides a minimal test environment for web tests.
type testEnv struct {
	storage *sqlite.SQLiteStorage
	svc     *service.PlanService
	server  *Server
	dbPath  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctx := context.Background()
	metrics := observability.NewMetrics()

	// Create temp database
	tmpDir := os.TempDir()
	dbPath := filepath.Join(tmpDir, "prodplan_web_test_"+t.Name()+".db")
	os.Remove(dbPath)
	os.Remove(dbPath + "-wal")
	os.Remove(dbPath + "-shm")

	storage, err := sqlite.NewWithMetrics(dbPath, metrics)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	if err := storage.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	svc := service.NewPlanServiceWithMetrics(storage, metrics)
	server := NewServer(":0", endpoint.MakeEndpoints(svc), metrics, zap.NewNop())

	return &testEnv{
		storage: storage,
		svc:     svc,
		server:  server,
		dbPath:  dbPath,
	}
}

func (e *testEnv) cleanup() {
	e.storage.Close()
	if e.dbPath != "" {
		os.Remove(e.dbPath)
		os.Remove(e.dbPath + "-wal")
		os.Remove(e.dbPath + "-shm")
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, reqBody)
	w := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

func TestCreateAndReadPlan(t *testing.T) {
	env := newTestEnv(t)
	defer env.cleanup()

	w := env.do(t, http.MethodPost, "/api/plans/", CreatePlanRequest{
		InitialProduction: "10",
		Metadata:          map[string]string{"line": "assembly-1"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: want 201, got %d: %s", w.Code, w.Body.String())
	}

	var created PlanResponse
	decodeJSON(t, w, &created)
	if created.Production != "10" {
		t.Errorf("fresh plan production: want %q, got %q", "10", created.Production)
	}
	if created.InitialProduction != "10" {
		t.Errorf("initialProduction: want %q, got %q", "10", created.InitialProduction)
	}
	if len(created.Adjustments) != 0 {
		t.Errorf("fresh plan should have no adjustments, got %d", len(created.Adjustments))
	}

	w = env.do(t, http.MethodGet, "/api/plans/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: want 200, got %d", w.Code)
	}

	var got PlanResponse
	decodeJSON(t, w, &got)
	if got.ID != created.ID || got.Production != "10" {
		t.Errorf("unexpected plan: %+v", got)
	}
}

func TestCreatePlanDefaultsToZero(t *testing.T) {
	env := newTestEnv(t)
	defer env.cleanup()

	w := env.do(t, http.MethodPost, "/api/plans/", CreatePlanRequest{})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: want 201, got %d: %s", w.Code, w.Body.String())
	}

	var created PlanResponse
	decodeJSON(t, w, &created)
	if created.Production != "0" {
		t.Errorf("default production: want %q, got %q", "0", created.Production)
	}
}

func TestApplyAdjustmentAndProduction(t *testing.T) {
	env := newTestEnv(t)
	defer env.cleanup()

	w := env.do(t, http.MethodPost, "/api/plans/", CreatePlanRequest{InitialProduction: "5"})
	var created PlanResponse
	decodeJSON(t, w, &created)

	w = env.do(t, http.MethodPost, "/api/plans/"+created.ID+"/adjustments",
		ApplyAdjustmentRequest{Amount: "-3", Reason: "scrap"})
	if w.Code != http.StatusCreated {
		t.Fatalf("adjust: want 201, got %d: %s", w.Code, w.Body.String())
	}

	var applied ApplyAdjustmentResponse
	decodeJSON(t, w, &applied)
	if applied.Production != "2" {
		t.Errorf("production after -3: want %q, got %q", "2", applied.Production)
	}

	w = env.do(t, http.MethodPost, "/api/plans/"+created.ID+"/adjustments",
		ApplyAdjustmentRequest{Amount: "2"})
	decodeJSON(t, w, &applied)
	if applied.Production != "4" {
		t.Errorf("production after +2: want %q, got %q", "4", applied.Production)
	}

	w = env.do(t, http.MethodGet, "/api/plans/"+created.ID+"/production", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("production: want 200, got %d", w.Code)
	}

	var prod ProductionResponse
	decodeJSON(t, w, &prod)
	if prod.Production != "4" {
		t.Errorf("derived production: want %q, got %q", "4", prod.Production)
	}
}

func TestAdjustmentsPreserveOrder(t *testing.T) {
	env := newTestEnv(t)
	defer env.cleanup()

	w := env.do(t, http.MethodPost, "/api/plans/", CreatePlanRequest{})
	var created PlanResponse
	decodeJSON(t, w, &created)

	for _, amount := range []string{"1", "-2", "3.5"} {
		w = env.do(t, http.MethodPost, "/api/plans/"+created.ID+"/adjustments",
			ApplyAdjustmentRequest{Amount: amount})
		if w.Code != http.StatusCreated {
			t.Fatalf("adjust %s: want 201, got %d", amount, w.Code)
		}
	}

	w = env.do(t, http.MethodGet, "/api/plans/"+created.ID+"/adjustments", nil)
	var list ListAdjustmentsResponse
	decodeJSON(t, w, &list)

	want := []string{"1", "-2", "3.5"}
	if len(list.Adjustments) != len(want) {
		t.Fatalf("want %d adjustments, got %d", len(want), len(list.Adjustments))
	}
	for i, a := range list.Adjustments {
		if a.Amount != want[i] {
			t.Errorf("adjustment[%d]: want amount %q, got %q", i, want[i], a.Amount)
		}
		if a.Seq != i {
			t.Errorf("adjustment[%d]: want seq %d, got %d", i, i, a.Seq)
		}
	}
}

func TestValidationErrors(t *testing.T) {
	env := newTestEnv(t)
	defer env.cleanup()

	w := env.do(t, http.MethodPost, "/api/plans/", CreatePlanRequest{})
	var created PlanResponse
	decodeJSON(t, w, &created)

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
	}{
		{
			name:       "non-decimal initial production",
			method:     http.MethodPost,
			path:       "/api/plans/",
			body:       CreatePlanRequest{InitialProduction: "ten"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "non-decimal amount",
			method:     http.MethodPost,
			path:       "/api/plans/" + created.ID + "/adjustments",
			body:       ApplyAdjustmentRequest{Amount: "lots"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing amount",
			method:     http.MethodPost,
			path:       "/api/plans/" + created.ID + "/adjustments",
			body:       ApplyAdjustmentRequest{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown plan",
			method:     http.MethodGet,
			path:       "/api/plans/nonexistent",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unknown plan production",
			method:     http.MethodGet,
			path:       "/api/plans/nonexistent/production",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "adjust unknown plan",
			method:     http.MethodPost,
			path:       "/api/plans/nonexistent/adjustments",
			body:       ApplyAdjustmentRequest{Amount: "1"},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "method not allowed on production",
			method:     http.MethodPost,
			path:       "/api/plans/" + created.ID + "/production",
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, tt.method, tt.path, tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("want %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestDeletePlanCascades(t *testing.T) {
	env := newTestEnv(t)
	defer env.cleanup()

	w := env.do(t, http.MethodPost, "/api/plans/", CreatePlanRequest{InitialProduction: "1"})
	var created PlanResponse
	decodeJSON(t, w, &created)

	env.do(t, http.MethodPost, "/api/plans/"+created.ID+"/adjustments",
		ApplyAdjustmentRequest{Amount: "2"})

	w = env.do(t, http.MethodDelete, "/api/plans/"+created.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: want 204, got %d", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/plans/"+created.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete: want 404, got %d", w.Code)
	}

	w = env.do(t, http.MethodDelete, "/api/plans/"+created.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("double delete: want 404, got %d", w.Code)
	}
}

func TestListPlans(t *testing.T) {
	env := newTestEnv(t)
	defer env.cleanup()

	for _, initial := range []string{"1", "2"} {
		w := env.do(t, http.MethodPost, "/api/plans/", CreatePlanRequest{InitialProduction: initial})
		if w.Code != http.StatusCreated {
			t.Fatalf("create: want 201, got %d", w.Code)
		}
	}

	w := env.do(t, http.MethodGet, "/api/plans/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: want 200, got %d", w.Code)
	}

	var list ListPlansResponse
	decodeJSON(t, w, &list)
	if len(list.Plans) != 2 {
		t.Fatalf("want 2 plans, got %d", len(list.Plans))
	}
}
