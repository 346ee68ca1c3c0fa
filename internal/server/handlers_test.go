package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/voltcraft/certify/internal/agents"
	"github.com/voltcraft/certify/internal/config"
	"github.com/voltcraft/certify/internal/intent"
	"github.com/voltcraft/certify/internal/models"
	"github.com/voltcraft/certify/internal/orchestrator"
	"github.com/voltcraft/certify/internal/storage"
)

type stubSpecialist struct {
	payload *models.AgentPayload
}

func (s *stubSpecialist) Invoke(ctx context.Context, req *models.AgentRequest) (*models.AgentPayload, error) {
	return s.payload, nil
}

type stubMerger struct {
	reply string
}

func (s *stubMerger) Merge(ctx context.Context, query, sections string) (string, error) {
	return s.reply, nil
}

func newTestServer(t *testing.T, orch *orchestrator.Engine) *Server {
	t.Helper()
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "reports.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	return NewServer(orch, intent.NewClassifier(nil), store, nil, &cfg.Server, cfg, zap.NewNop())
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleValidate(t *testing.T) {
	s := newTestServer(t, nil)
	router := s.Router()

	body := ValidateRequest{
		Form: &models.ReportForm{
			ClientName:          "J Smith",
			InstallationAddress: "1 Test St",
			InspectionDate:      "2024-01-01",
			InspectorName:       "A Bloggs",
			EarthingArrangement: "TN-C-S",
			OverallAssessment:   "Satisfactory",
		},
	}
	rec := doJSON(t, router, http.MethodPost, "/api/v1/validate", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		ID         string                   `json:"id"`
		Validation *models.ValidationResult `json:"validation"`
		Metrics    *models.QualityMetrics   `json:"metrics"`
		Report     string                   `json:"report"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID == "" {
		t.Error("Expected report id")
	}
	// Empty schedules make the report invalid despite the filled core fields.
	if resp.Validation.Valid {
		t.Error("Expected invalid report for empty schedules")
	}
	if len(resp.Validation.CriticalIssues) != 1 {
		t.Errorf("CriticalIssues = %v", resp.Validation.CriticalIssues)
	}
	if !strings.Contains(resp.Report, "EICR Completion Report") {
		t.Errorf("Unexpected report text: %q", resp.Report)
	}

	// The run was stored and is retrievable.
	getRec := doJSON(t, router, http.MethodGet, "/api/v1/reports/"+resp.ID, nil)
	if getRec.Code != http.StatusOK {
		t.Fatalf("Expected stored report, got %d", getRec.Code)
	}
}

func TestHandleValidate_BadBody(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/validate", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestHandleGetReport_NotFound(t *testing.T) {
	s := newTestServer(t, nil)
	rec := doJSON(t, s.Router(), http.MethodGet, "/api/v1/reports/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestHandleClassify(t *testing.T) {
	s := newTestServer(t, nil)
	rec := doJSON(t, s.Router(), http.MethodPost, "/api/v1/classify",
		classifyRequest{Message: "What size cable for a shower circuit?"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var flags models.IntentFlags
	if err := json.Unmarshal(rec.Body.Bytes(), &flags); err != nil {
		t.Fatal(err)
	}
	if !flags.Design || flags.Cost || flags.Installation || flags.Commissioning {
		t.Errorf("flags = %+v, want design only", flags)
	}
}

func TestHandleOrchestrate(t *testing.T) {
	registry := agents.NewRegistry()
	registry.Register(agents.Designer, &stubSpecialist{payload: &models.AgentPayload{Response: "use 10mm"}})
	engine := orchestrator.NewEngine(intent.NewClassifier(nil), registry, &stubMerger{reply: "merged answer"}, zap.NewNop())
	s := newTestServer(t, engine)

	req := models.OrchestratorRequest{Messages: []models.ChatMessage{
		{Role: "user", Content: "what size cable do I need"},
	}}
	rec := doJSON(t, s.Router(), http.MethodPost, "/api/v1/orchestrate", req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp models.OrchestratorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Response != "merged answer" {
		t.Errorf("Response = %q", resp.Response)
	}
	if len(resp.ActiveAgents) != 1 || resp.ActiveAgents[0] != "design" {
		t.Errorf("ActiveAgents = %v", resp.ActiveAgents)
	}
	if resp.Timestamp == "" {
		t.Error("Expected timestamp")
	}
}

func TestHandleOrchestrate_NoIntent(t *testing.T) {
	engine := orchestrator.NewEngine(intent.NewClassifier(nil), agents.NewRegistry(), &stubMerger{}, zap.NewNop())
	s := newTestServer(t, engine)

	req := models.OrchestratorRequest{Messages: []models.ChatMessage{
		{Role: "user", Content: "hello"},
	}}
	rec := doJSON(t, s.Router(), http.MethodPost, "/api/v1/orchestrate", req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for zero-coverage, got %d", rec.Code)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}
	if string(raw["costUpdates"]) != "null" {
		t.Errorf("Expected null costUpdates, got %s", raw["costUpdates"])
	}
	var resp models.OrchestratorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Response != orchestrator.ClarificationResponse {
		t.Errorf("Response = %q", resp.Response)
	}
	if len(resp.ActiveAgents) != 0 {
		t.Errorf("ActiveAgents = %v", resp.ActiveAgents)
	}
}

func TestHandleOrchestrate_NotConfigured(t *testing.T) {
	s := newTestServer(t, nil)
	req := models.OrchestratorRequest{Messages: []models.ChatMessage{
		{Role: "user", Content: "what size cable"},
	}}
	rec := doJSON(t, s.Router(), http.MethodPost, "/api/v1/orchestrate", req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["error"] == "" || resp["response"] == "" {
		t.Errorf("Expected error and response fields, got %v", resp)
	}
}

func TestHandleOrchestrate_EmptyMessages(t *testing.T) {
	s := newTestServer(t, nil)
	rec := doJSON(t, s.Router(), http.MethodPost, "/api/v1/orchestrate", models.OrchestratorRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestOrchestrate_CORSPreflight(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/orchestrate", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK && rec.Code != http.StatusNoContent {
		t.Fatalf("Expected preflight success, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
}

func TestHandleHealthAndStatus(t *testing.T) {
	s := newTestServer(t, nil)
	router := s.Router()

	rec := doJSON(t, router, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("health: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: expected 200, got %d", rec.Code)
	}
	var status map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatal(err)
	}
	if _, ok := status["reports"]; !ok {
		t.Errorf("Expected reports count in status, got %v", status)
	}
	if _, ok := status["config"]; !ok {
		t.Errorf("Expected config echo in status, got %v", status)
	}
}

func TestHandleVerifyCertificate_BadRequest(t *testing.T) {
	s := newTestServer(t, nil)
	rec := doJSON(t, s.Router(), http.MethodPost, "/api/v1/certificates/verify",
		VerifyCertificateRequest{Form: &models.ReportForm{}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without path, got %d", rec.Code)
	}
}
