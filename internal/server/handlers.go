package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/voltcraft/certify/internal/extract"
	"github.com/voltcraft/certify/internal/models"
	"github.com/voltcraft/certify/internal/storage"
	"github.com/voltcraft/certify/internal/validation"
)

// orchestratorApology is the user-facing response body paired with a 500
// when the orchestrator itself is unavailable.
const orchestratorApology = "I'm sorry, something went wrong while preparing your answer. Please try again shortly."

// ValidateRequest is the body for POST /api/v1/validate.
type ValidateRequest struct {
	Form            *models.ReportForm      `json:"form"`
	InspectionItems []models.InspectionItem `json:"inspectionItems"`
	TestResults     []models.TestResult     `json:"testResults"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Form == nil {
		s.respondError(w, http.StatusBadRequest, "form is required")
		return
	}

	v := validation.ValidateEICR(req.Form, req.InspectionItems, req.TestResults)
	m := validation.QualityMetrics(req.Form, req.InspectionItems, req.TestResults)
	report := validation.CompletionReport(v, m)
	id := uuid.NewString()

	s.logger.Debug("validate request",
		zap.String("id", id),
		zap.Bool("valid", v.Valid),
		zap.Int("score", v.CompletionScore),
	)

	if s.store != nil {
		stored := &models.StoredReport{
			ID:         id,
			Form:       req.Form,
			Items:      req.InspectionItems,
			Results:    req.TestResults,
			Validation: v,
			Metrics:    m,
		}
		if err := s.store.SaveReport(r.Context(), stored); err != nil {
			s.logger.Warn("report save failed", zap.String("id", id), zap.Error(err))
		}
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"id":         id,
		"validation": v,
		"metrics":    m,
		"report":     report,
	})
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.respondError(w, http.StatusNotImplemented, "storage not enabled")
		return
	}
	reports, err := s.store.ListReports(r.Context(), 20)
	if err != nil {
		s.logger.Error("list reports failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if reports == nil {
		reports = []*models.StoredReport{}
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"reports": reports})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.respondError(w, http.StatusNotImplemented, "storage not enabled")
		return
	}
	id := chi.URLParam(r, "id")
	report, err := s.store.GetReport(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		s.logger.Error("get report failed", zap.String("id", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, report)
}

type classifyRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.respondJSON(w, http.StatusOK, s.classifier.Classify(req.Message))
}

func (s *Server) handleOrchestrate(w http.ResponseWriter, r *http.Request) {
	var req models.OrchestratorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if s.orchestrator == nil {
		// Configuration failure (e.g. missing merge-model key): the only
		// case that surfaces as an error to the caller.
		s.logger.Error("orchestrate request with no configured orchestrator")
		s.respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error":    "orchestrator not configured",
			"response": orchestratorApology,
		})
		return
	}
	resp := s.orchestrator.Respond(r.Context(), &req)
	s.respondJSON(w, http.StatusOK, resp)
}

// VerifyCertificateRequest is the body for POST /api/v1/certificates/verify.
type VerifyCertificateRequest struct {
	Path string             `json:"path"`
	Form *models.ReportForm `json:"form"`
}

func (s *Server) handleVerifyCertificate(w http.ResponseWriter, r *http.Request) {
	var req VerifyCertificateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Path == "" || req.Form == nil {
		s.respondError(w, http.StatusBadRequest, "path and form are required")
		return
	}
	text, err := extract.CertificateText(req.Path)
	if err != nil {
		s.logger.Error("certificate extraction failed", zap.String("path", req.Path), zap.Error(err))
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	missing := extract.CrossCheck(text, req.Form)
	if missing == nil {
		missing = []string{}
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"matches": len(missing) == 0,
		"missing": missing,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{}
	if s.store != nil {
		count, err := s.store.CountReports(r.Context())
		if err != nil {
			s.logger.Error("status: count reports failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp["reports"] = count
	}
	if s.guidance != nil {
		if count, err := s.guidance.DocCount(); err == nil {
			resp["guidance_docs"] = count
		}
	}
	if s.appConfig != nil {
		resp["config"] = map[string]any{
			"database_path":       s.appConfig.Storage.DatabasePath,
			"guidance_index_path": s.appConfig.Knowledge.IndexPath,
			"max_citations":       s.appConfig.Knowledge.MaxCitations,
			"orchestrator_ready":  s.orchestrator != nil,
		}
		diskBytes, err := storage.DiskUsageBytes(
			s.appConfig.Storage.DatabasePath,
			s.appConfig.Knowledge.IndexPath,
		)
		if err == nil {
			resp["disk_usage_bytes"] = diskBytes
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
