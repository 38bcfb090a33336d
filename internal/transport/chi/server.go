// Package chi exposes the HTTP API: contract ingestion, retrieval, search
// and the reference catalogs.
package chi

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/docuviet/hopdong/internal/domain"
	cataloguc "github.com/docuviet/hopdong/internal/usecase/catalog"
	contractuc "github.com/docuviet/hopdong/internal/usecase/contract"
	healthuc "github.com/docuviet/hopdong/internal/usecase/health"
	ingestuc "github.com/docuviet/hopdong/internal/usecase/ingest"
	searchuc "github.com/docuviet/hopdong/internal/usecase/search"
)

// Error codes returned in the JSON error body.
type errorCode string

const (
	codeBadRequest        errorCode = "bad_request"
	codeValidationFailed  errorCode = "validation_failed"
	codeUnauthorized      errorCode = "unauthorized"
	codeNotFound          errorCode = "not_found"
	codeContractNotFound  errorCode = "contract_not_found"
	codeAlreadyExists     errorCode = "already_exists"
	codeUnsupportedFormat errorCode = "unsupported_format"
	codeTextUnavailable   errorCode = "text_unavailable"
	codeAcquisitionFailed errorCode = "acquisition_failed"
	codeInternalError     errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the usecase services behind the HTTP handlers.
type Server struct {
	ingest         *ingestuc.Service
	contracts      *contractuc.Service
	search         *searchuc.Service
	catalog        *cataloguc.Service
	health         *healthuc.Service
	logger         *zap.Logger
	maxUploadBytes int64
	errorHandlers  []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	ingest *ingestuc.Service,
	contracts *contractuc.Service,
	search *searchuc.Service,
	catalog *cataloguc.Service,
	health *healthuc.Service,
	maxUploadBytes int64,
	logger *zap.Logger,
) *Server {
	s := &Server{
		ingest:         ingest,
		contracts:      contracts,
		search:         search,
		catalog:        catalog,
		health:         health,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrContractNotFound, http.StatusNotFound, codeContractNotFound),
		sentinelHandler(domain.ErrTextUnavailable, http.StatusNotFound, codeTextUnavailable),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, codeAlreadyExists),
		sentinelHandler(domain.ErrUnsupportedFormat, http.StatusBadRequest, codeUnsupportedFormat),
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrAcquisitionFailed, http.StatusBadGateway, codeAcquisitionFailed),
	}
	return s
}

// Routes registers every API route on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/contracts", s.uploadContract)
		r.Get("/contracts", s.listContracts)
		r.Get("/contracts/{id}", s.getContract)
		r.Delete("/contracts/{id}", s.deleteContract)
		r.Get("/contracts/{id}/download", s.downloadContract)
		r.Get("/contracts/{id}/preview", s.previewContract)
		r.Get("/contracts/{id}/sentences", s.sentenceSearch)

		r.Get("/search", s.searchContracts)
		r.Get("/stats", s.stats)

		r.Post("/contract-types", s.createType)
		r.Get("/contract-types", s.listTypes)
		r.Delete("/contract-types/{id}", s.deleteType)

		r.Post("/partners", s.createPartner)
		r.Get("/partners", s.listPartners)
		r.Delete("/partners/{id}", s.deletePartner)

		r.Post("/departments", s.createDepartment)
		r.Get("/departments", s.listDepartments)
		r.Delete("/departments/{id}", s.deleteDepartment)

		r.Post("/tags", s.createTag)
		r.Get("/tags", s.listTags)
		r.Delete("/tags/{id}", s.deleteTag)
	})

	r.Get("/health", s.healthCheck)
	r.Get("/metrics", s.metrics)
}

type listResponse struct {
	Items any `json:"items"`
	Total int `json:"total"`
}

// uploadContract handles POST /api/contracts (multipart).
func (s *Server) uploadContract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid multipart body: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, `multipart field "file" is required`)
		return
	}
	defer file.Close()

	up := ingestuc.Upload{
		Filename: header.Filename,
		Content:  file,
		Language: r.FormValue("lang"),
	}

	if v := r.FormValue("expiration_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed,
				"expiration_date must be YYYY-MM-DD")
			return
		}
		up.ExpirationDate = &t
	}

	if v := r.FormValue("contract_type_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed,
				"contract_type_id must be an integer")
			return
		}
		up.ContractTypeID = &id
	}

	c, err := s.ingest.Ingest(r.Context(), up)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, c)
}

// listContracts handles GET /api/contracts.
func (s *Server) listContracts(w http.ResponseWriter, r *http.Request) {
	contracts, err := s.contracts.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if contracts == nil {
		contracts = []domain.Contract{}
	}
	writeJSON(w, http.StatusOK, listResponse{Items: contracts, Total: len(contracts)})
}

// getContract handles GET /api/contracts/{id}.
func (s *Server) getContract(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}
	c, err := s.contracts.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// deleteContract handles DELETE /api/contracts/{id}.
func (s *Server) deleteContract(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}
	if err := s.contracts.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// downloadContract handles GET /api/contracts/{id}/download and serves the
// original file under its upload-time name.
func (s *Server) downloadContract(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}
	path, filename, err := s.contracts.File(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	w.Header().Set("Content-Disposition", disposition)
	http.ServeFile(w, r, path)
}

// previewContract handles GET /api/contracts/{id}/preview.
func (s *Server) previewContract(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}
	preview, err := s.search.Preview(r.Context(), id, r.URL.Query().Get("q"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":      id,
		"preview": preview,
	})
}

// sentenceSearch handles GET /api/contracts/{id}/sentences.
func (s *Server) sentenceSearch(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}
	matches, err := s.search.Sentences(r.Context(), id, r.URL.Query().Get("q"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if matches == nil {
		matches = []domain.SentenceMatch{}
	}
	writeJSON(w, http.StatusOK, listResponse{Items: matches, Total: len(matches)})
}

// searchContracts handles GET /api/search.
func (s *Server) searchContracts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	typeFilter := r.URL.Query().Get("type")

	matches, err := s.search.Summaries(r.Context(), q, typeFilter)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if matches == nil {
		matches = []domain.SummaryMatch{}
	}
	writeJSON(w, http.StatusOK, listResponse{Items: matches, Total: len(matches)})
}

// stats handles GET /api/stats.
func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.contracts.Stats(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// createType handles POST /api/contract-types.
func (s *Server) createType(w http.ResponseWriter, r *http.Request) {
	var req domain.ContractType
	if !decodeBody(w, r, &req) {
		return
	}
	created, err := s.catalog.CreateType(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// listTypes handles GET /api/contract-types.
func (s *Server) listTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.catalog.ListTypes(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if types == nil {
		types = []domain.ContractType{}
	}
	writeJSON(w, http.StatusOK, listResponse{Items: types, Total: len(types)})
}

// deleteType handles DELETE /api/contract-types/{id}.
func (s *Server) deleteType(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}
	if err := s.catalog.DeleteType(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// createPartner handles POST /api/partners.
func (s *Server) createPartner(w http.ResponseWriter, r *http.Request) {
	var req domain.Partner
	if !decodeBody(w, r, &req) {
		return
	}
	created, err := s.catalog.CreatePartner(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// listPartners handles GET /api/partners.
func (s *Server) listPartners(w http.ResponseWriter, r *http.Request) {
	partners, err := s.catalog.ListPartners(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if partners == nil {
		partners = []domain.Partner{}
	}
	writeJSON(w, http.StatusOK, listResponse{Items: partners, Total: len(partners)})
}

// deletePartner handles DELETE /api/partners/{id}.
func (s *Server) deletePartner(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}
	if err := s.catalog.DeletePartner(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// createDepartment handles POST /api/departments.
func (s *Server) createDepartment(w http.ResponseWriter, r *http.Request) {
	var req domain.Department
	if !decodeBody(w, r, &req) {
		return
	}
	created, err := s.catalog.CreateDepartment(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// listDepartments handles GET /api/departments.
func (s *Server) listDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := s.catalog.ListDepartments(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if departments == nil {
		departments = []domain.Department{}
	}
	writeJSON(w, http.StatusOK, listResponse{Items: departments, Total: len(departments)})
}

// deleteDepartment handles DELETE /api/departments/{id}.
func (s *Server) deleteDepartment(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}
	if err := s.catalog.DeleteDepartment(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// createTag handles POST /api/tags.
func (s *Server) createTag(w http.ResponseWriter, r *http.Request) {
	var req domain.Tag
	if !decodeBody(w, r, &req) {
		return
	}
	created, err := s.catalog.CreateTag(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// listTags handles GET /api/tags.
func (s *Server) listTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.catalog.ListTags(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if tags == nil {
		tags = []domain.Tag{}
	}
	writeJSON(w, http.StatusOK, listResponse{Items: tags, Total: len(tags)})
}

// deleteTag handles DELETE /api/tags/{id}.
func (s *Server) deleteTag(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}
	if err := s.catalog.DeleteTag(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// healthCheck handles GET /health.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// metrics handles GET /metrics.
func (s *Server) metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// idParam parses the {id} route parameter, writing a 400 on failure.
func (s *Server) idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrContractNotFound,
		domain.ErrTextUnavailable,
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrUnsupportedFormat,
		domain.ErrInvalidInput,
		domain.ErrAcquisitionFailed,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
