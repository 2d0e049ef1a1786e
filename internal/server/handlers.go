package server

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/leakguard/guard"
	"github.com/BaSui01/leakguard/leak"
)

// Request/response payloads for the safety API.

type scanRequest struct {
	// Document is the candidate text to scan.
	Document string `json:"document"`
	// Entities optionally restricts the scan to named records.
	Entities []string `json:"entities,omitempty"`
}

type scanResponse struct {
	Findings   []leak.Finding `json:"findings"`
	TotalCount int            `json:"total_count"`
	Severity   leak.Severity  `json:"severity"`
	Rendered   string         `json:"rendered"`
}

type textRequest struct {
	Text string `json:"text"`
}

type checkResponse struct {
	Injection bool `json:"injection"`
}

type sanitizeResponse struct {
	Sanitized string `json:"sanitized"`
}

type filterResponse struct {
	Output string `json:"output"`
	Safe   bool   `json:"safe"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (m *Manager) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	start := time.Now()
	report, err := m.engine.BuildLeakReport(r.Context(), req.Document, req.Entities...)
	if err != nil {
		m.logger.Error("scan failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "scan failed"})
		return
	}

	byCategory := make(map[string]int)
	for _, f := range report.Findings {
		byCategory[string(f.Category)]++
	}
	m.metrics.RecordScan(string(report.Severity), byCategory, time.Since(start))

	writeJSON(w, http.StatusOK, scanResponse{
		Findings:   report.Findings,
		TotalCount: report.TotalCount,
		Severity:   report.Severity,
		Rendered:   leak.RenderText(report),
	})
}

func (m *Manager) handleInputCheck(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	detected := m.engine.DetectInjection(req.Text)
	if detected {
		m.metrics.RecordInjection()
		m.logger.Warn("injection attempt detected",
			zap.String("request_id", RequestIDFromContext(r.Context())))
	}
	writeJSON(w, http.StatusOK, checkResponse{Injection: detected})
}

func (m *Manager) handleInputSanitize(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	m.metrics.RecordSanitization()
	writeJSON(w, http.StatusOK, sanitizeResponse{Sanitized: m.engine.SanitizeInput(req.Text)})
}

func (m *Manager) handleOutputFilter(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	filtered := m.engine.FilterOutput(req.Text)
	safe := filtered == req.Text
	if filtered == guard.RefusalMessage && !safe {
		m.metrics.RecordRefusal()
	}
	writeJSON(w, http.StatusOK, filterResponse{Output: filtered, Safe: safe})
}

func (m *Manager) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
