// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"docredact/internal/redactors"
	"docredact/internal/version"
)

// RedactRequest is the body of POST /redact. Missing settings keys are
// disabled.
type RedactRequest struct {
	Text     string             `json:"text"`
	Settings redactors.Settings `json:"settings"`
}

// RedactResponse is the body returned by POST /redact
type RedactResponse struct {
	Redacted string   `json:"redacted"`
	Log      []string `json:"log"`
}

// DownloadRequest is the body of the download routes
type DownloadRequest struct {
	Redacted string `json:"redacted"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":        "ok",
		"version":       version.Short(),
		"name_strategy": ws.nameStrategy,
	}
	if ws.health != nil {
		health["ner"] = ws.health.Status()
	}
	writeJSON(w, http.StatusOK, health)
}

func (ws *WebServer) handleRedact(w http.ResponseWriter, r *http.Request) {
	var req RedactRequest
	if !ws.decode(w, r, &req) {
		return
	}

	id := uuid.NewString()
	start := time.Now()
	result, err := ws.engine.Redact(req.Text, req.Settings)
	if err != nil {
		ws.observer.Logger().Error().Err(err).
			Str("redaction_id", id).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("redaction failed")
		w.Header().Set("X-Redaction-ID", id)
		ws.sendErrorWithStatus(w, "Redaction incomplete: document could not be fully scanned", http.StatusInternalServerError)
		return
	}
	ws.metrics.RecordRedaction("api", time.Since(start), result.Counts())

	ws.observer.Logger().Info().
		Str("redaction_id", id).
		Str("request_id", middleware.GetReqID(r.Context())).
		Strs("settings", req.Settings.Keys()).
		Int("redacted", len(result.Entries)).
		Msg("redaction complete")

	w.Header().Set("X-Redaction-ID", id)
	writeJSON(w, http.StatusOK, RedactResponse{Redacted: result.Redacted, Log: result.Log})
}

func (ws *WebServer) handleExtractPDF(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "No file part", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		// A part with an empty filename is parsed as a plain value.
		if _, ok := r.MultipartForm.Value["file"]; ok {
			http.Error(w, "No file selected", http.StatusBadRequest)
			return
		}
		http.Error(w, "No file part", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Filename == "" {
		http.Error(w, "No file selected", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Failed to read upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	doc, err := ws.extractor.Extract(data)
	if err != nil {
		ws.observer.Logger().Warn().Err(err).Str("filename", header.Filename).Msg("pdf extraction failed")
		http.Error(w, "Failed to parse PDF: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, doc.Text())
}

func (ws *WebServer) handleDownloadTxt(w http.ResponseWriter, r *http.Request) {
	var req DownloadRequest
	if !ws.decode(w, r, &req) {
		return
	}
	sendAttachment(w, "redacted.txt", "text/plain; charset=utf-8", []byte(req.Redacted))
}

func (ws *WebServer) handleDownloadPDF(w http.ResponseWriter, r *http.Request) {
	var req DownloadRequest
	if !ws.decode(w, r, &req) {
		return
	}

	out, err := ws.renderer.Render(req.Redacted)
	if err != nil {
		ws.observer.Logger().Error().Err(err).Msg("pdf rendering failed")
		ws.sendErrorWithStatus(w, "Failed to render PDF", http.StatusInternalServerError)
		return
	}
	sendAttachment(w, "redacted.pdf", "application/pdf", out)
}

// decode reads a JSON body into v and writes a 400 (or 413) on failure.
func (ws *WebServer) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		ws.sendErrorWithStatus(w, "Request body too large", http.StatusRequestEntityTooLarge)
		return false
	}
	ws.sendErrorWithStatus(w, "Malformed JSON: "+err.Error(), http.StatusBadRequest)
	return false
}

// sendErrorWithStatus sends a JSON error response with a specific HTTP status code
func (ws *WebServer) sendErrorWithStatus(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, errorResponse{Error: message})
}

func sendAttachment(w http.ResponseWriter, filename, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
