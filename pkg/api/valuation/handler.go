// Package valuation exposes the valuation engine and report exports over
// HTTP. Every request is computed from its own body; handlers share only
// read-only configuration.
package valuation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"startup_valuation/pkg/core/ingest"
	"startup_valuation/pkg/core/narrative"
	"startup_valuation/pkg/core/report"
	"startup_valuation/pkg/core/valuation"
)

// maxBodyBytes bounds request bodies; a parameter set is a few hundred bytes.
const maxBodyBytes = 64 << 10

// Request is the body of compute and export calls.
type Request struct {
	Variant   string          `json:"variant"`
	Params    ingest.Document `json:"params"`
	Title     string          `json:"title,omitempty"`
	Narrative string          `json:"narrative,omitempty"` // none|template|llm
	Notes     string          `json:"notes,omitempty"`     // appended verbatim to the narrative
}

// MetricView is one metric with its label and display string.
type MetricView struct {
	Key     string  `json:"key" msgpack:"key"`
	Label   string  `json:"label" msgpack:"label"`
	Kind    string  `json:"kind" msgpack:"kind"`
	Value   float64 `json:"value" msgpack:"value"`
	Display string  `json:"display" msgpack:"display"`
}

// ComputeResponse is returned by the compute endpoint.
type ComputeResponse struct {
	RunID     string       `json:"run_id" msgpack:"run_id"`
	Variant   string       `json:"variant" msgpack:"variant"`
	Metrics   []MetricView `json:"metrics" msgpack:"metrics"`
	Narrative string       `json:"narrative,omitempty" msgpack:"narrative,omitempty"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Field string `json:"field,omitempty"`
}

// VariantInfo describes one registered model.
type VariantInfo struct {
	Variant     string `json:"variant"`
	Description string `json:"description"`
}

// Handler serves the valuation endpoints.
type Handler struct {
	log        zerolog.Logger
	serializer report.Serializer
	labels     report.Labels
	narrators  map[string]narrative.Narrator
	base       valuation.Params
}

// NewHandler wires a handler. serializer carries the formatter and default
// title; narrators maps narrative mode names to implementations.
func NewHandler(log zerolog.Logger, serializer report.Serializer, narrators map[string]narrative.Narrator) *Handler {
	return &Handler{
		log:        log.With().Str("component", "valuation_api").Logger(),
		serializer: serializer,
		labels:     report.DefaultLabels(),
		narrators:  narrators,
		base:       valuation.DefaultParams(),
	}
}

// Routes mounts the handler under the caller's router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/variants", h.HandleVariants)
	r.Post("/compute", h.HandleCompute)
	r.Post("/export/{format}", h.HandleExport)
}

func (h *Handler) HandleVariants(w http.ResponseWriter, _ *http.Request) {
	models := valuation.Models()
	out := make([]VariantInfo, 0, len(models))
	for _, m := range models {
		out = append(out, VariantInfo{Variant: string(m.Variant()), Description: m.Description()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) HandleCompute(w http.ResponseWriter, r *http.Request) {
	runID := uuid.NewString()
	log := h.requestLog(r, runID)

	req, res, err := h.compute(w, r)
	if err != nil {
		h.fail(w, log, err)
		return
	}

	text, err := h.narrate(r, req, res)
	if err != nil {
		h.fail(w, log, err)
		return
	}

	resp := ComputeResponse{
		RunID:     runID,
		Variant:   string(res.Variant()),
		Metrics:   h.views(res),
		Narrative: text,
	}
	log.Info().Str("variant", resp.Variant).Int("metrics", len(resp.Metrics)).Msg("valuation computed")

	w.Header().Set("X-Run-ID", runID)
	if wantsMsgpack(r) {
		data, err := msgpack.Marshal(resp)
		if err != nil {
			h.fail(w, log, err)
			return
		}
		w.Header().Set("Content-Type", "application/x-msgpack")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	runID := uuid.NewString()
	log := h.requestLog(r, runID)

	f, err := report.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	req, res, err := h.compute(w, r)
	if err != nil {
		h.fail(w, log, err)
		return
	}

	text, err := h.narrate(r, req, res)
	if err != nil {
		h.fail(w, log, err)
		return
	}

	s := h.serializer
	if req.Title != "" {
		s.Title = req.Title
	}
	s.Narrative = text

	data, err := s.Serialize(res, f, h.labels)
	if err != nil {
		h.fail(w, log, err)
		return
	}
	log.Info().Str("variant", string(res.Variant())).Str("format", string(f)).Int("bytes", len(data)).Msg("valuation exported")

	w.Header().Set("X-Run-ID", runID)
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="valuation-%s.%s"`, res.Variant(), f.Extension()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// badRequest marks decoding failures so they map to 400.
type badRequest struct{ err error }

func (b badRequest) Error() string { return b.err.Error() }
func (b badRequest) Unwrap() error { return b.err }

// tooLarge marks bodies over maxBodyBytes so they map to 413.
type tooLarge struct{ err error }

func (t tooLarge) Error() string { return t.err.Error() }
func (t tooLarge) Unwrap() error { return t.err }

func (h *Handler) compute(w http.ResponseWriter, r *http.Request) (Request, *valuation.Result, error) {
	var req Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return req, nil, tooLarge{fmt.Errorf("request body exceeds %d bytes", mbe.Limit)}
		}
		return req, nil, badRequest{fmt.Errorf("invalid request body: %w", err)}
	}

	variant := valuation.VariantSimple
	if req.Variant != "" {
		v, err := valuation.ParseVariant(req.Variant)
		if err != nil {
			return req, nil, err
		}
		variant = v
	}

	params, err := req.Params.Apply(h.base)
	if err != nil {
		return req, nil, err
	}
	res, err := valuation.Compute(variant, params)
	return req, res, err
}

func (h *Handler) narrate(r *http.Request, req Request, res *valuation.Result) (string, error) {
	var parts []string
	mode := strings.ToLower(strings.TrimSpace(req.Narrative))
	if mode != "" && mode != "none" {
		n, ok := h.narrators[mode]
		if !ok {
			return "", badRequest{fmt.Errorf("narrative mode %q is not available", req.Narrative)}
		}
		text, err := n.Narrate(r.Context(), res)
		if err != nil {
			return "", fmt.Errorf("narrative: %w", err)
		}
		parts = append(parts, text)
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		parts = append(parts, notes)
	}
	return strings.Join(parts, "\n\n"), nil
}

func (h *Handler) views(res *valuation.Result) []MetricView {
	metrics := res.Metrics()
	out := make([]MetricView, len(metrics))
	for i, m := range metrics {
		out[i] = MetricView{
			Key:     m.Key,
			Label:   h.labels.Label(m.Key),
			Kind:    m.Kind.String(),
			Value:   m.Value,
			Display: h.serializer.Formatter.Metric(m),
		}
	}
	return out
}

func (h *Handler) requestLog(r *http.Request, runID string) zerolog.Logger {
	return h.log.With().
		Str("run_id", runID).
		Str("request_id", middleware.GetReqID(r.Context())).
		Logger()
}

// fail maps err onto a status code and writes an ErrorResponse.
func (h *Handler) fail(w http.ResponseWriter, log zerolog.Logger, err error) {
	status := http.StatusInternalServerError
	resp := ErrorResponse{Error: err.Error()}

	var ve *valuation.Error
	var br badRequest
	var tl tooLarge
	switch {
	case errors.As(err, &tl):
		status = http.StatusRequestEntityTooLarge
	case errors.As(err, &br):
		status = http.StatusBadRequest
	case errors.As(err, &ve):
		resp.Kind = string(ve.Kind)
		resp.Field = ve.Field
		if ve.Kind != valuation.KindSerialization {
			status = http.StatusUnprocessableEntity
		}
	}

	ev := log.Warn()
	if status >= 500 {
		ev = log.Error()
	}
	ev.Err(err).Int("status", status).Str("kind", resp.Kind).Msg("valuation request failed")

	writeJSON(w, status, resp)
}

func wantsMsgpack(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/x-msgpack") || strings.Contains(accept, "application/msgpack")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
