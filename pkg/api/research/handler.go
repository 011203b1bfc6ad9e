// Package research serves industry insights, KPI benchmarks and the
// streamed assumption analysis.
package research

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"valuecase/pkg/api/apiutil"
	coreResearch "valuecase/pkg/core/research"
)

// Handler holds dependencies for research endpoints
type Handler struct {
	Service *coreResearch.Service
}

func NewHandler(svc *coreResearch.Service) *Handler {
	return &Handler{Service: svc}
}

// Register mounts the research routes.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/api/research/insights", h.HandleInsights).Methods(http.MethodPost)
	r.HandleFunc("/api/research/benchmarks", h.HandleBenchmarks).Methods(http.MethodPost)
	r.HandleFunc("/api/assumptions/analyze", h.HandleAnalyze).Methods(http.MethodPost)
}

func (h *Handler) HandleInsights(w http.ResponseWriter, r *http.Request) {
	var req coreResearch.InsightRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, err)
		return
	}
	ins, err := h.Service.Insights(r.Context(), req)
	if err != nil {
		apiutil.WriteError(w, err)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, ins)
}

// BenchmarksRequest asks for one KPI (kpiName) or several (kpis).
type BenchmarksRequest struct {
	coreResearch.BenchmarkRequest
	KPIs []string `json:"kpis,omitempty"`
}

// HandleBenchmarks answers a single benchmark object for kpiName, or an
// array in request order for kpis.
func (h *Handler) HandleBenchmarks(w http.ResponseWriter, r *http.Request) {
	var req BenchmarksRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, err)
		return
	}
	if len(req.KPIs) == 0 {
		b, err := h.Service.Benchmark(r.Context(), req.BenchmarkRequest)
		if err != nil {
			apiutil.WriteError(w, err)
			return
		}
		apiutil.WriteJSON(w, http.StatusOK, b)
		return
	}
	list, err := h.Service.Benchmarks(r.Context(), req.Industry, req.Platform, req.CompanySize, req.KPIs)
	if err != nil {
		apiutil.WriteError(w, err)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, list)
}

// StreamEvent is one SSE message of the assumption analysis.
type StreamEvent struct {
	Type     string `json:"type"` // "chunk", "done" or "error"
	Content  string `json:"content,omitempty"`
	Fallback bool   `json:"fallback,omitempty"`
	Partial  bool   `json:"partial,omitempty"`
}

// HandleAnalyze streams the assumption analysis as server-sent events. A
// request asking for application/json gets the full text in one response.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req coreResearch.AnalysisRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, err)
		return
	}

	flusher, canStream := w.(http.Flusher)
	if !canStream || strings.Contains(r.Header.Get("Accept"), "application/json") {
		res, err := h.Service.AnalyzeAssumptions(r.Context(), req, nil)
		if err != nil {
			apiutil.WriteError(w, err)
			return
		}
		apiutil.WriteJSON(w, http.StatusOK, res)
		return
	}

	// Request validation happens before the first chunk, so errors can
	// still go out as a plain status.
	started := false
	start := func() {
		if started {
			return
		}
		started = true
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
	}
	send := func(ev StreamEvent) error {
		start()
		data, _ := json.Marshal(ev)
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	res, err := h.Service.AnalyzeAssumptions(r.Context(), req, func(chunk string) error {
		if err := r.Context().Err(); err != nil {
			return err
		}
		return send(StreamEvent{Type: "chunk", Content: chunk})
	})
	if err != nil {
		if !started {
			apiutil.WriteError(w, err)
			return
		}
		fmt.Printf("[RESEARCH] Analysis stream ended early: %v\n", err)
		_ = send(StreamEvent{Type: "error", Content: err.Error()})
		return
	}
	_ = send(StreamEvent{Type: "done", Fallback: res.Fallback, Partial: res.Partial})
}
