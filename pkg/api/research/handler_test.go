package research

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"valuecase/pkg/core/prompt"
	coreResearch "valuecase/pkg/core/research"
)

type streamingGen struct {
	chunks []string
	err    error
}

func (g *streamingGen) ExecutePrompt(context.Context, string, string, string, map[string]interface{}) (string, error) {
	return "", errors.New("not used")
}

func (g *streamingGen) StreamPrompt(_ context.Context, _ string, _ string, _ string, _ map[string]interface{}, onChunk func(string) error) error {
	for _, c := range g.chunks {
		if err := onChunk(c); err != nil {
			return err
		}
	}
	return g.err
}

func newRouter(gen coreResearch.Generator) *mux.Router {
	r := mux.NewRouter()
	NewHandler(coreResearch.NewService(gen, coreResearch.WithPrompts(prompt.NewRegistry()))).Register(r)
	return r
}

const analyzeBody = `{"industry":"Retail","platformSelection":"CCaaS","kpiAssumptions":[]}`

func postAnalyze(r http.Handler, body, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/assumptions/analyze", bytes.NewBufferString(body))
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func readEvents(t *testing.T, body string) []StreamEvent {
	t.Helper()
	var out []StreamEvent
	for _, block := range strings.Split(body, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		var ev StreamEvent
		if err := json.Unmarshal([]byte(strings.TrimPrefix(block, "data: ")), &ev); err != nil {
			t.Fatalf("bad event %q: %v", block, err)
		}
		out = append(out, ev)
	}
	return out
}

func TestAnalyze_StreamsChunks(t *testing.T) {
	rec := postAnalyze(newRouter(&streamingGen{chunks: []string{"## Overview\n", "Looks sound."}}), analyzeBody, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("unexpected content type %q", ct)
	}
	events := readEvents(t, rec.Body.String())
	if len(events) != 3 {
		t.Fatalf("expected 2 chunks and done, got %+v", events)
	}
	if events[0].Content != "## Overview\n" || events[1].Content != "Looks sound." {
		t.Errorf("chunks out of order: %+v", events)
	}
	if last := events[2]; last.Type != "done" || last.Fallback {
		t.Errorf("unexpected final event %+v", last)
	}
}

func TestAnalyze_FallbackWhenProviderFails(t *testing.T) {
	rec := postAnalyze(newRouter(&streamingGen{err: errors.New("quota")}), analyzeBody, "")
	events := readEvents(t, rec.Body.String())
	if len(events) != 2 {
		t.Fatalf("expected the static text and done, got %+v", events)
	}
	if !strings.Contains(events[0].Content, "## ") {
		t.Errorf("fallback chunk should be the static analysis, got %q", events[0].Content)
	}
	if !events[1].Fallback {
		t.Error("done event should flag the fallback")
	}
}

func TestAnalyze_PartialStream(t *testing.T) {
	rec := postAnalyze(newRouter(&streamingGen{chunks: []string{"## Start\n"}, err: errors.New("reset")}), analyzeBody, "")
	events := readEvents(t, rec.Body.String())
	last := events[len(events)-1]
	if last.Type != "done" || !last.Partial || !last.Fallback {
		t.Errorf("unexpected final event %+v", last)
	}
}

func TestAnalyze_JSONMode(t *testing.T) {
	rec := postAnalyze(newRouter(&streamingGen{chunks: []string{"## A\n", "B"}}), analyzeBody, "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var res coreResearch.Analysis
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Text != "## A\nB" || res.Fallback {
		t.Errorf("unexpected analysis %+v", res)
	}
}

func TestAnalyze_InvalidRequest(t *testing.T) {
	rec := postAnalyze(newRouter(&streamingGen{}), `{"industry":"Retail"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 before streaming starts, got %d", rec.Code)
	}
}
