package assistant

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

	"valuecase/pkg/core/project"
	"valuecase/pkg/core/prompt"
)

type fakeExec struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeExec) ExecutePrompt(_ context.Context, _ string, rawPrompt string, _ string, _ map[string]interface{}) (string, error) {
	f.prompt = rawPrompt
	return f.reply, f.err
}

func ask(t *testing.T, exec Executor, body string) NavigationResponse {
	t.Helper()
	r := mux.NewRouter()
	NewHandler(exec, prompt.NewRegistry()).Register(r)
	req := httptest.NewRequest(http.MethodPost, "/api/assistant/navigate", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp NavigationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestNavigate_FromModel(t *testing.T) {
	exec := &fakeExec{reply: "```json\n{\"intent\":\"navigate\",\"target_stage\":\"Financial\",\"confidence\":0.9,\"explanation\":\"costs\"}\n```"}
	resp := ask(t, exec, `{"message":"take me to the money part","current_stage":"setup"}`)
	if resp.Intent != "navigate" || resp.TargetStage != project.StageFinancial || resp.StageLabel != "Financial Analysis" {
		t.Errorf("unexpected response %+v", resp)
	}
	if !strings.Contains(exec.prompt, "- results: Results & Export") || !strings.Contains(exec.prompt, "take me to the money part") {
		t.Errorf("prompt should list the stages and carry the message:\n%s", exec.prompt)
	}
}

func TestNavigate_UnknownStageFallsBackToKeywords(t *testing.T) {
	exec := &fakeExec{reply: `{"intent":"navigate","target_stage":"sensitivity","confidence":0.9}`}
	resp := ask(t, exec, `{"message":"show the payback"}`)
	if resp.TargetStage != project.StageFinancial || resp.Confidence != 0.8 {
		t.Errorf("expected the keyword match, got %+v", resp)
	}
}

func TestNavigate_ProviderFailure(t *testing.T) {
	resp := ask(t, &fakeExec{err: errors.New("no key")}, `{"message":"Export the slides"}`)
	if resp.Intent != "navigate" || resp.TargetStage != project.StageResults {
		t.Errorf("unexpected response %+v", resp)
	}

	resp = ask(t, nil, `{"message":"hello there"}`)
	if resp.Intent != "chat" || resp.TargetStage != "" {
		t.Errorf("expected chat, got %+v", resp)
	}
}

func TestNavigate_ChatClearsTarget(t *testing.T) {
	resp := ask(t, &fakeExec{reply: `{"intent":"chat","target_stage":"setup","explanation":"hi"}`}, `{"message":"hi"}`)
	if resp.Intent != "chat" || resp.TargetStage != "" || resp.Explanation != "hi" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestNavigate_RequiresMessage(t *testing.T) {
	r := mux.NewRouter()
	NewHandler(nil, nil).Register(r)
	req := httptest.NewRequest(http.MethodPost, "/api/assistant/navigate", bytes.NewBufferString(`{"message":"  "}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
