package research

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"valuecase/pkg/core/assumption"
	"valuecase/pkg/core/catalog"
	"valuecase/pkg/core/prompt"
)

type fakeGen struct {
	mu        sync.Mutex
	calls     int
	reply     string
	err       error
	release   chan struct{}
	chunks    []string
	streamErr error
}

func (f *fakeGen) ExecutePrompt(ctx context.Context, _ string, _ string, _ string, _ map[string]interface{}) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.reply, f.err
}

func (f *fakeGen) StreamPrompt(_ context.Context, _ string, _ string, _ string, _ map[string]interface{}, onChunk func(string) error) error {
	for _, c := range f.chunks {
		if err := onChunk(c); err != nil {
			return err
		}
	}
	return f.streamErr
}

func (f *fakeGen) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newService(gen Generator) *Service {
	fixed := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	return NewService(gen, WithPrompts(prompt.NewRegistry()), WithTimeout(time.Second), WithClock(func() time.Time { return fixed }))
}

func TestInsights_FromProvider(t *testing.T) {
	gen := &fakeGen{reply: "```json\n" + `{
		"useCases":[{"title":"a"},{"title":"b"},{"title":"c"},{"title":"d"}],
		"challenges":[{"title":"x","severity":"high"}],
		"opportunities":[],
		"marketData":{"marketSize":"$1B","growthRate":"5%","keyTrends":["t"],"competitiveLandscape":"busy"},
		"sources":["Report 2025"]
	}` + "\n```"}
	got, err := newService(gen).Insights(context.Background(), InsightRequest{Industry: "Retail", Platform: "CCaaS"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Fallback || len(got.UseCases) != 3 || got.MarketData == nil || got.Sources[0] != "Report 2025" {
		t.Errorf("unexpected insights %+v", got)
	}
}

func TestInsights_FallbackOnFailure(t *testing.T) {
	for name, gen := range map[string]Generator{
		"error":   &fakeGen{err: errors.New("boom")},
		"garbage": &fakeGen{reply: "I cannot help with that."},
		"empty":   &fakeGen{reply: `{"useCases":[],"challenges":[],"opportunities":[]}`},
		"nil":     nil,
	} {
		got, err := newService(gen).Insights(context.Background(), InsightRequest{Industry: "Retail", Platform: "CCaaS"})
		if err != nil {
			t.Errorf("%s: failures should not surface, got %v", name, err)
			continue
		}
		if !got.Fallback || len(got.Sources) != 1 || got.Sources[0] != FallbackSource {
			t.Errorf("%s: fallback should be labeled, got %+v", name, got.Sources)
		}
		if !strings.Contains(got.UseCases[0].Description, "Retail") {
			t.Errorf("%s: static insights should mention the industry", name)
		}
	}
}

func TestInsights_Validation(t *testing.T) {
	_, err := newService(nil).Insights(context.Background(), InsightRequest{Industry: "Retail"})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}

const benchmarkReply = `{"companySize":{"small":"8 min","medium":"6 min","large":"5 min"},"sources":["Study"],"lastUpdated":"2025-01-01","confidence":"HIGH"}`

func TestBenchmark_DeduplicatesConcurrentRequests(t *testing.T) {
	gen := &fakeGen{reply: benchmarkReply, release: make(chan struct{})}
	s := newService(gen)
	req := BenchmarkRequest{KPIName: catalog.KPIHandlingTime, Industry: "Retail", Platform: "ccaas"}

	var wg sync.WaitGroup
	results := make([]Benchmark, 5)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := req
			if i%2 == 1 {
				r.Industry = " retail "
			}
			results[i], _ = s.Benchmark(context.Background(), r)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(gen.release)
	wg.Wait()

	if gen.callCount() != 1 {
		t.Fatalf("expected a single provider call, got %d", gen.callCount())
	}
	for i, r := range results {
		if r.Fallback || r.CompanySize.Medium != "6 min" || r.Confidence != ConfidenceHigh {
			t.Errorf("result %d: unexpected %+v", i, r)
		}
	}

	if _, err := s.Benchmark(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	if gen.callCount() != 1 {
		t.Errorf("a successful answer should be cached, got %d calls", gen.callCount())
	}
}

func TestBenchmark_FallbackIsNotCached(t *testing.T) {
	gen := &fakeGen{err: errors.New("timeout")}
	s := newService(gen)
	req := BenchmarkRequest{KPIName: catalog.KPIHandlingTime, Industry: "Retail", Platform: "Field Service"}

	got, err := s.Benchmark(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Fallback || got.Confidence != ConfidenceLow {
		t.Errorf("expected a low-confidence fallback, got %+v", got)
	}
	if got.CompanySize.Medium != "6-10 minutes average AHT" {
		t.Errorf("fallback should use static industry averages, got %q", got.CompanySize.Medium)
	}
	if got.Baseline != catalog.Baselines(catalog.KPIHandlingTime) {
		t.Error("fallback should carry the baseline bands")
	}
	if got.LastUpdated != "2026-05-01" {
		t.Errorf("unexpected lastUpdated %q", got.LastUpdated)
	}

	_, _ = s.Benchmark(context.Background(), req)
	if gen.callCount() != 2 {
		t.Errorf("failures should be retried, got %d calls", gen.callCount())
	}
}

func TestBenchmark_UnknownKPIFallback(t *testing.T) {
	got, _ := newService(nil).Benchmark(context.Background(), BenchmarkRequest{KPIName: "Warehouse picks", Industry: "Retail", Platform: "CRM"})
	if got.CompanySize.Small != unavailable || got.Sources[0] != FallbackSource {
		t.Errorf("unexpected fallback %+v", got)
	}
}

func TestBenchmark_CallerCancellation(t *testing.T) {
	gen := &fakeGen{reply: benchmarkReply, release: make(chan struct{})}
	s := newService(gen)
	req := BenchmarkRequest{KPIName: catalog.KPINPS, Industry: "Retail", Platform: "ccaas"}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan Benchmark, 1)
	go func() {
		b, _ := s.Benchmark(ctx, req)
		done <- b
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case b := <-done:
		if !b.Fallback {
			t.Error("an abandoned wait should return the fallback")
		}
	case <-time.After(time.Second):
		t.Fatal("cancelled caller was not released")
	}

	close(gen.release)
	time.Sleep(20 * time.Millisecond)
	b, _ := s.Benchmark(context.Background(), req)
	if b.Fallback {
		t.Error("the shared request should have completed and been cached")
	}
	if gen.callCount() != 1 {
		t.Errorf("expected one provider call, got %d", gen.callCount())
	}
}

func TestBenchmarks_KeepsOrder(t *testing.T) {
	s := newService(nil)
	kpis := []string{catalog.KPINPS, catalog.KPICSAT, catalog.KPIHandlingTime}
	got, err := s.Benchmarks(context.Background(), "Retail", "ccaas", "small", kpis)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, b := range got {
		if b.KPIName != kpis[i] {
			t.Errorf("position %d: got %s", i, b.KPIName)
		}
	}
	if _, err := s.Benchmarks(context.Background(), "", "ccaas", "", kpis); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}

func handlingTimeAssumptions() []assumption.KPIAssumption {
	return []assumption.KPIAssumption{{
		KPIName: catalog.KPIHandlingTime,
		Values: map[string]assumption.Value{
			"currentAHT":    assumption.Number(10),
			"targetAHT":     assumption.Number(6),
			"annualCalls":   assumption.Number(100000),
			"costPerMinute": assumption.Number(0.5),
		},
	}}
}

func analysisRequest() AnalysisRequest {
	return AnalysisRequest{
		KPIAssumptions:    handlingTimeAssumptions(),
		Industry:          "Utilities",
		PlatformSelection: "Field Service Management",
		CompanySize:       "large",
	}
}

func collect(t *testing.T, s *Service, req AnalysisRequest) (Analysis, []string) {
	t.Helper()
	var chunks []string
	res, err := s.AnalyzeAssumptions(context.Background(), req, func(c string) error {
		chunks = append(chunks, c)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return res, chunks
}

func TestAnalyzeAssumptions_Streams(t *testing.T) {
	gen := &fakeGen{chunks: []string{"## Assumption ", "Validation\n", "Looks fine."}}
	res, chunks := collect(t, newService(gen), analysisRequest())
	if len(chunks) != 3 || res.Text != "## Assumption Validation\nLooks fine." || res.Fallback {
		t.Errorf("unexpected analysis %+v (%d chunks)", res, len(chunks))
	}
}

func TestAnalyzeAssumptions_FallbackBeforeFirstChunk(t *testing.T) {
	gen := &fakeGen{streamErr: errors.New("401")}
	req := analysisRequest()
	res, chunks := collect(t, newService(gen), req)
	if !res.Fallback || res.Partial || len(chunks) != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Text != StaticAnalysis(req) {
		t.Error("fallback should be exactly the static analysis")
	}
}

func TestAnalyzeAssumptions_PartialStream(t *testing.T) {
	gen := &fakeGen{chunks: []string{"## Assumption Validation\n", "The targets"}, streamErr: errors.New("connection reset")}
	res, chunks := collect(t, newService(gen), analysisRequest())
	if !res.Fallback || !res.Partial {
		t.Fatalf("expected a partial fallback, got %+v", res)
	}
	if !strings.HasPrefix(res.Text, "## Assumption Validation\nThe targets") || !strings.Contains(res.Text, "interrupted") {
		t.Errorf("partial text should be kept and followed by the notice:\n%s", res.Text)
	}
	if len(chunks) != 3 {
		t.Errorf("expected the static tail as one extra chunk, got %d", len(chunks))
	}
}

func TestAnalyzeAssumptions_ClientGone(t *testing.T) {
	gen := &fakeGen{chunks: []string{"a", "b"}}
	gone := errors.New("client disconnected")
	_, err := newService(gen).AnalyzeAssumptions(context.Background(), analysisRequest(), func(string) error { return gone })
	if !errors.Is(err, gone) {
		t.Errorf("expected the sink error, got %v", err)
	}
}

func TestAnalyzeAssumptions_Validation(t *testing.T) {
	_, err := newService(nil).AnalyzeAssumptions(context.Background(), AnalysisRequest{Industry: "x"}, nil)
	if !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestStaticAnalysis(t *testing.T) {
	req := analysisRequest()
	text := StaticAnalysis(req)
	if text != StaticAnalysis(req) {
		t.Fatal("static analysis should be deterministic")
	}
	for _, section := range []string{"## Assumption Validation", "## Risk Assessment", "## Industry Benchmarks", "## Optimization Recommendations", "## Implementation Insights"} {
		if !strings.Contains(text, section) {
			t.Errorf("missing section %q", section)
		}
	}
	if !strings.Contains(text, "$200,000") {
		t.Errorf("expected the derived saving in the text:\n%s", text)
	}
	if !strings.Contains(text, "4-8 minutes average AHT") {
		t.Errorf("expected the large-company average in the text:\n%s", text)
	}

	req.KPIAssumptions[0].Values["costPerMinute"] = assumption.Text("")
	if !strings.Contains(StaticAnalysis(req), "incomplete (3 of 4 required fields)") {
		t.Error("incomplete forms should be reported")
	}
}
