package research

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"valuecase/pkg/core/agent"
	"valuecase/pkg/core/catalog"
	"valuecase/pkg/core/prompt"
	"valuecase/pkg/core/utils"
)

// unavailable fills size bands when neither a provider nor static data has a figure.
const unavailable = "Data temporarily unavailable"

func benchmarkKey(req BenchmarkRequest) string {
	norm := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	return norm(req.KPIName) + "|" + norm(req.Platform) + "|" + norm(req.Industry)
}

// Benchmark returns industry averages for one KPI.
//
// Concurrent calls for the same (KPI, platform, industry) share one provider
// request, and a successful answer is cached for later calls. A caller whose
// ctx ends early gets the fallback at once while the shared request carries
// on for the others. Failures are never cached, so the next call retries.
func (s *Service) Benchmark(ctx context.Context, req BenchmarkRequest) (Benchmark, error) {
	if blank(req.KPIName) || blank(req.Industry) || blank(req.Platform) {
		return Benchmark{}, fmt.Errorf("%w: kpiName, industry and platform are required", ErrInvalidRequest)
	}
	if s.gen == nil {
		return s.StaticBenchmark(req), nil
	}

	key := benchmarkKey(req)
	s.mu.RLock()
	cached, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	ch := s.group.DoChan(key, func() (interface{}, error) {
		// Detached so one caller's cancellation does not fail the others.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		b, err := s.fetchBenchmark(fetchCtx, req)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.cache[key] = b
		s.mu.Unlock()
		return b, nil
	})

	select {
	case <-ctx.Done():
		fmt.Printf("[RESEARCH] Benchmark wait for %s abandoned: %v\n", req.KPIName, ctx.Err())
		return s.StaticBenchmark(req), nil
	case res := <-ch:
		if res.Err != nil {
			fmt.Printf("[WARNING] Benchmark fetch for %s failed, using static data: %v\n", req.KPIName, res.Err)
			return s.StaticBenchmark(req), nil
		}
		return res.Val.(Benchmark), nil
	}
}

func (s *Service) fetchBenchmark(ctx context.Context, req BenchmarkRequest) (Benchmark, error) {
	vars := prompt.NewContext().
		Set("KPIName", req.KPIName).
		Set("Industry", req.Industry).
		Set("Platform", req.Platform)
	if !blank(req.CompanySize) {
		vars.Set("CompanySize", req.CompanySize)
	}
	system, user, options, err := s.render(prompt.PromptIDs.Benchmarks, vars)
	if err != nil {
		return Benchmark{}, err
	}

	raw, err := s.gen.ExecutePrompt(ctx, agent.Benchmarks, user, system, options)
	if err != nil {
		return Benchmark{}, err
	}

	var out Benchmark
	if _, err := utils.DecodeLLMJSON(raw, &out); err != nil {
		return Benchmark{}, err
	}
	if blank(out.CompanySize.Small) || blank(out.CompanySize.Medium) || blank(out.CompanySize.Large) {
		return Benchmark{}, fmt.Errorf("model returned incomplete size bands")
	}
	out.KPIName, out.Industry, out.Platform = req.KPIName, req.Industry, req.Platform
	out.Baseline = catalog.Baselines(req.KPIName)
	switch out.Confidence = strings.ToLower(strings.TrimSpace(out.Confidence)); out.Confidence {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
	default:
		out.Confidence = ConfidenceMedium
	}
	if out.Sources == nil {
		out.Sources = []string{}
	}
	if blank(out.LastUpdated) {
		out.LastUpdated = s.now().UTC().Format("2006-01-02")
	}
	out.Fallback = false
	return out, nil
}

// StaticBenchmark answers from the catalog: static industry averages when
// the platform has them, otherwise placeholder bands. Confidence is low.
func (s *Service) StaticBenchmark(req BenchmarkRequest) Benchmark {
	sizes, ok := catalog.IndustryAverages(req.KPIName, catalog.DetectPlatform(req.Platform))
	source := "Static industry averages"
	if !ok {
		sizes = catalog.SizeRanges{Small: unavailable, Medium: unavailable, Large: unavailable}
		source = FallbackSource
	}
	return Benchmark{
		KPIName:     req.KPIName,
		Industry:    req.Industry,
		Platform:    req.Platform,
		CompanySize: sizes,
		Baseline:    catalog.Baselines(req.KPIName),
		Sources:     []string{source},
		LastUpdated: s.now().UTC().Format("2006-01-02"),
		Confidence:  ConfidenceLow,
		Fallback:    true,
	}
}

// Benchmarks fetches every KPI of a selection with bounded concurrency.
// Results keep the order of kpis.
func (s *Service) Benchmarks(ctx context.Context, industry, platform, companySize string, kpis []string) ([]Benchmark, error) {
	out := make([]Benchmark, len(kpis))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, name := range kpis {
		g.Go(func() error {
			b, err := s.Benchmark(gctx, BenchmarkRequest{KPIName: name, Industry: industry, Platform: platform, CompanySize: companySize})
			if err != nil {
				return err
			}
			out[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
