package narrative

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/delphienergia/capex-backend/internal/capex"
	"github.com/delphienergia/capex-backend/internal/compare"
	pkgerrors "github.com/delphienergia/capex-backend/pkg/errors"
	"github.com/delphienergia/capex-backend/pkg/logger"
)

type fakeGenerator struct {
	response string
	err      error
	calls    int
}

func (f *fakeGenerator) GenerateJSON(ctx context.Context, systemPrompt, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeCache struct {
	data map[string]string
	sets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", errors.New("cache miss")
	}
	return v, nil
}

func (f *fakeCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	f.sets++
	f.data[key] = value.(string)
	return nil
}

func (f *fakeCache) NarrativeKey(hash string) string {
	return "capex:narrative:" + hash
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func testScenarios() (capex.Scenario, capex.Summary, capex.Scenario, capex.Summary) {
	scenarioA := capex.Scenario{
		ID:             "scn-a",
		DefaultVATRate: 19,
		Items: []capex.Item{
			{ID: "a1", Code: "PAN-1", Name: "Panel", Qty: 10, UnitPrice: 100, VATRate: 19, DeliveryPoint: capex.DeliverySite},
		},
	}
	scenarioB := capex.Scenario{
		ID:             "scn-b",
		DefaultVATRate: 19,
		Items: []capex.Item{
			{ID: "b1", Code: "PAN-1", Name: "Panel", Qty: 12, UnitPrice: 100, VATRate: 19, DeliveryPoint: capex.DeliverySite},
		},
	}
	return scenarioA, capex.ComputeSummary(scenarioA), scenarioB, capex.ComputeSummary(scenarioB)
}

const modelResponse = `{"executive_summary":["El escenario B sube 20% por cantidad de paneles"],"main_drivers":[{"title":"Paneles","impact_cop":200,"explanation":"Dos paneles extra"}],"root_causes":[{"cause":"quantity","details":"qty 10 a 12"}],"red_flags":[],"recommended_actions":[],"questions_to_validate":["¿Confirmar cantidad?"]}`

func TestAnalyze_GeneratesAndCaches(t *testing.T) {
	generator := &fakeGenerator{response: modelResponse}
	cache := newFakeCache()
	service := NewService(generator, cache, time.Hour, nil, testLogger())

	scenarioA, summaryA, scenarioB, summaryB := testScenarios()
	result, err := service.Analyze(context.Background(), scenarioA, summaryA, scenarioB, summaryB, compare.DefaultThresholds(), false)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if result.FromCache {
		t.Fatalf("first call must not come from cache")
	}
	if len(result.Analysis.ExecutiveSummary) != 1 {
		t.Fatalf("executive summary = %v", result.Analysis.ExecutiveSummary)
	}
	if result.Hash == "" {
		t.Fatalf("result must carry the diff hash")
	}
	if cache.sets != 1 {
		t.Fatalf("expected 1 cache write, got %d", cache.sets)
	}

	// Second identical call is served from cache without a model call.
	result2, err := service.Analyze(context.Background(), scenarioA, summaryA, scenarioB, summaryB, compare.DefaultThresholds(), false)
	if err != nil {
		t.Fatalf("second analyze failed: %v", err)
	}
	if !result2.FromCache {
		t.Fatalf("second call must hit the cache")
	}
	if generator.calls != 1 {
		t.Fatalf("generator called %d times, want 1", generator.calls)
	}
	if result2.Hash != result.Hash {
		t.Fatalf("hash drifted between identical comparisons")
	}
}

func TestAnalyze_ForceBypassesCacheReadButRewrites(t *testing.T) {
	generator := &fakeGenerator{response: modelResponse}
	cache := newFakeCache()
	service := NewService(generator, cache, time.Hour, nil, testLogger())

	scenarioA, summaryA, scenarioB, summaryB := testScenarios()
	if _, err := service.Analyze(context.Background(), scenarioA, summaryA, scenarioB, summaryB, compare.DefaultThresholds(), false); err != nil {
		t.Fatalf("seed analyze failed: %v", err)
	}

	result, err := service.Analyze(context.Background(), scenarioA, summaryA, scenarioB, summaryB, compare.DefaultThresholds(), true)
	if err != nil {
		t.Fatalf("forced analyze failed: %v", err)
	}
	if result.FromCache {
		t.Fatalf("forced call must not be served from cache")
	}
	if generator.calls != 2 {
		t.Fatalf("generator called %d times, want 2", generator.calls)
	}
	if cache.sets != 2 {
		t.Fatalf("forced call must rewrite the cache, got %d writes", cache.sets)
	}
}

func TestAnalyze_RepairsMarkdownWrappedResponse(t *testing.T) {
	generator := &fakeGenerator{response: "```json\n" + modelResponse + "\n```"}
	service := NewService(generator, newFakeCache(), time.Hour, nil, testLogger())

	scenarioA, summaryA, scenarioB, summaryB := testScenarios()
	result, err := service.Analyze(context.Background(), scenarioA, summaryA, scenarioB, summaryB, compare.DefaultThresholds(), false)
	if err != nil {
		t.Fatalf("analyze failed on fenced response: %v", err)
	}
	if len(result.Analysis.MainDrivers) != 1 {
		t.Fatalf("main drivers = %v", result.Analysis.MainDrivers)
	}
}

func TestAnalyze_MissingKeysDefaultToEmpty(t *testing.T) {
	generator := &fakeGenerator{response: `{"executive_summary":["solo resumen"]}`}
	service := NewService(generator, newFakeCache(), time.Hour, nil, testLogger())

	scenarioA, summaryA, scenarioB, summaryB := testScenarios()
	result, err := service.Analyze(context.Background(), scenarioA, summaryA, scenarioB, summaryB, compare.DefaultThresholds(), false)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if result.Analysis.RedFlags == nil || result.Analysis.QuestionsToValidate == nil {
		t.Fatalf("missing schema keys must default to empty slices")
	}
}

func TestAnalyze_GeneratorFailureSurfacesCodedError(t *testing.T) {
	generator := &fakeGenerator{err: pkgerrors.New(pkgerrors.CodeDependency, "gemini generation failed")}
	service := NewService(generator, newFakeCache(), time.Hour, nil, testLogger())

	scenarioA, summaryA, scenarioB, summaryB := testScenarios()
	_, err := service.Analyze(context.Background(), scenarioA, summaryA, scenarioB, summaryB, compare.DefaultThresholds(), false)
	if err == nil {
		t.Fatalf("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
