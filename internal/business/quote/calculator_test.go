package quote

import (
	"context"
	"errors"
	"strings"
	"testing"

	"shipcalc/internal/geo"
	"shipcalc/internal/model"
	"shipcalc/internal/provider"
	"shipcalc/internal/rate"
)

// fakeProvider 固定返回预设结果的服务商桩
type fakeProvider struct {
	slug   string
	result *provider.CalcResult
	calls  int
}

func (f *fakeProvider) Slug() string        { return f.slug }
func (f *fakeProvider) DisplayName() string { return f.slug }

func (f *fakeProvider) SettingsFields() []provider.SettingsField { return nil }

func (f *fakeProvider) CalculateDistance(ctx context.Context, destination, origin *geo.Location, settings provider.Settings) *provider.CalcResult {
	f.calls++
	return f.result
}

func (f *fakeProvider) ValidateSettings(ctx context.Context, settings provider.Settings) []provider.FieldError {
	return nil
}

// stubRules 内存规则表
type stubRules struct {
	rows []*rate.Row
	err  error
}

func (s *stubRules) ListOrdered(ctx context.Context) ([]*rate.Row, error) {
	return s.rows, s.err
}

// nopLogger 丢弃全部日志
type nopLogger struct{}

func (nopLogger) Debugf(ctx context.Context, format string, args ...interface{}) {}
func (nopLogger) Infof(ctx context.Context, format string, args ...interface{})  {}
func (nopLogger) Warnf(ctx context.Context, format string, args ...interface{})  {}
func (nopLogger) Errorf(ctx context.Context, format string, args ...interface{}) {}
func (nopLogger) Sync() error                                                    { return nil }

func successResult(t *testing.T, km string) *provider.CalcResult {
	t.Helper()
	d, err := geo.FromKm(km)
	if err != nil {
		t.Fatalf("FromKm(%q): %v", km, err)
	}
	return provider.Success(d, nil)
}

func testInput(providerSlug string) *Input {
	return &Input{
		QuoteID:     "q-1",
		RequestID:   "r-1",
		Provider:    providerSlug,
		Origin:      geo.FromCoordinates(-6.1754, 106.8272),
		Destination: geo.FromCoordinates(-6.2088, 106.8456),
		Order: rate.OrderContext{
			CartSubtotal: 100,
			ItemCount:    1,
			Items: []rate.OrderItem{
				{ProductID: 1, Quantity: 1, NeedsShipping: true},
			},
		},
	}
}

func newTestCalculator(t *testing.T, prov provider.Provider, rules RuleSource) *Calculator {
	t.Helper()
	return NewCalculator(
		provider.NewRegistry(prov),
		rate.DefaultSettings(),
		map[string]provider.Settings{prov.Slug(): {"api_key": "k"}},
		prov.Slug(),
		rules,
		nopLogger{},
	)
}

func TestCalculateDone(t *testing.T) {
	prov := &fakeProvider{slug: "fake", result: successResult(t, "7")}
	rules := &stubRules{rows: []*rate.Row{
		{MaxDistance: "5", RateClasses: map[int64]string{0: "100"}, Title: "near"},
		{MaxDistance: "10", RateClasses: map[int64]string{0: "1000"}, Title: "mid"},
	}}
	c := newTestCalculator(t, prov, rules)

	out, err := c.Calculate(context.Background(), testInput(""))
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	if out.Status != model.QuoteStatusDone {
		t.Fatalf("Status = %q, want DONE", out.Status)
	}
	if out.Result.Cost != "7000.00" {
		t.Errorf("Cost = %q, want 7000.00", out.Result.Cost)
	}
	if out.Result.MatchedRow != 2 {
		t.Errorf("MatchedRow = %d, want 2 (1-based)", out.Result.MatchedRow)
	}
	if out.Result.Provider != "fake" {
		t.Errorf("Provider = %q", out.Result.Provider)
	}
	if out.Result.DistanceText != "7" || out.Result.DistanceUnit != "km" {
		t.Errorf("distance = %q %q", out.Result.DistanceText, out.Result.DistanceUnit)
	}
	if prov.calls != 1 {
		t.Errorf("provider calls = %d, want 1", prov.calls)
	}
}

func TestCalculateNoRate(t *testing.T) {
	prov := &fakeProvider{slug: "fake", result: successResult(t, "50")}
	rules := &stubRules{rows: []*rate.Row{
		{MaxDistance: "10", RateClasses: map[int64]string{0: "1000"}},
	}}
	c := newTestCalculator(t, prov, rules)

	out, err := c.Calculate(context.Background(), testInput(""))
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	if out.Status != model.QuoteStatusNoRate {
		t.Fatalf("Status = %q, want NO_RATE", out.Status)
	}
	// 无命中时距离仍要回填，便于排查
	if out.Result.DistanceText != "50" {
		t.Errorf("DistanceText = %q", out.Result.DistanceText)
	}
	if out.Result.Cost != "" {
		t.Errorf("Cost = %q, want empty for NO_RATE", out.Result.Cost)
	}
}

func TestCalculateProviderFailure(t *testing.T) {
	prov := &fakeProvider{slug: "fake", result: provider.Failure("quota exceeded", nil)}
	c := newTestCalculator(t, prov, &stubRules{})

	out, err := c.Calculate(context.Background(), testInput(""))
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	if out.Status != model.QuoteStatusFailed {
		t.Fatalf("Status = %q, want FAILED", out.Status)
	}
	if out.Result.FailureReason != "quota exceeded" {
		t.Errorf("FailureReason = %q", out.Result.FailureReason)
	}
}

func TestCalculateUnknownProvider(t *testing.T) {
	prov := &fakeProvider{slug: "fake", result: successResult(t, "7")}
	c := newTestCalculator(t, prov, &stubRules{})

	out, err := c.Calculate(context.Background(), testInput("nonexistent"))
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	if out.Status != model.QuoteStatusFailed {
		t.Fatalf("Status = %q, want FAILED", out.Status)
	}
	if !strings.Contains(out.Result.FailureReason, "unknown provider") {
		t.Errorf("FailureReason = %q", out.Result.FailureReason)
	}
	if prov.calls != 0 {
		t.Errorf("provider should not be called for unknown slug")
	}
}

func TestCalculateRuleSourceError(t *testing.T) {
	prov := &fakeProvider{slug: "fake", result: successResult(t, "7")}
	c := newTestCalculator(t, prov, &stubRules{err: errors.New("db gone")})

	// 基础设施故障要返回 error，交由上层重试
	if _, err := c.Calculate(context.Background(), testInput("")); err == nil {
		t.Fatal("expected error when rule listing fails")
	}
}

func TestCalculateOverrideShortCircuits(t *testing.T) {
	prov := &fakeProvider{slug: "fake", result: provider.Failure("must not be reached", nil)}
	rules := &stubRules{rows: []*rate.Row{
		{MaxDistance: "10", RateClasses: map[int64]string{0: "1000"}},
	}}
	c := newTestCalculator(t, prov, rules)
	c.Override = func(ctx context.Context, destination, origin *geo.Location, settings provider.Settings) (*geo.Distance, error) {
		return geo.FromKm("3")
	}

	out, err := c.Calculate(context.Background(), testInput(""))
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	if out.Status != model.QuoteStatusDone {
		t.Fatalf("Status = %q, want DONE", out.Status)
	}
	if out.Result.Cost != "3000.00" {
		t.Errorf("Cost = %q, want 3000.00", out.Result.Cost)
	}
	if prov.calls != 0 {
		t.Errorf("provider calls = %d, override must short-circuit", prov.calls)
	}
}

func TestCalculateOverrideFallsThrough(t *testing.T) {
	prov := &fakeProvider{slug: "fake", result: successResult(t, "2")}
	rules := &stubRules{rows: []*rate.Row{
		{MaxDistance: "10", RateClasses: map[int64]string{0: "1000"}},
	}}
	c := newTestCalculator(t, prov, rules)
	c.Override = func(ctx context.Context, destination, origin *geo.Location, settings provider.Settings) (*geo.Distance, error) {
		return nil, nil // 放行给服务商
	}

	out, err := c.Calculate(context.Background(), testInput(""))
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	if out.Status != model.QuoteStatusDone {
		t.Fatalf("Status = %q, want DONE", out.Status)
	}
	if prov.calls != 1 {
		t.Errorf("provider calls = %d, want 1 after override falls through", prov.calls)
	}
}

func TestCalculateOverrideError(t *testing.T) {
	prov := &fakeProvider{slug: "fake", result: successResult(t, "2")}
	c := newTestCalculator(t, prov, &stubRules{})
	c.Override = func(ctx context.Context, destination, origin *geo.Location, settings provider.Settings) (*geo.Distance, error) {
		return nil, errors.New("custom source down")
	}

	out, err := c.Calculate(context.Background(), testInput(""))
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	if out.Status != model.QuoteStatusFailed {
		t.Fatalf("Status = %q, want FAILED", out.Status)
	}
	if !strings.Contains(out.Result.FailureReason, "custom source down") {
		t.Errorf("FailureReason = %q", out.Result.FailureReason)
	}
}

func TestCalculateRoundUpDistance(t *testing.T) {
	prov := &fakeProvider{slug: "fake", result: successResult(t, "5.1")}
	rules := &stubRules{rows: []*rate.Row{
		{MaxDistance: "10", RateClasses: map[int64]string{0: "1000"}},
	}}

	settings := rate.DefaultSettings()
	settings.RoundUpDistance = true
	c := NewCalculator(
		provider.NewRegistry(prov),
		settings,
		map[string]provider.Settings{"fake": {}},
		"fake",
		rules,
		nopLogger{},
	)

	out, err := c.Calculate(context.Background(), testInput(""))
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	if out.Result.Cost != "6000.00" {
		t.Errorf("Cost = %q, want 6000.00 with rounded-up distance", out.Result.Cost)
	}
	if out.Result.DistanceText != "6" {
		t.Errorf("DistanceText = %q, want rounded-up text", out.Result.DistanceText)
	}
}
