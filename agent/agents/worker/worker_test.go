package worker

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	contractx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/contract"
)

type fakeInvoker struct {
	mu    sync.Mutex
	calls []contractx.ToolInvocation
	err   error
}

func (f *fakeInvoker) Invoke(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, contractx.ToolInvocation{Tool: tool, Args: args})
	if f.err != nil {
		return contractx.ToolResult{Tool: tool, IsError: true}, f.err
	}
	return contractx.ToolResult{Tool: tool, Text: "ok " + tool}, nil
}

func (f *fakeInvoker) tools() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.Tool)
	}
	return out
}

type fakeGateway struct {
	inv contractx.ToolInvoker
	err error
}

func (g fakeGateway) Invoker(ctx context.Context) (contractx.ToolInvoker, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.inv, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
	return nil
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func newTestWorker(t *testing.T, kind Kind, opts ...Option) (*Worker, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	base := []Option{
		WithSleep(clock.sleep),
		WithClock(clock.Now),
		WithPicker(func(int) int { return 0 }),
	}
	w, err := New(kind, DefaultURL(kind), append(base, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return w, clock
}

func TestBurgerCallsToolsInOrder(t *testing.T) {
	t.Parallel()

	inv := &fakeInvoker{}
	w, _ := newTestWorker(t, KindBurger, WithToolGateway(fakeGateway{inv: inv}))

	res, err := w.Execute(context.Background(), contractx.Order{ID: "ORD-001", Description: "hamburguesa con queso"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := []string{
		contractx.ToolLogPreparationStart,
		contractx.ToolValidateIngredients,
		contractx.ToolLogPreparationComplete,
		contractx.ToolGetQualityScore,
	}
	got := inv.tools()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("tool calls = %v, want %v", got, want)
	}
	if res.Degraded {
		t.Fatal("result must not be degraded")
	}
	if res.QualityCheck != "ok "+contractx.ToolGetQualityScore {
		t.Fatalf("unexpected quality check: %q", res.QualityCheck)
	}
	if len(res.ToolNotes) != 4 {
		t.Fatalf("expected 4 tool notes, got %d", len(res.ToolNotes))
	}
	if !strings.Contains(res.Text, "MCP Quality Check: Completado ✓") {
		t.Fatalf("unexpected text: %q", res.Text)
	}

	complete := inv.calls[2].Args["preparation_time"]
	if complete != 5.0 {
		t.Fatalf("preparation_time arg = %v, want 5", complete)
	}
}

func TestPizzaSkipsIngredientValidation(t *testing.T) {
	t.Parallel()

	inv := &fakeInvoker{}
	w, _ := newTestWorker(t, KindPizza, WithToolGateway(fakeGateway{inv: inv}))

	if _, err := w.Execute(context.Background(), contractx.Order{ID: "ORD-002"}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, tool := range inv.tools() {
		if tool == contractx.ToolValidateIngredients {
			t.Fatal("pizza must not validate ingredients")
		}
	}
	if len(inv.tools()) != 3 {
		t.Fatalf("expected 3 tool calls, got %v", inv.tools())
	}
}

func TestStepsAreTimestampedAndSummed(t *testing.T) {
	t.Parallel()

	cases := []struct {
		kind  Kind
		steps int
		total time.Duration
	}{
		{KindBurger, 6, 5 * time.Second},
		{KindHotDog, 6, 3900 * time.Millisecond},
		{KindPizza, 7, 7 * time.Second},
	}
	for _, tc := range cases {
		w, clock := newTestWorker(t, tc.kind)
		start := clock.Now()

		res, err := w.Execute(context.Background(), contractx.Order{ID: "o"})
		if err != nil {
			t.Fatalf("%s Execute() error = %v", tc.kind, err)
		}
		if len(res.Steps) != tc.steps {
			t.Fatalf("%s steps = %d, want %d", tc.kind, len(res.Steps), tc.steps)
		}
		if res.PreparationTime != tc.total {
			t.Fatalf("%s preparation time = %v, want %v", tc.kind, res.PreparationTime, tc.total)
		}

		var elapsed time.Duration
		for i, s := range res.Steps {
			elapsed += s.Duration
			if !s.Timestamp.Equal(start.Add(elapsed)) {
				t.Fatalf("%s step %d timestamp = %v, want %v", tc.kind, i, s.Timestamp, start.Add(elapsed))
			}
		}
	}
}

func TestExecuteDegradesWhenToolsUnavailable(t *testing.T) {
	t.Parallel()

	for _, kind := range Kinds() {
		w, _ := newTestWorker(t, kind, WithToolGateway(fakeGateway{err: contractx.ErrConnection}))
		res, err := w.Execute(context.Background(), contractx.Order{ID: "o", Description: "x"})
		if err != nil {
			t.Fatalf("%s Execute() error = %v", kind, err)
		}
		if !res.Degraded {
			t.Fatalf("%s result must be degraded", kind)
		}
		if res.Text == "" {
			t.Fatalf("%s result text must not be empty", kind)
		}
		if len(res.Steps) == 0 {
			t.Fatalf("%s steps must still run", kind)
		}
	}
}

func TestExecuteDegradesWhenCallsFail(t *testing.T) {
	t.Parallel()

	inv := &fakeInvoker{err: contractx.ErrNotConnected}
	w, _ := newTestWorker(t, KindBurger, WithToolGateway(fakeGateway{inv: inv}))

	res, err := w.Execute(context.Background(), contractx.Order{ID: "o"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !res.Degraded {
		t.Fatal("result must be degraded")
	}
	if len(inv.tools()) != 4 {
		t.Fatalf("every tool should still be attempted, got %v", inv.tools())
	}
	if !strings.Contains(res.Text, "MCP Quality Check: No disponible") {
		t.Fatalf("unexpected text: %q", res.Text)
	}
}

func TestExecuteWithoutGateway(t *testing.T) {
	t.Parallel()

	w, _ := newTestWorker(t, KindHotDog)
	res, err := w.Execute(context.Background(), contractx.Order{ID: "o"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	want := "Hot Dog preparado con maestría!\n\n" +
		"Detalles:\n" +
		"  • Calidad: excepcional\n" +
		"  • Tiempo: 3.9s\n" +
		"  • Toppings: mostaza dijon, ketchup orgánico, cebolla crujiente, jalapeños\n" +
		"  • Estilo: Estilo Nueva York"
	if res.Text != want {
		t.Fatalf("text = %q, want %q", res.Text, want)
	}
}

func TestExecuteCancelled(t *testing.T) {
	t.Parallel()

	w, _ := newTestWorker(t, KindPizza)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := w.Execute(ctx, contractx.Order{ID: "o"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Execute() error = %v, want context.Canceled", err)
	}
}

func TestExecuteRealSleepHonoursCancel(t *testing.T) {
	t.Parallel()

	w, err := New(KindPizza, "", WithTimeScale(100))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = w.Execute(ctx, contractx.Order{ID: "o"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Execute() error = %v, want DeadlineExceeded", err)
	}
}

func TestCardIsACopy(t *testing.T) {
	t.Parallel()

	w, _ := newTestWorker(t, KindBurger)
	card := w.Card()
	card.DisplayName = "mutated"
	card.Skills[0].Tags[0] = "mutated"

	again := w.Card()
	if again.DisplayName != "Hamburguesa Chef" || again.Skills[0].Tags[0] != "hamburguesa" {
		t.Fatalf("card was mutated through a copy: %+v", again)
	}
}

func TestNewRejectsUnknownKindAndNegativeScale(t *testing.T) {
	t.Parallel()

	if _, err := New(Kind("sushi"), ""); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("New(sushi) error = %v, want ErrValidation", err)
	}
	if _, err := New(KindPizza, "", WithTimeScale(-1)); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("New(scale=-1) error = %v, want ErrValidation", err)
	}
}

func TestNewRoster(t *testing.T) {
	t.Parallel()

	roster, err := NewRoster(WithTimeScale(0))
	if err != nil {
		t.Fatalf("NewRoster() error = %v", err)
	}
	if len(roster) != 3 {
		t.Fatalf("expected 3 workers, got %d", len(roster))
	}
	for i, kind := range Kinds() {
		card := roster[i].Card()
		if card.ID != string(kind) {
			t.Fatalf("worker %d id = %s, want %s", i, card.ID, kind)
		}
		if len(card.Tags()) == 0 {
			t.Fatalf("worker %s has no tags", kind)
		}
		if card.URL != DefaultURL(kind) {
			t.Fatalf("worker %s url = %s", kind, card.URL)
		}
	}
}
