package worker

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	contractx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/contract"
	"github.com/rs/zerolog/log"
)

type Option func(*Worker)

// WithToolGateway enables tool calls. Without one the worker runs degraded.
func WithToolGateway(g contractx.ToolGateway) Option {
	return func(w *Worker) {
		w.gateway = g
	}
}

// WithTimeScale multiplies every simulated step delay. 0 disables waiting.
func WithTimeScale(scale float64) Option {
	return func(w *Worker) {
		w.scale = scale
	}
}

func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(w *Worker) {
		if fn != nil {
			w.sleep = fn
		}
	}
}

func WithClock(fn func() time.Time) Option {
	return func(w *Worker) {
		if fn != nil {
			w.now = fn
		}
	}
}

// WithPicker overrides the random quality adjective choice.
func WithPicker(fn func(n int) int) Option {
	return func(w *Worker) {
		if fn != nil {
			w.pick = fn
		}
	}
}

// Worker prepares one kind of item. Its card is fixed at construction.
type Worker struct {
	kind    Kind
	recipe  recipe
	gateway contractx.ToolGateway
	scale   float64
	sleep   func(ctx context.Context, d time.Duration) error
	now     func() time.Time
	pick    func(n int) int
}

var _ contractx.Worker = (*Worker)(nil)

func New(kind Kind, url string, opts ...Option) (*Worker, error) {
	r, err := recipeFor(kind, url)
	if err != nil {
		return nil, err
	}

	w := &Worker{
		kind:   kind,
		recipe: r,
		scale:  1,
		sleep:  sleepContext,
		now:    time.Now,
		pick:   rand.IntN,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	if w.scale < 0 {
		return nil, fmt.Errorf("%w: time scale must be >= 0", contractx.ErrValidation)
	}

	card := w.recipe.card
	log.Info().
		Str("worker_id", card.ID).
		Str("url", card.URL).
		Strs("skills", card.SkillNames()).
		Msgf("%s inicializado", card.DisplayName)
	return w, nil
}

func (w *Worker) Kind() Kind {
	return w.kind
}

func (w *Worker) Card() contractx.CapabilityCard {
	return w.recipe.card.Clone()
}

// Execute runs the step sequence. Tool failures only degrade the result;
// cancellation of ctx aborts it.
func (w *Worker) Execute(ctx context.Context, order contractx.Order) (contractx.PreparationResult, error) {
	card := w.recipe.card
	logger := log.With().
		Str("worker_id", card.ID).
		Str("order_id", order.ID).
		Logger()

	logger.Info().Str("description", order.Description).Msgf("[%s] Tarea recibida", card.DisplayName)

	res := contractx.PreparationResult{
		Item:        w.recipe.item,
		Ingredients: append([]string(nil), w.recipe.ingredients...),
		Details:     make(map[string]string, len(w.recipe.details)),
		Steps:       make([]contractx.PreparationStep, 0, len(w.recipe.steps)),
	}
	for k, v := range w.recipe.details {
		res.Details[k] = v
	}

	tools := w.acquireTools(ctx, &res)

	logger.Info().Msgf("[%s] Comenzando preparación...", card.DisplayName)
	if _, err := w.callTool(ctx, tools, &res, contractx.ToolLogPreparationStart, map[string]any{
		"item_name":  w.recipe.toolItem,
		"agent_name": card.DisplayName,
	}); err != nil {
		return contractx.PreparationResult{}, err
	}

	if w.recipe.validate {
		if _, err := w.callTool(ctx, tools, &res, contractx.ToolValidateIngredients, map[string]any{
			"ingredients": res.Ingredients,
		}); err != nil {
			return contractx.PreparationResult{}, err
		}
	}

	var total time.Duration
	for _, s := range w.recipe.steps {
		logger.Info().Msgf("  └─ %s", s.label)
		if err := w.sleep(ctx, time.Duration(float64(s.duration)*w.scale)); err != nil {
			return contractx.PreparationResult{}, fmt.Errorf("prepare %s: %w", w.recipe.item, err)
		}
		total += s.duration
		res.Steps = append(res.Steps, contractx.PreparationStep{
			Label:     s.label,
			Duration:  s.duration,
			Timestamp: w.now(),
		})
	}
	res.PreparationTime = total

	if _, err := w.callTool(ctx, tools, &res, contractx.ToolLogPreparationComplete, map[string]any{
		"item_name":        w.recipe.toolItem,
		"agent_name":       card.DisplayName,
		"preparation_time": total.Seconds(),
	}); err != nil {
		return contractx.PreparationResult{}, err
	}

	quality, err := w.callTool(ctx, tools, &res, contractx.ToolGetQualityScore, map[string]any{
		"item_type":        card.ID,
		"preparation_time": total.Seconds(),
	})
	if err != nil {
		return contractx.PreparationResult{}, err
	}
	res.QualityCheck = quality

	res.Quality = w.recipe.qualities[w.pick(len(w.recipe.qualities))]
	res.Text = w.recipe.render(res)

	logger.Info().
		Dur("preparation_time", total).
		Bool("degraded", res.Degraded).
		Msgf("[%s] ¡%s listo!", card.DisplayName, w.recipe.toolItem)
	return res, nil
}

func (w *Worker) acquireTools(ctx context.Context, res *contractx.PreparationResult) contractx.ToolInvoker {
	if w.gateway == nil {
		res.Degraded = true
		return nil
	}
	inv, err := w.gateway.Invoker(ctx)
	if err != nil {
		res.Degraded = true
		log.Warn().Err(err).Str("worker_id", w.recipe.card.ID).Msg("tool session unavailable, continuing without tools")
		return nil
	}
	return inv
}

// callTool returns the tool text, or "" when the call could not complete.
// Only a cancelled ctx is reported as an error.
func (w *Worker) callTool(
	ctx context.Context,
	inv contractx.ToolInvoker,
	res *contractx.PreparationResult,
	tool string,
	args map[string]any,
) (string, error) {
	if inv == nil {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("prepare %s: %w", w.recipe.item, err)
		}
		return "", nil
	}

	out, err := inv.Invoke(ctx, tool, args)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("prepare %s: %w", w.recipe.item, ctxErr)
		}
		res.Degraded = true
		log.Warn().
			Err(err).
			Str("worker_id", w.recipe.card.ID).
			Str("tool", tool).
			Msg("tool call failed, continuing")
		return "", nil
	}
	if out.IsError {
		res.Degraded = true
		log.Warn().
			Str("worker_id", w.recipe.card.ID).
			Str("tool", tool).
			Str("text", out.Text).
			Msg("tool reported an error")
		return "", nil
	}

	text := strings.TrimSpace(out.Text)
	if text != "" {
		res.ToolNotes = append(res.ToolNotes, text)
	}
	return text, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
