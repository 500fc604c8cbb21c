// Package runner orchestrates a single prompt execution from definition
// to delivery.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/jackzampolin/promptrun/internal/delivery"
	"github.com/jackzampolin/promptrun/internal/prompts"
	"github.com/jackzampolin/promptrun/internal/providers"
	"github.com/jackzampolin/promptrun/internal/render"
	"github.com/jackzampolin/promptrun/internal/store"
)

// Stage identifies where in the pipeline a run failed.
type Stage string

const (
	StageLoad     Stage = "load"
	StageRender   Stage = "render"
	StageGenerate Stage = "generate"
	StagePersist  Stage = "persist"
	StageDeliver  Stage = "deliver"
)

// StageError wraps a failure with the pipeline stage it occurred in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Options control a single run.
type Options struct {
	ProfilePath string
	DryRun      bool // Render only; no provider call, no persistence
	NoDeliver   bool // Generate and persist, but skip delivery
	OutputPath  string
}

// Result summarizes a completed run.
type Result struct {
	PromptName     string
	RenderedPrompt string
	Response       string
	Record         *store.RunRecord
	Duplicate      bool
	Delivered      bool
	DryRun         bool
}

// Runner wires the pipeline dependencies together. Store may be nil only
// for dry runs.
type Runner struct {
	Providers  *providers.Registry
	Delivery   *delivery.Registry
	Store      *store.Store
	Logger     *slog.Logger
	Clock      func() time.Time
	Stdout     io.Writer
	PromptsDir string

	// Fallbacks for prompts that do not name a provider.
	DefaultLLMProvider      string
	DefaultDeliveryProvider string
}

func (r *Runner) llmProviderName(cfg *prompts.PromptConfig) string {
	if cfg.LLM.Provider != "" {
		return cfg.LLM.Provider
	}
	if r.DefaultLLMProvider != "" {
		return r.DefaultLLMProvider
	}
	return "openai"
}

func (r *Runner) deliveryProviderName(cfg *prompts.PromptConfig) string {
	if cfg.Delivery.Provider != "" {
		return cfg.Delivery.Provider
	}
	if r.DefaultDeliveryProvider != "" {
		return r.DefaultDeliveryProvider
	}
	return "email"
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func (r *Runner) now() time.Time {
	if r.Clock != nil {
		return r.Clock()
	}
	return time.Now()
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

// Run executes one prompt end to end. Every non-dry run is persisted
// before delivery is attempted, so a delivery failure never loses the
// generated response.
func (r *Runner) Run(ctx context.Context, promptRef string, opts Options) (*Result, error) {
	runID := uuid.NewString()
	log := r.logger().With("run_id", runID)

	// Load
	path, err := prompts.Resolve(promptRef, r.PromptsDir)
	if err != nil {
		return nil, &StageError{Stage: StageLoad, Err: err}
	}
	cfg, err := prompts.Load(path)
	if err != nil {
		return nil, &StageError{Stage: StageLoad, Err: err}
	}

	profile := map[string]interface{}{}
	if opts.ProfilePath != "" {
		profile, err = prompts.LoadProfile(opts.ProfilePath)
		if err != nil {
			return nil, &StageError{Stage: StageLoad, Err: err}
		}
	}
	log.Info("loaded prompt", "name", cfg.Name, "path", path, "provider", r.llmProviderName(cfg))

	// Render
	tmplCtx := render.BuildContext(profile, r.now(), os.Environ())
	rendered, err := render.Render(cfg.Name, cfg.Prompt, tmplCtx)
	if err != nil {
		return nil, &StageError{Stage: StageRender, Err: err}
	}

	subjectTmpl := cfg.Delivery.Subject
	if subjectTmpl == "" {
		subjectTmpl = "Prompt Runner: " + cfg.Name
	}
	subject, err := render.Render(cfg.Name+":subject", subjectTmpl, tmplCtx)
	if err != nil {
		return nil, &StageError{Stage: StageRender, Err: err}
	}

	result := &Result{
		PromptName:     cfg.Name,
		RenderedPrompt: rendered,
		DryRun:         opts.DryRun,
	}

	if opts.DryRun {
		fmt.Fprintln(r.stdout(), rendered)
		log.Info("dry run complete", "name", cfg.Name, "rendered_bytes", len(rendered))
		return result, nil
	}

	// Generate
	provider, err := r.Providers.Get(r.llmProviderName(cfg))
	if err != nil {
		return nil, &StageError{Stage: StageGenerate, Err: err}
	}
	genStart := time.Now()
	gen, err := provider.Generate(ctx, &providers.GenerateRequest{
		Prompt:          rendered,
		SystemPrompt:    cfg.SystemPrompt,
		Model:           cfg.LLM.Model,
		Temperature:     cfg.LLM.Temperature,
		MaxTokens:       cfg.LLM.MaxTokens,
		EnableWebSearch: cfg.LLM.EnableWebSearch,
		RequestID:       runID,
	})
	if err != nil {
		return nil, &StageError{Stage: StageGenerate, Err: err}
	}
	result.Response = gen.Content
	log.Info("response generated",
		"name", cfg.Name,
		"provider", gen.Provider,
		"model", gen.ModelUsed,
		"tokens", gen.TotalTokens,
		"duration", time.Since(genStart))

	// Persist. The prior run is looked up before inserting this one so the
	// fingerprint match can never be this run's own row.
	if r.Store == nil {
		return nil, &StageError{Stage: StagePersist, Err: fmt.Errorf("no store configured")}
	}
	fingerprint := store.Fingerprint(rendered)
	prior, err := r.Store.FindDeliveredByFingerprint(ctx, fingerprint)
	if err != nil {
		return nil, &StageError{Stage: StagePersist, Err: err}
	}

	rec, err := r.Store.Record(ctx, &store.RunRecord{
		PromptName:       cfg.Name,
		Fingerprint:      fingerprint,
		Model:            gen.ModelUsed,
		ResponseText:     gen.Content,
		DeliveryStatus:   store.StatusPending,
		PromptTokens:     gen.PromptTokens,
		CompletionTokens: gen.CompletionTokens,
		CreatedAt:        r.now().UTC(),
	})
	if err != nil {
		return nil, &StageError{Stage: StagePersist, Err: err}
	}
	result.Record = rec

	if opts.OutputPath != "" {
		if err := os.WriteFile(opts.OutputPath, []byte(gen.Content), 0o644); err != nil {
			return result, &StageError{Stage: StagePersist, Err: fmt.Errorf("write output file: %w", err)}
		}
		log.Info("wrote response", "path", opts.OutputPath)
	}

	// Deliver
	status, detail, delivered, duplicate, deliverErr := r.deliver(ctx, cfg, rec, prior, subject, opts)
	result.Delivered = delivered
	result.Duplicate = duplicate

	if err := r.Store.RecordDeliveryOutcome(ctx, rec.ID, status, detail); err != nil {
		return result, &StageError{Stage: StagePersist, Err: err}
	}
	rec.DeliveryStatus = status
	rec.DeliveryDetail = detail

	if deliverErr != nil {
		return result, &StageError{Stage: StageDeliver, Err: deliverErr}
	}
	return result, nil
}

// deliver decides the delivery outcome for a freshly persisted run.
// Duplicate suppression only applies when a previous run with the same
// fingerprint actually went out.
func (r *Runner) deliver(ctx context.Context, cfg *prompts.PromptConfig, rec *store.RunRecord, prior *store.RunRecord, subject string, opts Options) (status, detail string, delivered, duplicate bool, err error) {
	log := r.logger()

	if opts.NoDeliver {
		log.Info("delivery disabled for this run", "name", cfg.Name)
		return store.StatusNotDelivered, "delivery disabled", false, false, nil
	}

	if prior != nil {
		log.Info("skipping delivery of duplicate content",
			"name", cfg.Name, "prior_run", prior.ID, "prior_at", prior.CreatedAt)
		return store.StatusSkippedDuplicate,
			fmt.Sprintf("duplicate of run %d", prior.ID), false, true, nil
	}

	if len(cfg.Delivery.Recipients) == 0 {
		log.Info("no recipients configured, skipping delivery", "name", cfg.Name)
		return store.StatusNotDelivered, "no recipients configured", false, false, nil
	}

	if r.Delivery == nil {
		err := fmt.Errorf("no delivery providers configured")
		return store.StatusFailed, err.Error(), false, false, err
	}
	channelName := r.deliveryProviderName(cfg)
	channel, err := r.Delivery.Get(channelName)
	if err != nil {
		return store.StatusFailed, err.Error(), false, false, err
	}

	html, err := render.MarkdownToHTML(rec.ResponseText)
	if err != nil {
		return store.StatusFailed, err.Error(), false, false, err
	}

	res, err := channel.Deliver(ctx, &delivery.Message{
		Recipients: cfg.Delivery.Recipients,
		Subject:    subject,
		Text:       rec.ResponseText,
		HTML:       html,
	})
	if err != nil {
		log.Error("delivery failed", "name", cfg.Name, "provider", channelName, "error", err)
		return store.StatusFailed, err.Error(), false, false, err
	}

	log.Info("delivered",
		"name", cfg.Name,
		"provider", channelName,
		"recipients", res.Recipients,
		"message_id", res.MessageID)
	return store.StatusSent, res.MessageID, true, false, nil
}
