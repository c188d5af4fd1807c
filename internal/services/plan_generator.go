package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"holou/pkg/jsonrepair"
	"holou/pkg/logger"
	"holou/pkg/utils"
)

const (
	StagePrimary = "primary"
	StageMinimal = "minimal"
	StageStatic  = "static"
)

const (
	ReasonTimeout        = "timeout"
	ReasonServiceError   = "service_error"
	ReasonUnparseable    = "unparseable"
	ReasonEmptyDailyPlan = "empty_daily_plan"
)

var errNoTextGenerator = errors.New("no text generation service configured")

// StageError is why one generation stage produced no plan.
type StageError struct {
	Stage  string
	Reason string
	Err    error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("plan stage %s failed (%s): %v", e.Stage, e.Reason, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// GeneratedPlan is a shaped plan plus a record of the stages that failed
// before it was produced.
type GeneratedPlan struct {
	Content  map[string]any
	Source   string
	Failures []*StageError
}

type PlanGeneratorInterface interface {
	Generate(ctx context.Context, in PlanInputs) (*GeneratedPlan, error)
}

type PlanGeneratorConfig struct {
	PrimaryTimeout time.Duration
	MinimalTimeout time.Duration
	ReviewEnabled  bool
	ReviewTimeout  time.Duration
}

type PlanGenerator struct {
	ai     utils.TextGenerator
	cfg    PlanGeneratorConfig
	log    *logger.Logger
	tracer trace.Tracer
}

func NewPlanGenerator(ai utils.TextGenerator, cfg PlanGeneratorConfig, log *logger.Logger) *PlanGenerator {
	return &PlanGenerator{
		ai:     ai,
		cfg:    cfg,
		log:    log,
		tracer: otel.Tracer("holou/services/plan"),
	}
}

type planStage struct {
	name string
	run  func(ctx context.Context, in PlanInputs) (map[string]any, error)
}

// Generate tries the primary, minimal and static stages in order and
// returns the first plan produced. The static stage makes no external call,
// so an error here means even the template could not be built.
func (g *PlanGenerator) Generate(ctx context.Context, in PlanInputs) (*GeneratedPlan, error) {
	ctx, span := g.tracer.Start(ctx, "plan.generate")
	defer span.End()

	result := &GeneratedPlan{}
	stages := []planStage{
		{name: StagePrimary, run: g.runPrimary},
		{name: StageMinimal, run: g.runMinimal},
		{name: StageStatic, run: g.runStatic},
	}

	for _, stage := range stages {
		started := time.Now()
		content, err := g.runStage(ctx, stage, in)
		if err == nil {
			g.log.Info("plan stage succeeded", "stage", stage.name, "elapsed", time.Since(started))
			result.Content = content
			result.Source = stage.name
			span.SetAttributes(attribute.String("plan.source", stage.name))
			return result, nil
		}

		var stageErr *StageError
		if !errors.As(err, &stageErr) {
			stageErr = &StageError{Stage: stage.name, Reason: ReasonServiceError, Err: err}
		}
		result.Failures = append(result.Failures, stageErr)
		g.log.Warn("plan stage failed",
			"stage", stage.name,
			"reason", stageErr.Reason,
			"elapsed", time.Since(started),
			"error", stageErr.Err,
		)
	}

	err := fmt.Errorf("every plan stage failed: %w", result.Failures[len(result.Failures)-1])
	span.RecordError(err)
	span.SetStatus(codes.Error, "plan generation failed")
	return nil, err
}

func (g *PlanGenerator) runStage(ctx context.Context, stage planStage, in PlanInputs) (map[string]any, error) {
	ctx, span := g.tracer.Start(ctx, "plan.stage."+stage.name)
	defer span.End()

	content, err := stage.run(ctx, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return content, err
}

func (g *PlanGenerator) runPrimary(ctx context.Context, in PlanInputs) (map[string]any, error) {
	doc, err := g.modelStage(ctx, StagePrimary, g.cfg.PrimaryTimeout, primaryInstructions, primaryPrompt(in), in)
	if err != nil {
		return nil, err
	}
	if g.cfg.ReviewEnabled {
		if improved, ok := g.review(ctx, in, doc); ok {
			return improved, nil
		}
	}
	return doc, nil
}

func (g *PlanGenerator) runMinimal(ctx context.Context, in PlanInputs) (map[string]any, error) {
	return g.modelStage(ctx, StageMinimal, g.cfg.MinimalTimeout, minimalInstructions, minimalPrompt(in), in)
}

func (g *PlanGenerator) runStatic(_ context.Context, in PlanInputs) (map[string]any, error) {
	doc, err := StaticPlan(in)
	if err != nil {
		return nil, &StageError{Stage: StageStatic, Reason: ReasonServiceError, Err: err}
	}
	return doc, nil
}

// modelStage asks the model for a plan and runs the reply through
// extraction, repair, parsing and shaping.
func (g *PlanGenerator) modelStage(ctx context.Context, stage string, timeout time.Duration, instructions, prompt string, in PlanInputs) (map[string]any, error) {
	if g.ai == nil {
		return nil, &StageError{Stage: stage, Reason: ReasonServiceError, Err: errNoTextGenerator}
	}

	text, err := callWithTimeout(ctx, timeout, func(ctx context.Context) (string, error) {
		return g.ai.GenerateText(ctx, instructions, prompt)
	})
	if err != nil {
		return nil, &StageError{Stage: stage, Reason: callFailureReason(err), Err: err}
	}

	doc, pass, err := jsonrepair.Decode(text)
	if err != nil {
		return nil, &StageError{Stage: stage, Reason: ReasonUnparseable, Err: err}
	}
	if pass != jsonrepair.PassRepair {
		g.log.Debug("plan needed extra repair", "stage", stage, "pass", pass)
	}

	shaped, err := ShapePlan(doc, in)
	if err != nil {
		return nil, &StageError{Stage: stage, Reason: ReasonEmptyDailyPlan, Err: err}
	}
	return shaped, nil
}

// review asks the model to check a primary plan. Any failure keeps the
// original plan.
func (g *PlanGenerator) review(ctx context.Context, in PlanInputs, doc map[string]any) (map[string]any, bool) {
	ctx, span := g.tracer.Start(ctx, "plan.review")
	defer span.End()

	planJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, false
	}

	text, err := callWithTimeout(ctx, g.cfg.ReviewTimeout, func(ctx context.Context) (string, error) {
		return g.ai.GenerateText(ctx, reviewInstructions, reviewPrompt(in, string(planJSON)))
	})
	if err != nil {
		g.log.Warn("plan review failed", "reason", callFailureReason(err), "error", err)
		return nil, false
	}

	reviewDoc, _, err := jsonrepair.Decode(text)
	if err != nil {
		g.log.Warn("plan review unparseable", "error", err)
		return nil, false
	}

	improved, ok := reviewDoc["improved_plan"].(map[string]any)
	if !ok {
		return nil, false
	}
	shaped, err := ShapePlan(improved, in)
	if err != nil {
		g.log.Warn("reviewed plan rejected", "error", err)
		return nil, false
	}

	g.log.Info("plan review applied", "quality_score", reviewDoc["quality_score"], "is_valid", reviewDoc["is_valid"])
	return shaped, true
}

// callWithTimeout runs call with a deadline. When the deadline passes the
// call's eventual result is dropped.
func callWithTimeout(ctx context.Context, timeout time.Duration, call func(ctx context.Context) (string, error)) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := call(ctx)
		done <- result{text: text, err: err}
	}()

	select {
	case r := <-done:
		return r.text, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func callFailureReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	return ReasonServiceError
}
