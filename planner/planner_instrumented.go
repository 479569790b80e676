package planner

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"nutriplan"
)

// InstrumentedOrchestrator wraps an Orchestrator with run-level metrics
// and tracing.
type InstrumentedOrchestrator struct {
	inner  *Orchestrator
	tracer trace.Tracer
	meter  metric.Meter
}

func NewInstrumented(inner *Orchestrator, tracer trace.Tracer, meter metric.Meter) *InstrumentedOrchestrator {
	return &InstrumentedOrchestrator{inner: inner, tracer: tracer, meter: meter}
}

// Progress returns the wrapped session's progress counters.
func (o *InstrumentedOrchestrator) Progress() *Progress {
	return o.inner.Progress()
}

// Generate runs the wrapped orchestrator with full instrumentation.
func (o *InstrumentedOrchestrator) Generate(ctx context.Context, req nutriplan.MultiDayPlanRequest) (*nutriplan.MultiDayMealPlan, error) {
	ctx, span := o.tracer.Start(ctx, "InstrumentedOrchestrator.Generate")
	defer span.End()

	runsCounter, _ := o.meter.Int64Counter("planner_runs_total",
		metric.WithDescription("Total number of plan-generation runs started"))
	runsCompletedCounter, _ := o.meter.Int64Counter("planner_runs_completed_total",
		metric.WithDescription("Total number of plan-generation runs completed successfully"))
	runsFailedCounter, _ := o.meter.Int64Counter("planner_runs_failed_total",
		metric.WithDescription("Total number of plan-generation runs that failed"))
	mealsCounter, _ := o.meter.Int64Counter("planner_meals_total",
		metric.WithDescription("Total number of meal slots generated"))
	runDuration, _ := o.meter.Float64Histogram("planner_run_duration_seconds",
		metric.WithDescription("Duration of plan-generation runs"))

	span.SetAttributes(
		attribute.Int("plan.days", req.NumberOfDays),
		attribute.Int("plan.slots", len(req.Slots)),
		attribute.Float64("plan.daily_calories", req.DailyTargets.Calories),
	)
	runsCounter.Add(ctx, 1)

	start := time.Now()
	plan, err := o.inner.Generate(ctx, req)
	runDuration.Record(ctx, time.Since(start).Seconds())

	completed, _ := o.inner.Progress().Snapshot()
	mealsCounter.Add(ctx, int64(completed))

	if err != nil {
		runsFailedCounter.Add(ctx, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	runsCompletedCounter.Add(ctx, 1)
	span.SetAttributes(
		attribute.String("plan.id", plan.ID),
		attribute.Float64("plan.accuracy", plan.Summary.AverageAccuracy),
	)
	return plan, nil
}
