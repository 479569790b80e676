// Package planner drives single-meal generation across N days × M slots,
// verifying every suggested food against the reference database and
// assembling the final multi-day plan.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"nutriplan"
	"nutriplan/match"
	"nutriplan/nutrition"
	"nutriplan/queue"
)

// Orchestrator owns one plan-generation session. Construct one per run;
// the selection queue it is given is the session's human-interaction
// surface and shares its lifetime.
type Orchestrator struct {
	provider nutriplan.MealProvider
	searcher nutriplan.FoodSearcher
	queue    *queue.Queue
	tuning   nutriplan.Tuning
	logger   nutriplan.PlanLogger
	progress Progress
}

func New(provider nutriplan.MealProvider, searcher nutriplan.FoodSearcher, q *queue.Queue, tuning nutriplan.Tuning, logger nutriplan.PlanLogger) *Orchestrator {
	if logger == nil {
		logger = nutriplan.NewNoOpPlanLogger()
	}
	return &Orchestrator{
		provider: provider,
		searcher: searcher,
		queue:    q,
		tuning:   tuning,
		logger:   logger,
	}
}

// Progress returns the session's progress counters for a status display.
func (o *Orchestrator) Progress() *Progress {
	return &o.progress
}

// Generate produces a complete multi-day plan. Slot failures are local: a
// slot that fails after one retry is omitted from its day with a note and
// generation continues. Cancelling ctx aborts the run, clears the
// selection queue, and returns ErrGenerationAborted with no partial plan.
func (o *Orchestrator) Generate(ctx context.Context, req nutriplan.MultiDayPlanRequest) (*nutriplan.MultiDayMealPlan, error) {
	ctx, span := otel.Tracer(nutriplan.TracerNamePlanner).Start(ctx, "Orchestrator.Generate")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("rejecting plan request: %w", err)
	}

	slog.Info("PLANNER: Starting run",
		"days", req.NumberOfDays,
		"slots", len(req.Slots),
		"daily_calories", req.DailyTargets.Calories,
		"language", req.Language,
	)

	o.progress.reset(req.NumberOfDays * len(req.Slots))
	verifier := match.NewVerifier(o.tuning, req.Language)
	recent := newRecentIngredients(o.tuning.MaxAvoidIngredients)

	days := make([]nutriplan.DailyMealPlan, 0, req.NumberOfDays)

	for d := 0; d < req.NumberOfDays; d++ {
		if ctx.Err() != nil {
			return nil, o.abort()
		}

		day := nutriplan.DailyMealPlan{Date: req.StartDate.AddDate(0, 0, d)}
		budgets := SlotBudgets(req.Slots, req.DailyTargets, o.tuning.SlotShares)

		for i, slot := range req.Slots {
			if ctx.Err() != nil {
				return nil, o.abort()
			}

			mealReq := nutriplan.MealPlanRequest{
				Targets:      budgets[i],
				Slot:         slot,
				Restrictions: req.Restrictions,
				Conditions:   req.Conditions,
				PatientRef:   req.PatientRef,
				Language:     req.Language,
				Variety: nutriplan.VarietyGuidance{
					Cuisine:          cuisineFor(req.Cuisines, d),
					AvoidIngredients: recent.hint(),
					Emphasis:         phaseFor(d),
				},
			}

			entry := nutriplan.MealLog{Day: d + 1, Slot: string(slot), Timestamp: time.Now()}

			meal, escalated, err := o.generateSlot(ctx, verifier, mealReq)
			if err != nil && !isAbort(err) {
				slog.Warn("PLANNER: Slot failed, retrying once", "day", d+1, "slot", slot, "error", err)
				entry.Retried = true
				meal, escalated, err = o.generateSlot(ctx, verifier, mealReq)
			}
			if err != nil {
				if isAbort(err) {
					return nil, o.abort()
				}
				note := fmt.Sprintf("%s omitted: generation failed after retry: %v", slot, err)
				day.Notes = append(day.Notes, note)
				entry.Error = err.Error()
				o.logMeal(entry)
				o.progress.complete()
				slog.Error("PLANNER: Slot omitted", "day", d+1, "slot", slot, "error", err)
				continue
			}

			for _, f := range meal.Foods {
				recent.add(f.Suggested.Name)
			}

			day.Meals = append(day.Meals, *meal)
			o.progress.complete()

			entry.MealName = meal.Suggestion.MealName
			entry.Foods = len(meal.Foods)
			entry.Verified = countVerified(meal.Foods)
			entry.Escalated = escalated
			entry.Calories = meal.Total.Calories
			entry.Accuracy = meal.Accuracy
			o.logMeal(entry)

			completed, total := o.progress.Snapshot()
			slog.Info("PLANNER: Slot complete",
				"day", d+1,
				"slot", slot,
				"meal", meal.Suggestion.MealName,
				"progress", fmt.Sprintf("%d/%d", completed, total),
			)
		}

		day.Summary = nutrition.DailySummary(day.Meals)
		days = append(days, day)
	}

	if ctx.Err() != nil {
		return nil, o.abort()
	}

	plan := &nutriplan.MultiDayMealPlan{
		ID:           uuid.NewString(),
		PatientRef:   req.PatientRef,
		StartDate:    req.StartDate,
		NumberOfDays: req.NumberOfDays,
		Days:         days,
		Summary:      nutrition.PlanSummary(days),
		DailyAverage: nutrition.PlanDailyAverage(days),
		Language:     req.Language,
		GeneratedAt:  time.Now(),
	}

	slog.Info("PLANNER: Run complete", "plan_id", plan.ID, "accuracy", plan.Summary.AverageAccuracy)
	return plan, nil
}

// generateSlot runs one meal through the provider and the verification
// pipeline. The returned escalated count is how many foods went through
// the selection queue.
func (o *Orchestrator) generateSlot(ctx context.Context, verifier *match.Verifier, req nutriplan.MealPlanRequest) (*nutriplan.VerifiedMealPlanSuggestion, int, error) {
	suggestion, err := o.provider.GenerateMeal(ctx, req)
	if err != nil {
		return nil, 0, fmt.Errorf("meal provider: %w", err)
	}

	foods, estimated, escalated, err := o.verifyFoods(ctx, verifier, req.Language, suggestion.Foods)
	if err != nil {
		return nil, escalated, err
	}

	total := nutrition.MealTotal(foods)
	meal := &nutriplan.VerifiedMealPlanSuggestion{
		Suggestion: *suggestion,
		Foods:      foods,
		Total:      total,
		Accuracy:   nutrition.MealAccuracy(foods),
		Macros:     nutrition.Macros(total, estimated, o.tuning.NutritionDeviation),
		Notes:      suggestion.NutritionistNote,
	}
	return meal, escalated, nil
}

// verifyFoods runs every suggested food through candidate lookup and the
// verifier, escalating ambiguous matches through the selection queue. It
// returns the verified foods, the summed model estimates, and how many
// foods were escalated.
func (o *Orchestrator) verifyFoods(ctx context.Context, verifier *match.Verifier, lang string, suggested []nutriplan.SuggestedFood) ([]nutriplan.VerifiedFood, nutriplan.Nutrition, int, error) {
	ctx, span := otel.Tracer(nutriplan.TracerNameVerifier).Start(ctx, "Orchestrator.verifyFoods")
	defer span.End()

	foods := make([]nutriplan.VerifiedFood, 0, len(suggested))
	escalated := 0
	var estimated nutriplan.Nutrition

	for _, f := range suggested {
		estimated = estimated.Add(f.Estimated)

		candidates, err := o.searchCandidates(ctx, lang, f)
		if err != nil {
			return nil, estimated, escalated, err
		}

		out := verifier.Verify(f, candidates)
		if out.Verified != nil {
			foods = append(foods, *out.Verified)
			continue
		}

		escalated++
		vf, err := o.escalate(ctx, verifier, out.Escalation)
		if err != nil {
			return nil, estimated, escalated, err
		}
		foods = append(foods, vf)
	}

	span.SetAttributes(
		attribute.Int("verify.foods", len(foods)),
		attribute.Int("verify.escalated", escalated),
	)
	return foods, estimated, escalated, nil
}

// searchCandidates tries each normalized search term until one returns
// results. An empty result set is not an error; it routes to the
// auto-reject branch.
func (o *Orchestrator) searchCandidates(ctx context.Context, lang string, f nutriplan.SuggestedFood) ([]nutriplan.ReferenceFood, error) {
	for _, term := range match.SearchTerms(lang, f.Name) {
		candidates, err := o.searcher.Search(ctx, term)
		if err != nil {
			return nil, fmt.Errorf("reference lookup %q: %w", term, err)
		}
		if len(candidates) > 0 {
			return candidates, nil
		}
	}
	return nil, nil
}

// escalate pushes an ambiguous match through the selection queue and
// blocks until the interaction surface decides.
func (o *Orchestrator) escalate(ctx context.Context, verifier *match.Verifier, esc *match.Escalation) (nutriplan.VerifiedFood, error) {
	sel := queue.NewPendingSelection(esc.Suggested, esc.Candidates, esc.Scores, esc.Translated)
	o.queue.Enqueue(sel)

	slog.Info("PLANNER: Escalated ambiguous match",
		"food", esc.Suggested.Name,
		"candidates", len(esc.Candidates),
		"top_score", esc.Scores[0],
	)

	res, err := sel.Await(ctx)
	if err != nil {
		return nutriplan.VerifiedFood{}, err
	}
	if res.Aborted {
		return nutriplan.VerifiedFood{}, nutriplan.ErrGenerationAborted
	}

	if res.Choice != nil {
		confidence := esc.Scores[0]
		for i, c := range esc.Candidates {
			if c.FDCID == res.Choice.FDCID {
				confidence = esc.Scores[i]
				break
			}
		}
		return verifier.Accept(esc.Suggested, *res.Choice, confidence), nil
	}

	return verifier.Reject(esc.Suggested, esc.Scores[0], "reviewer skipped; using model estimate"), nil
}

func (o *Orchestrator) abort() error {
	o.queue.Clear()
	slog.Info("PLANNER: Run aborted, queue cleared")
	return fmt.Errorf("plan generation: %w", nutriplan.ErrGenerationAborted)
}

func (o *Orchestrator) logMeal(entry nutriplan.MealLog) {
	if err := o.logger.LogMeal(entry); err != nil {
		slog.Error("PLANNER: Failed to log meal entry", "error", err, "day", entry.Day, "slot", entry.Slot)
	}
}

func isAbort(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, nutriplan.ErrGenerationAborted)
}

func countVerified(foods []nutriplan.VerifiedFood) int {
	n := 0
	for _, f := range foods {
		if f.IsVerified {
			n++
		}
	}
	return n
}
