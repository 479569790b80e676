package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/joeshaw/envdecode"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"nutriplan"
	"nutriplan/document"
	"nutriplan/planner"
	"nutriplan/provider/bedrock"
	"nutriplan/provider/mock"
	"nutriplan/provider/ollama"
	"nutriplan/queue"
	"nutriplan/slack"
	"nutriplan/storage"
	"nutriplan/usda"
)

var (
	flagDays        int
	flagCalories    float64
	flagProtein     float64
	flagCarbs       float64
	flagFat         float64
	flagSlots       []string
	flagCuisines    []string
	flagLanguage    string
	flagPatient     string
	flagStartDate   string
	flagTuningPath  string
	flagInteractive bool
	flagOutDir      string
)

var rootCmd = &cobra.Command{
	Use:   "nutriplan",
	Short: "Generate verified multi-day meal plans",
	Long: `Generates multi-day meal plans from an AI meal provider, verifies every
suggested food against FoodData Central reference records, and archives the
finished plan.`,
	SilenceUsage: true,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a multi-day meal plan",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().IntVar(&flagDays, "days", 3, "number of days to plan")
	generateCmd.Flags().Float64Var(&flagCalories, "calories", 2000, "daily calorie target (kcal)")
	generateCmd.Flags().Float64Var(&flagProtein, "protein", 150, "daily protein target (g)")
	generateCmd.Flags().Float64Var(&flagCarbs, "carbs", 200, "daily carbohydrate target (g)")
	generateCmd.Flags().Float64Var(&flagFat, "fat", 65, "daily fat target (g)")
	generateCmd.Flags().StringSliceVar(&flagSlots, "slots", []string{"breakfast", "lunch", "dinner"}, "meal slots per day")
	generateCmd.Flags().StringSliceVar(&flagCuisines, "cuisines", nil, "cuisine rotation (e.g. mexican,mediterranean)")
	generateCmd.Flags().StringVar(&flagLanguage, "language", "en", "plan language (en, es)")
	generateCmd.Flags().StringVar(&flagPatient, "patient", "", "patient reference")
	generateCmd.Flags().StringVar(&flagStartDate, "start", "", "plan start date (YYYY-MM-DD, default tomorrow)")
	generateCmd.Flags().StringVar(&flagTuningPath, "tuning", "", "path to a TOML tuning file")
	generateCmd.Flags().BoolVar(&flagInteractive, "interactive", false, "review ambiguous food matches on the terminal")
	generateCmd.Flags().StringVar(&flagOutDir, "out", "", "archive directory override")
	rootCmd.AddCommand(generateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var providerConfig nutriplan.ProviderConfig
	if err := envdecode.Decode(&providerConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}

	var archiveConfig nutriplan.ArchiveConfig
	if err := envdecode.Decode(&archiveConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}

	var notifyConfig nutriplan.NotifyConfig
	if err := envdecode.Decode(&notifyConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}
	if flagOutDir != "" {
		archiveConfig.Dir = flagOutDir
	}

	tuning, err := nutriplan.LoadTuning(flagTuningPath)
	if err != nil {
		return fmt.Errorf("load tuning: %w", err)
	}

	req, err := buildRequest()
	if err != nil {
		return err
	}

	searcher, closeSearcher, err := newSearcher(providerConfig)
	if err != nil {
		return fmt.Errorf("setup reference searcher: %w", err)
	}
	defer closeSearcher()

	provider, err := newProvider(ctx, providerConfig)
	if err != nil {
		return fmt.Errorf("setup meal provider: %w", err)
	}

	logger, cleanup, err := newPlanLogger(providerConfig.Mode)
	if err != nil {
		slog.Error("SETUP: Failed to create plan logger", "error", err)
		return err
	}
	defer func() {
		if err := cleanup(); err != nil {
			slog.Error("SETUP: Failed to flush plan log", "error", err)
		}
	}()

	tracerProvider, meterProvider, otelShutdown, err := nutriplan.InitOtel(ctx)
	if err != nil {
		slog.Error("SETUP: Failed to initialize OpenTelemetry", "error", err)
		return err
	}
	defer func() {
		if err := otelShutdown(ctx); err != nil {
			slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
		}
	}()

	q := queue.New()
	orch := planner.NewInstrumented(
		planner.New(provider, searcher, q, tuning, logger),
		tracerProvider.Tracer(nutriplan.TracerNamePlanner),
		meterProvider.Meter(nutriplan.TracerNamePlanner),
	)

	reviewCtx, stopReview := context.WithCancel(ctx)
	defer stopReview()
	if flagInteractive {
		go reviewLoop(reviewCtx, q)
	} else {
		go queue.AutoResolve(reviewCtx, q)
	}

	ctx, span := tracerProvider.Tracer(nutriplan.TracerNamePlanner).Start(ctx, "generate", trace.WithAttributes(
		attribute.Int("plan.days", req.NumberOfDays),
		attribute.Float64("plan.daily_calories", req.DailyTargets.Calories),
	))
	defer span.End()

	plan, err := orch.Generate(ctx, req)
	if err != nil {
		slog.Error("RESULT: Plan generation failed", "error", err)
		return err
	}

	archive := storage.NewFileArchive(archiveConfig.Dir)
	if err := archive.Save(ctx, plan); err != nil {
		slog.Error("RESULT: Failed to archive plan", "error", err)
		return err
	}
	slog.Info("RESULT: Plan archived", "plan_id", plan.ID, "dir", archiveConfig.Dir)

	if notifyConfig.SlackWebhook != "" {
		var notifier nutriplan.Notifier = slack.NewClient(notifyConfig.SlackWebhook, http.DefaultClient)
		if err := notifier.PostMessage(ctx, notifyConfig.SlackChannel, slack.FormatPlanSummary(plan)); err != nil {
			slog.Error("RESULT: Failed to post plan summary to Slack", "error", err)
		}
	}

	printPlan(plan)
	fmt.Println()
	fmt.Println(slack.FormatPlanSummary(plan))
	return nil
}

func buildRequest() (nutriplan.MultiDayPlanRequest, error) {
	start := time.Now().AddDate(0, 0, 1).Truncate(24 * time.Hour)
	if flagStartDate != "" {
		parsed, err := time.Parse("2006-01-02", flagStartDate)
		if err != nil {
			return nutriplan.MultiDayPlanRequest{}, fmt.Errorf("parse --start: %w", err)
		}
		start = parsed
	}

	slots := make([]nutriplan.MealSlot, 0, len(flagSlots))
	for _, s := range flagSlots {
		slots = append(slots, nutriplan.MealSlot(strings.ToLower(strings.TrimSpace(s))))
	}

	return nutriplan.MultiDayPlanRequest{
		PatientRef:   flagPatient,
		StartDate:    start,
		NumberOfDays: flagDays,
		DailyTargets: nutriplan.Nutrition{
			Calories: flagCalories,
			Protein:  flagProtein,
			Carbs:    flagCarbs,
			Fat:      flagFat,
		},
		Slots:    slots,
		Cuisines: flagCuisines,
		Language: flagLanguage,
	}, nil
}

func newSearcher(cfg nutriplan.ProviderConfig) (nutriplan.FoodSearcher, func(), error) {
	if cfg.Mode == "demo" {
		return usda.NewDemoSearcher(), func() {}, nil
	}

	client := usda.NewClient(cfg.USDAEndpoint, cfg.USDAAPIKey, http.DefaultClient)
	if cfg.CachePath == "" {
		return client, func() {}, nil
	}

	cache, err := usda.NewCache(client, cfg.CachePath)
	if err != nil {
		return nil, nil, err
	}
	return cache, func() {
		if err := cache.Close(); err != nil {
			slog.Error("SETUP: Failed to close search cache", "error", err)
		}
	}, nil
}

func newProvider(ctx context.Context, cfg nutriplan.ProviderConfig) (nutriplan.MealProvider, error) {
	switch cfg.Mode {
	case "live":
	case "local":
		return ollama.NewProvider(ollama.ProviderOpts{
			BaseEndpoint: cfg.OllamaEndpoint,
			ModelID:      cfg.OllamaModelID,
			HTTPClient:   http.DefaultClient,
		})
	default:
		return mock.NewProvider(), nil
	}

	var modelConfig nutriplan.ModelConfig
	if err := envdecode.Decode(&modelConfig); err != nil {
		return nil, fmt.Errorf("decode model config: %w", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRetryMaxAttempts(5))
	if err != nil {
		return nil, err
	}
	brc := bedrockruntime.NewFromConfig(awsCfg)

	return bedrock.NewProvider(brc, bedrock.Options{
		ModelID:     modelConfig.ModelID,
		MaxTokens:   modelConfig.MaxTokens,
		Temperature: modelConfig.Temperature,
		TopP:        modelConfig.TopP,
	}), nil
}

func newPlanLogger(mode string) (nutriplan.PlanLogger, func() error, error) {
	logFilePath := nutriplan.NewPlanLogFilePath(mode)
	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, func() error { return err }, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := nutriplan.NewFilePlanLogger(logFile)
	cleanup := func() error {
		return errors.Join(logger.Flush(), logFile.Close())
	}
	return logger, cleanup, nil
}

// reviewLoop prompts on the terminal for each ambiguous match. Entering a
// candidate number accepts it; "s" keeps the model estimate.
func reviewLoop(ctx context.Context, q *queue.Queue) {
	reader := bufio.NewReader(os.Stdin)
	for {
		sel, err := q.AwaitCurrent(ctx)
		if err != nil {
			return
		}

		fmt.Printf("\nAmbiguous match for %q", sel.Suggested.Name)
		if sel.Translated != sel.Suggested.Name {
			fmt.Printf(" (searched as %q)", sel.Translated)
		}
		fmt.Println(":")
		for i, c := range sel.Candidates {
			fmt.Printf("  [%d] %s (%.2f confidence, %.0f kcal/100g)\n",
				i+1, c.Description, sel.Scores[i], c.Per100g.Calories)
		}
		fmt.Print("Pick a number, or s to skip: ")

		line, err := reader.ReadString('\n')
		if err != nil {
			q.Skip() // nolint: errcheck
			continue
		}
		line = strings.TrimSpace(line)

		if n, convErr := strconv.Atoi(line); convErr == nil && n >= 1 && n <= len(sel.Candidates) {
			choice := sel.Candidates[n-1]
			if err := q.Resolve(&choice); err != nil {
				slog.Error("REVIEW: Failed to resolve selection", "error", err)
			}
			continue
		}
		if err := q.Skip(); err != nil {
			slog.Error("REVIEW: Failed to skip selection", "error", err)
		}
	}
}

func printPlan(plan *nutriplan.MultiDayMealPlan) {
	sections := document.Assemble(plan, plan.PatientRef, document.DefaultOptions())
	for _, s := range sections {
		fmt.Println()
		fmt.Println(strings.ToUpper(s.Title))
		fmt.Println(strings.Repeat("-", len(s.Title)))
		for _, line := range s.Lines {
			fmt.Println(line)
		}
	}
}
