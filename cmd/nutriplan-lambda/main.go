package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joeshaw/envdecode"

	"nutriplan"
	"nutriplan/planner"
	"nutriplan/provider/bedrock"
	"nutriplan/queue"
	"nutriplan/slack"
	"nutriplan/storage"
	"nutriplan/usda"
)

type Params struct {
	PatientRef   string   `json:"patient_ref"`
	StartDate    string   `json:"start_date"`
	NumberOfDays int      `json:"number_of_days"`
	Calories     float64  `json:"calories"`
	Protein      float64  `json:"protein"`
	Carbs        float64  `json:"carbs"`
	Fat          float64  `json:"fat"`
	Slots        []string `json:"slots"`
	Cuisines     []string `json:"cuisines"`
	Restrictions []string `json:"restrictions"`
	Conditions   []string `json:"conditions"`
	Language     string   `json:"language"`
}

type Results struct {
	PlanID          string  `json:"plan_id"`
	Days            int     `json:"days"`
	AverageAccuracy float64 `json:"average_accuracy"`
	DailyCalories   float64 `json:"daily_calories"`
}

func main() {
	fn := func(ctx context.Context, params Params) (Results, error) {
		var modelConfig nutriplan.ModelConfig
		if err := envdecode.Decode(&modelConfig); err != nil {
			log.Fatalf("Failed to decode: %s", err)
		}

		var providerConfig nutriplan.ProviderConfig
		if err := envdecode.Decode(&providerConfig); err != nil {
			log.Fatalf("Failed to decode: %s", err)
		}

		// S3 config from env
		s3Bucket := os.Getenv("ARCHIVE_S3_BUCKET")
		s3Prefix := os.Getenv("ARCHIVE_S3_PREFIX")
		if s3Bucket == "" {
			return Results{}, fmt.Errorf("missing S3 config: ARCHIVE_S3_BUCKET must be set")
		}

		req, err := buildRequest(params)
		if err != nil {
			return Results{}, err
		}

		awsCfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return Results{}, fmt.Errorf("failed to load AWS config: %w", err)
		}
		s3Client := s3.NewFromConfig(awsCfg)
		archive := storage.NewS3Archive(s3Client, s3Bucket, s3Prefix)
		slog.Info("SETUP: S3 plan archive initialized", "bucket", s3Bucket)

		brc := bedrockruntime.NewFromConfig(awsCfg)
		provider := bedrock.NewProvider(brc, bedrock.Options{
			ModelID:     modelConfig.ModelID,
			MaxTokens:   modelConfig.MaxTokens,
			Temperature: modelConfig.Temperature,
			TopP:        modelConfig.TopP,
		})

		searcher := usda.NewClient(providerConfig.USDAEndpoint, providerConfig.USDAAPIKey, http.DefaultClient)

		tuning, err := nutriplan.LoadTuning("")
		if err != nil {
			return Results{}, err
		}

		// No human in the loop here, so ambiguous matches resolve to the
		// top-ranked candidate.
		q := queue.New()
		resolverCtx, stopResolver := context.WithCancel(ctx)
		defer stopResolver()
		go queue.AutoResolve(resolverCtx, q)

		orch := planner.New(provider, searcher, q, tuning, nutriplan.NewStdoutPlanLogger())

		plan, err := orch.Generate(ctx, req)
		if err != nil {
			slog.Error("RESULT: Plan generation failed", "error", err)
			return Results{}, err
		}

		if err := archive.Save(ctx, plan); err != nil {
			slog.Error("RESULT: Failed to archive plan", "error", err)
			return Results{}, err
		}
		slog.Info("RESULT: Plan archived", "plan_id", plan.ID)

		var notifyConfig nutriplan.NotifyConfig
		if err := envdecode.Decode(&notifyConfig); err != nil {
			return Results{}, fmt.Errorf("decode notify config: %w", err)
		}
		if notifyConfig.SlackWebhook != "" {
			slackClient := slack.NewClient(notifyConfig.SlackWebhook, http.DefaultClient)
			if err := slackClient.PostPlanSummary(ctx, notifyConfig.SlackChannel, plan); err != nil {
				slog.Error("RESULT: Failed to post plan summary to Slack", "error", err)
			}
		}

		return Results{
			PlanID:          plan.ID,
			Days:            plan.NumberOfDays,
			AverageAccuracy: plan.Summary.AverageAccuracy,
			DailyCalories:   plan.DailyAverage.Calories,
		}, nil
	}

	lambda.Start(fn)
}

func buildRequest(params Params) (nutriplan.MultiDayPlanRequest, error) {
	start, err := time.Parse("2006-01-02", params.StartDate)
	if err != nil {
		return nutriplan.MultiDayPlanRequest{}, fmt.Errorf("parse start_date: %w", err)
	}

	slots := make([]nutriplan.MealSlot, 0, len(params.Slots))
	for _, s := range params.Slots {
		slots = append(slots, nutriplan.MealSlot(s))
	}

	return nutriplan.MultiDayPlanRequest{
		PatientRef:   params.PatientRef,
		StartDate:    start,
		NumberOfDays: params.NumberOfDays,
		DailyTargets: nutriplan.Nutrition{
			Calories: params.Calories,
			Protein:  params.Protein,
			Carbs:    params.Carbs,
			Fat:      params.Fat,
		},
		Slots:        slots,
		Cuisines:     params.Cuisines,
		Restrictions: params.Restrictions,
		Conditions:   params.Conditions,
		Language:     params.Language,
	}, nil
}
