// Package bedrock is the live meal provider over the AWS Bedrock Converse
// API. Structured output is enforced by forcing the model to call a
// single tool whose input schema is the meal suggestion itself.
package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"nutriplan"
)

const (
	// defaultModelID is an inference profile ID, not the foundation
	// model's ID. See https://docs.aws.amazon.com/bedrock/latest/userguide/inference-profiles.html.
	defaultModelID = "us.anthropic.claude-3-7-sonnet-20250219-v1:0"

	defaultMaxTokens = 2048

	// Low temperature and top_p keep the structured output consistent.
	defaultTemperature = 0.2
	defaultTopP        = 0.9
)

type bedrockRuntimeClient interface {
	Converse(context.Context, *bedrockruntime.ConverseInput, ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

type Options struct {
	ModelID     string
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

// Provider implements nutriplan.MealProvider against Bedrock.
type Provider struct {
	brc  bedrockRuntimeClient
	opts Options
}

func NewProvider(brc bedrockRuntimeClient, opts Options) *Provider {
	if opts.ModelID == "" {
		opts.ModelID = defaultModelID
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	if opts.Temperature == 0 {
		opts.Temperature = defaultTemperature
	}
	if opts.TopP == 0 {
		opts.TopP = defaultTopP
	}
	return &Provider{brc: brc, opts: opts}
}

// GenerateMeal asks the model for one meal and parses the forced tool
// call back into the core's suggestion type.
func (p *Provider) GenerateMeal(ctx context.Context, req nutriplan.MealPlanRequest) (*nutriplan.MealPlanSuggestion, error) {
	slog.Info("LLM_CLIENT: Invoked", "slot", req.Slot, "calories", req.Targets.Calories)

	schemaDoc, err := mealToolSchemaDocument()
	if err != nil {
		return nil, fmt.Errorf("build tool schema: %w", err)
	}

	in := &bedrockruntime.ConverseInput{
		ModelId: aws.String(p.opts.ModelID),
		System: []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: systemPrompt},
		},
		Messages: []types.Message{
			{
				Role: types.ConversationRoleUser,
				Content: []types.ContentBlock{
					&types.ContentBlockMemberText{Value: userPrompt(req)},
				},
			},
		},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(p.opts.MaxTokens),
			Temperature: aws.Float32(p.opts.Temperature),
			TopP:        aws.Float32(p.opts.TopP),
		},
		ToolConfig: &types.ToolConfiguration{
			Tools: []types.Tool{
				&types.ToolMemberToolSpec{Value: types.ToolSpecification{
					Name:        aws.String(mealToolName),
					Description: aws.String("Report the suggested meal as structured data."),
					InputSchema: &types.ToolInputSchemaMemberJson{Value: schemaDoc},
				}},
			},
			ToolChoice: &types.ToolChoiceMemberTool{
				Value: types.SpecificToolChoice{Name: aws.String(mealToolName)},
			},
		},
	}

	out, err := p.brc.Converse(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("bedrock converse: %w", err)
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return nil, fmt.Errorf("unexpected converse output type %T", out.Output)
	}

	for _, block := range msg.Value.Content {
		tu, ok := block.(*types.ContentBlockMemberToolUse)
		if !ok || aws.ToString(tu.Value.Name) != mealToolName {
			continue
		}

		// Decode via the document's JSON bytes: the smithy-side
		// UnmarshalSmithyDocument is broken for lazy documents
		// (aws/aws-sdk-go-v2#2859) and only honors `document` struct
		// tags, while mealPayload's wire contract is its json tags.
		raw, err := tu.Value.Input.MarshalSmithyDocument()
		if err != nil {
			return nil, fmt.Errorf("decode %s tool input: %w", mealToolName, err)
		}
		var payload mealPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("decode %s tool input: %w", mealToolName, err)
		}
		suggestion, err := payload.toSuggestion(req.Slot)
		if err != nil {
			return nil, err
		}

		slog.Info("LLM_CLIENT: Parsed meal suggestion",
			"meal", suggestion.MealName,
			"foods", len(suggestion.Foods),
			"stop_reason", out.StopReason,
		)
		return suggestion, nil
	}

	return nil, fmt.Errorf("model returned no %s tool call", mealToolName)
}

// mealPayload is the wire shape of the forced tool call.
type mealPayload struct {
	MealName string `json:"meal_name"`
	Foods    []struct {
		Name       string  `json:"name"`
		Portion    string  `json:"portion"`
		GramWeight float64 `json:"gram_weight"`
		Calories   float64 `json:"calories"`
		Protein    float64 `json:"protein"`
		Carbs      float64 `json:"carbs"`
		Fat        float64 `json:"fat"`
	} `json:"foods"`
	PreparationNotes string `json:"preparation_notes"`
	NutritionistNote string `json:"nutritionist_note"`
}

func (m mealPayload) toSuggestion(slot nutriplan.MealSlot) (*nutriplan.MealPlanSuggestion, error) {
	if m.MealName == "" || len(m.Foods) == 0 {
		return nil, fmt.Errorf("model suggestion missing meal name or foods")
	}

	foods := make([]nutriplan.SuggestedFood, 0, len(m.Foods))
	for _, f := range m.Foods {
		if f.Name == "" || f.GramWeight <= 0 {
			return nil, fmt.Errorf("model suggested food %q with gram weight %.1f", f.Name, f.GramWeight)
		}
		foods = append(foods, nutriplan.SuggestedFood{
			Name:       f.Name,
			Portion:    f.Portion,
			GramWeight: f.GramWeight,
			Estimated: nutriplan.Nutrition{
				Calories: max(0, f.Calories),
				Protein:  max(0, f.Protein),
				Carbs:    max(0, f.Carbs),
				Fat:      max(0, f.Fat),
			},
		})
	}

	return &nutriplan.MealPlanSuggestion{
		MealName:         m.MealName,
		Slot:             slot,
		Foods:            foods,
		PreparationNotes: m.PreparationNotes,
		NutritionistNote: m.NutritionistNote,
	}, nil
}
