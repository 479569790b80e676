package bedrock

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutriplan"
)

// mockBedrockClient implements bedrockRuntimeClient for testing
type mockBedrockClient struct {
	response *bedrockruntime.ConverseOutput
	err      error
	lastIn   *bedrockruntime.ConverseInput
}

func (m *mockBedrockClient) Converse(ctx context.Context, input *bedrockruntime.ConverseInput, opts ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	m.lastIn = input
	return m.response, m.err
}

func mealToolOutput(input map[string]any) *bedrockruntime.ConverseOutput {
	return &bedrockruntime.ConverseOutput{
		StopReason: types.StopReasonToolUse,
		Output: &types.ConverseOutputMemberMessage{
			Value: types.Message{
				Role: types.ConversationRoleAssistant,
				Content: []types.ContentBlock{
					&types.ContentBlockMemberToolUse{
						Value: types.ToolUseBlock{
							ToolUseId: aws.String("tool-1"),
							Name:      aws.String(mealToolName),
							Input:     document.NewLazyDocument(input),
						},
					},
				},
			},
		},
	}
}

func TestNewProviderDefaults(t *testing.T) {
	tests := []struct {
		name     string
		input    Options
		expected Options
	}{
		{
			name:  "empty options uses defaults",
			input: Options{},
			expected: Options{
				ModelID:     defaultModelID,
				MaxTokens:   defaultMaxTokens,
				Temperature: defaultTemperature,
				TopP:        defaultTopP,
			},
		},
		{
			name: "custom options preserved",
			input: Options{
				ModelID:     "custom-model",
				MaxTokens:   1024,
				Temperature: 0.5,
				TopP:        0.8,
			},
			expected: Options{
				ModelID:     "custom-model",
				MaxTokens:   1024,
				Temperature: 0.5,
				TopP:        0.8,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProvider(&mockBedrockClient{}, tt.input)
			assert.Equal(t, tt.expected, p.opts)
		})
	}
}

func TestGenerateMealParsesToolCall(t *testing.T) {
	client := &mockBedrockClient{response: mealToolOutput(map[string]any{
		"meal_name": "Pollo a la Parrilla",
		"foods": []map[string]any{
			{
				"name": "Chicken breast, grilled", "portion": "1 breast", "gram_weight": 150.0,
				"calories": 248.0, "protein": 46.0, "carbs": 0.0, "fat": 5.4,
			},
			{
				"name": "Sweet potato, roasted", "portion": "1 medium", "gram_weight": 130.0,
				"calories": 117.0, "protein": 2.6, "carbs": 27.0, "fat": 0.1,
			},
		},
		"preparation_notes": "Grill the chicken, roast the sweet potato.",
		"nutritionist_note": "High protein dinner.",
	})}

	p := NewProvider(client, Options{})
	req := nutriplan.MealPlanRequest{
		Slot:    nutriplan.SlotDinner,
		Targets: nutriplan.Nutrition{Calories: 700, Protein: 60, Carbs: 50, Fat: 20},
		Variety: nutriplan.VarietyGuidance{Cuisine: "mexican", AvoidIngredients: []string{"salmon"}},
	}

	got, err := p.GenerateMeal(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "Pollo a la Parrilla", got.MealName)
	assert.Equal(t, nutriplan.SlotDinner, got.Slot)
	require.Len(t, got.Foods, 2)
	assert.Equal(t, "Chicken breast, grilled", got.Foods[0].Name)
	assert.InDelta(t, 150, got.Foods[0].GramWeight, 1e-9)
	assert.InDelta(t, 46, got.Foods[0].Estimated.Protein, 1e-9)
	assert.Equal(t, "High protein dinner.", got.NutritionistNote)

	// request composition: forced tool choice and targets in the prompt
	require.NotNil(t, client.lastIn)
	require.NotNil(t, client.lastIn.ToolConfig)
	choice, ok := client.lastIn.ToolConfig.ToolChoice.(*types.ToolChoiceMemberTool)
	require.True(t, ok)
	assert.Equal(t, mealToolName, aws.ToString(choice.Value.Name))

	text, ok := client.lastIn.Messages[0].Content[0].(*types.ContentBlockMemberText)
	require.True(t, ok)
	assert.Contains(t, text.Value, "700 kcal")
	assert.Contains(t, text.Value, "salmon")
}

func TestGenerateMealErrors(t *testing.T) {
	tests := []struct {
		name    string
		client  *mockBedrockClient
		wantErr string
	}{
		{
			name:    "converse error",
			client:  &mockBedrockClient{err: errors.New("throttled")},
			wantErr: "bedrock converse",
		},
		{
			name: "no tool call in response",
			client: &mockBedrockClient{response: &bedrockruntime.ConverseOutput{
				Output: &types.ConverseOutputMemberMessage{
					Value: types.Message{
						Content: []types.ContentBlock{
							&types.ContentBlockMemberText{Value: "I cannot help with that."},
						},
					},
				},
			}},
			wantErr: "no meal_suggestion tool call",
		},
		{
			name: "missing foods",
			client: &mockBedrockClient{response: mealToolOutput(map[string]any{
				"meal_name": "Empty Plate",
				"foods":     []map[string]any{},
			})},
			wantErr: "missing meal name or foods",
		},
		{
			name: "non-positive gram weight",
			client: &mockBedrockClient{response: mealToolOutput(map[string]any{
				"meal_name": "Bad Portion",
				"foods": []map[string]any{
					{"name": "Rice", "portion": "some", "gram_weight": 0.0},
				},
			})},
			wantErr: "gram weight",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProvider(tt.client, Options{})
			got, err := p.GenerateMeal(context.Background(), nutriplan.MealPlanRequest{Slot: nutriplan.SlotLunch})
			assert.Nil(t, got)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
