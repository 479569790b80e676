// Package ollama generates meal suggestions with a locally hosted model.
// The chat request pins format=json so the model replies with the same
// payload shape the Bedrock provider receives from its forced tool call.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"nutriplan"
)

type options struct {
	Temperature   float64 `json:"temperature,omitempty"`
	TopP          float64 `json:"top_p,omitempty"`
	RepeatPenalty float64 `json:"repeat_penalty,omitempty"`
	NumCtx        int     `json:"num_ctx,omitempty"`
}

type Provider struct {
	endpoint   string
	model      string
	httpClient nutriplan.HTTPClient
	options    options
}

type ProviderOpts struct {
	BaseEndpoint string
	ModelID      string
	HTTPClient   nutriplan.HTTPClient
}

func NewProvider(opts ProviderOpts) (*Provider, error) {
	if opts.ModelID == "" {
		return nil, fmt.Errorf("invalid model ID")
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Provider{
		model:      opts.ModelID,
		httpClient: opts.HTTPClient,
		endpoint:   opts.BaseEndpoint + "/api/chat",
		options: options{
			Temperature:   0.2,
			TopP:          0.9,
			RepeatPenalty: 1.05,
			NumCtx:        16384,
		},
	}, nil
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireRequest struct {
	Model    string        `json:"model"`
	Messages []wireMessage `json:"messages"`
	Format   string        `json:"format"`
	Stream   bool          `json:"stream"`
	Options  options       `json:"options,omitempty"`
}

type wireResponse struct {
	Message wireMessage `json:"message"`
	// other metadata omitted but available
}

func (p *Provider) GenerateMeal(ctx context.Context, req nutriplan.MealPlanRequest) (*nutriplan.MealPlanSuggestion, error) {
	slog.Info("OLLAMA: Generating meal", "slot", req.Slot, "model", p.model)

	reqBody := wireRequest{
		Model: p.model,
		Messages: []wireMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt(req)},
		},
		Format: "json",
		Stream: false,
		Options: p.options,
	}
	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewBuffer(reqBytes))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OLLAMA: %s: %s", resp.Status, string(body))
	}

	var wr wireResponse
	if err := json.Unmarshal(body, &wr); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}

	content := strings.TrimSpace(wr.Message.Content)
	if content == "" {
		return nil, fmt.Errorf("model returned empty content")
	}

	var payload mealPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("decode meal payload: %w", err)
	}

	return payload.toSuggestion(req.Slot)
}

// mealPayload is the wire shape of the structured JSON reply.
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
