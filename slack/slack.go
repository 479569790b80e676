// Package slack posts plan-generation notifications to a Slack webhook so a
// dietitian knows when a plan is ready for review.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"nutriplan"
)

type doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	webhookURL string
	httpClient doer
}

func NewClient(webhookURL string, httpClient doer) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: httpClient,
	}
}

func (c *Client) PostMessage(ctx context.Context, channel string, message string) error {
	payload, err := json.Marshal(map[string]any{
		"channel": channel,
		"text":    message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to post message: %s", resp.Status)
	}

	return nil
}

// PostPlanSummary posts a short digest of a finished plan: day count, daily
// calorie average, overall verification accuracy, and plan ID for lookup.
func (c *Client) PostPlanSummary(ctx context.Context, channel string, plan *nutriplan.MultiDayMealPlan) error {
	if plan == nil {
		return fmt.Errorf("no plan to summarize")
	}
	return c.PostMessage(ctx, channel, FormatPlanSummary(plan))
}

// FormatPlanSummary renders the notification text. Exported so the CLI can
// print the same digest without a webhook configured.
func FormatPlanSummary(plan *nutriplan.MultiDayMealPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Meal plan %s ready: %d days starting %s.\n",
		plan.ID, plan.NumberOfDays, plan.StartDate.Format("Jan 2, 2006"))
	fmt.Fprintf(&b, "Daily average: %.0f kcal, %.0fg protein, %.0fg carbs, %.0fg fat.\n",
		plan.DailyAverage.Calories, plan.DailyAverage.Protein, plan.DailyAverage.Carbs, plan.DailyAverage.Fat)
	fmt.Fprintf(&b, "Verification accuracy: %.0f%%.", plan.Summary.AverageAccuracy*100)
	return b.String()
}
