// Package usda looks up reference foods in the FoodData Central search API
// and caches results locally so repeated plan runs stay within the free-tier
// request quota.
package usda

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"

	"nutriplan"
)

const (
	defaultPageSize = 10

	// DEMO_KEY allows 30 requests/hour; a signed key allows 1000/hour.
	// One request every two seconds keeps a signed key comfortably under
	// its quota while still finishing a week-long plan quickly.
	requestsPerSecond = 0.5
)

// FoodData Central nutrient IDs for the macros we track.
const (
	nutrientEnergy  = 1008
	nutrientProtein = 1003
	nutrientCarbs   = 1005
	nutrientFat     = 1004
)

type Client struct {
	endpoint string
	apiKey   string
	http     nutriplan.HTTPClient
	limiter  *rate.Limiter
	pageSize int
}

type Option func(*Client)

// WithPageSize overrides the number of records requested per search.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithRate overrides the proactive request throttle (requests per second).
func WithRate(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

func NewClient(endpoint, apiKey string, httpClient nutriplan.HTTPClient, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     httpClient,
		limiter:  rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		pageSize: defaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// searchResponse mirrors the subset of the /foods/search payload we consume.
type searchResponse struct {
	Foods []struct {
		FDCID         int64   `json:"fdcId"`
		Description   string  `json:"description"`
		BrandName     string  `json:"brandName"`
		DataType      string  `json:"dataType"`
		ServingSize   float64 `json:"servingSize"`
		FoodNutrients []struct {
			NutrientID int64   `json:"nutrientId"`
			Value      float64 `json:"value"`
		} `json:"foodNutrients"`
	} `json:"foods"`
}

// Search queries /foods/search for the given term. Results carry per-100g
// macros; records with no energy value are dropped since the verifier cannot
// scale them.
func (c *Client) Search(ctx context.Context, term string) ([]nutriplan.ReferenceFood, error) {
	ctx, span := otel.Tracer(nutriplan.TracerNameUSDA).Start(ctx, "usda.Search")
	defer span.End()
	span.SetAttributes(attribute.String("usda.term", term))

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("query", term)
	q.Set("pageSize", strconv.Itoa(c.pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/foods/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", term, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("search %q: rate limited by FoodData Central", term)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search %q: unexpected status %s: %s", term, resp.Status, body)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	foods := make([]nutriplan.ReferenceFood, 0, len(sr.Foods))
	for _, f := range sr.Foods {
		rf := nutriplan.ReferenceFood{
			FDCID:       f.FDCID,
			Description: f.Description,
			BrandName:   f.BrandName,
			DataType:    f.DataType,
			ServingSize: f.ServingSize,
		}
		for _, n := range f.FoodNutrients {
			switch n.NutrientID {
			case nutrientEnergy:
				rf.Per100g.Calories = n.Value
			case nutrientProtein:
				rf.Per100g.Protein = n.Value
			case nutrientCarbs:
				rf.Per100g.Carbs = n.Value
			case nutrientFat:
				rf.Per100g.Fat = n.Value
			}
		}
		if rf.Per100g.Calories <= 0 {
			continue
		}
		foods = append(foods, rf)
	}

	span.SetAttributes(attribute.Int("usda.results", len(foods)))
	return foods, nil
}
