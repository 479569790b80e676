package nutriplan

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type ModelConfig struct {
	ModelID     string  `env:"MODEL_ID,default=us.anthropic.claude-3-7-sonnet-20250219-v1:0"`
	MaxTokens   int32   `env:"MAX_TOKENS,default=2048"`
	Temperature float32 `env:"TEMPERATURE,default=0.2"`
	TopP        float32 `env:"TOP_P,default=0.9"`
}

type ProviderConfig struct {
	// Mode selects "demo" (offline stubs), "local" (Ollama plus the live
	// reference database), or "live" (Bedrock plus the live reference
	// database). Core behavior is identical across modes.
	Mode           string `env:"PROVIDER_MODE,default=demo"`
	USDAAPIKey     string `env:"USDA_API_KEY,default=DEMO_KEY"`
	USDAEndpoint   string `env:"USDA_ENDPOINT,default=https://api.nal.usda.gov/fdc/v1"`
	CachePath      string `env:"USDA_CACHE_PATH,default=artifacts/usda-cache.db"`
	OllamaEndpoint string `env:"OLLAMA_ENDPOINT,default=http://localhost:11434"`
	OllamaModelID  string `env:"OLLAMA_MODEL_ID,default=llama3.2"`
}

// NotifyConfig points at the Slack webhook that receives finished-plan
// digests. An empty webhook disables notification.
type NotifyConfig struct {
	SlackWebhook string `env:"SLACK_WEBHOOK,default="`
	SlackChannel string `env:"SLACK_CHANNEL,default=#dietitians"`
}

type ArchiveConfig struct {
	Dir      string `env:"ARCHIVE_DIR,default=artifacts/plans"`
	S3Bucket string `env:"ARCHIVE_S3_BUCKET,default="`
	S3Prefix string `env:"ARCHIVE_S3_PREFIX,default=plans/"`
}

// Tuning holds the pipeline constants. The match-confidence band and the
// nutrition-deviation display threshold are configured separately and one
// is never derived from the other.
type Tuning struct {
	AutoAcceptThreshold float64            `toml:"auto_accept_threshold"`
	AutoRejectFloor     float64            `toml:"auto_reject_floor"`
	NutritionDeviation  float64            `toml:"nutrition_deviation"`
	MaxAvoidIngredients int                `toml:"max_avoid_ingredients"`
	SlotShares          map[string]float64 `toml:"slot_shares"`
}

func DefaultTuning() Tuning {
	return Tuning{
		AutoAcceptThreshold: 0.80,
		AutoRejectFloor:     0.30,
		NutritionDeviation:  0.20,
		MaxAvoidIngredients: 8,
		SlotShares: map[string]float64{
			string(SlotBreakfast): 0.25,
			string(SlotLunch):     0.35,
			string(SlotDinner):    0.35,
			string(SlotSnack):     0.05,
		},
	}
}

// LoadTuning reads a TOML tuning file, filling unset fields from the
// defaults. A missing file is not an error.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return t, fmt.Errorf("read tuning file: %w", err)
	}

	if err := toml.Unmarshal(b, &t); err != nil {
		return t, fmt.Errorf("parse tuning file: %w", err)
	}

	if t.AutoAcceptThreshold <= t.AutoRejectFloor {
		return t, fmt.Errorf("tuning: auto_accept_threshold %.2f must exceed auto_reject_floor %.2f",
			t.AutoAcceptThreshold, t.AutoRejectFloor)
	}
	return t, nil
}
