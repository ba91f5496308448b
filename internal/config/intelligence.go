package config

import (
	"fmt"
	"os"
)

const (
	EnvIntelligenceAPIKey      = "VINPOINT_INTELLIGENCE_API_KEY"
	EnvIntelligenceModel       = "VINPOINT_INTELLIGENCE_MODEL"
	EnvIntelligenceVisionModel = "VINPOINT_INTELLIGENCE_VISION_MODEL"

	// Fallback key variable shared with the Gemini SDK tooling.
	EnvGeminiAPIKey = "GEMINI_API_KEY"
)

// IntelligenceConfig holds Gemini model parameters for listing discovery,
// photo analysis, and the valuation assistant.
type IntelligenceConfig struct {
	APIKey      string `toml:"api_key"`
	Model       string `toml:"model"`
	VisionModel string `toml:"vision_model"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *IntelligenceConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *IntelligenceConfig) Merge(overlay *IntelligenceConfig) {
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.VisionModel != "" {
		c.VisionModel = overlay.VisionModel
	}
}

func (c *IntelligenceConfig) loadDefaults() {
	if c.Model == "" {
		c.Model = "gemini-2.5-flash"
	}
	if c.VisionModel == "" {
		c.VisionModel = "gemini-2.5-flash"
	}
}

func (c *IntelligenceConfig) loadEnv() {
	if v := os.Getenv(EnvIntelligenceAPIKey); v != "" {
		c.APIKey = v
	}
	if c.APIKey == "" {
		if v := os.Getenv(EnvGeminiAPIKey); v != "" {
			c.APIKey = v
		}
	}
	if v := os.Getenv(EnvIntelligenceModel); v != "" {
		c.Model = v
	}
	if v := os.Getenv(EnvIntelligenceVisionModel); v != "" {
		c.VisionModel = v
	}
}

func (c *IntelligenceConfig) validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api_key required")
	}
	if c.Model == "" {
		return fmt.Errorf("model required")
	}
	return nil
}
