package llm

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 150
	DefaultTopP        = 1.0

	// LegacyTargetModel replaces retired completion engines.
	LegacyTargetModel = "gpt-3.5-turbo"
)

var legacyEngines = map[string]string{
	"text-davinci-003": LegacyTargetModel,
	"text-davinci-002": LegacyTargetModel,
	"text-curie-001":   LegacyTargetModel,
	"text-babbage-001": LegacyTargetModel,
	"text-ada-001":     LegacyTargetModel,
}

// Params is the legacy completion parameter vocabulary. A nil numeric field
// is absent and takes its default when the request is built; an explicit
// zero is sent as zero.
type Params struct {
	Engine           string   `yaml:"engine" json:"engine,omitempty"`
	Temperature      *float64 `yaml:"temperature" json:"temperature,omitempty"`
	MaxTokens        *int     `yaml:"max_tokens" json:"max_tokens,omitempty"`
	TopP             *float64 `yaml:"top_p" json:"top_p,omitempty"`
	FrequencyPenalty *float64 `yaml:"frequency_penalty" json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64 `yaml:"presence_penalty" json:"presence_penalty,omitempty"`
	Stop             StopList `yaml:"stop" json:"stop,omitempty"`
	// Stream is accepted for compatibility with older parameter files and ignored.
	Stream bool `yaml:"stream" json:"-"`
}

// Settings is a Params with every default applied.
type Settings struct {
	Engine           string
	Temperature      float64
	MaxTokens        int
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64
	Stop             []string
}

// StopList holds stop sequences. In YAML it may be a single string or a list.
type StopList []string

// UnmarshalYAML accepts a scalar, a sequence or null.
func (s *StopList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*s = nil
			return nil
		}
		*s = StopList{value.Value}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		*s = StopList(items)
		return nil
	default:
		return fmt.Errorf("stop: expected string or list, got %s", value.Tag)
	}
}

// DefaultParams returns a parameter set with every field absent.
func DefaultParams() Params {
	return Params{}
}

// ParseParams decodes a YAML parameter set. Keys missing from data, or set
// to null, stay absent.
func ParseParams(data []byte) (Params, error) {
	var params Params
	if strings.TrimSpace(string(data)) == "" {
		return params, nil
	}
	if err := yaml.Unmarshal(data, &params); err != nil {
		return Params{}, fmt.Errorf("parse params: %w", err)
	}
	params.Engine = strings.TrimSpace(params.Engine)
	return params, nil
}

// LoadParams reads a YAML parameter file.
func LoadParams(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, fmt.Errorf("read params: %w", err)
	}
	return ParseParams(data)
}

// Resolve applies the defaults: temperature 0.7, max_tokens 150, top_p 1
// and zero penalties. Non-positive max_tokens or top_p fall back to the
// default and a negative temperature is clamped to 0.
func (p Params) Resolve() Settings {
	s := Settings{
		Engine:           strings.TrimSpace(p.Engine),
		Temperature:      floatOr(p.Temperature, DefaultTemperature),
		MaxTokens:        DefaultMaxTokens,
		TopP:             floatOr(p.TopP, DefaultTopP),
		FrequencyPenalty: floatOr(p.FrequencyPenalty, 0),
		PresencePenalty:  floatOr(p.PresencePenalty, 0),
	}
	if p.MaxTokens != nil && *p.MaxTokens > 0 {
		s.MaxTokens = *p.MaxTokens
	}
	if s.TopP <= 0 {
		s.TopP = DefaultTopP
	}
	if s.Temperature < 0 {
		s.Temperature = 0
	}
	if len(p.Stop) > 0 {
		s.Stop = append([]string(nil), p.Stop...)
	}
	return s
}

func floatOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

// ResolveModel maps a legacy engine name to its chat model. An empty engine
// resolves to fallback; unknown names pass through unchanged.
func ResolveModel(engine, fallback string) string {
	engine = strings.TrimSpace(engine)
	if engine == "" {
		return fallback
	}
	if mapped, ok := legacyEngines[engine]; ok {
		return mapped
	}
	return engine
}
