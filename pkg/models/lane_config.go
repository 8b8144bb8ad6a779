package models

import "encoding/json"

// ExecutionMode controls intra-lane ordering for rules lanes.
type ExecutionMode string

const (
	ExecutionModeSequential ExecutionMode = "sequential"
	ExecutionModeParallel   ExecutionMode = "parallel"
)

// ErrorPolicy controls whether a failing node stops the lane.
type ErrorPolicy string

const (
	ErrorPolicyStop     ErrorPolicy = "stop"
	ErrorPolicyContinue ErrorPolicy = "continue"
)

// LaneConfig is the per-type lane configuration. Exactly one variant exists
// per LaneType, so consumers switch on the concrete type instead of probing
// optional fields.
type LaneConfig interface {
	laneConfig()
}

// RulesConfig configures rules lanes.
type RulesConfig struct {
	ExecutionMode ExecutionMode `json:"execution_mode"`
	OnError       ErrorPolicy   `json:"on_error"`
	TimeoutMs     int64         `json:"timeout_ms,omitempty"`
}

func (*RulesConfig) laneConfig() {}

// LLMConfig configures llm lanes.
type LLMConfig struct {
	Provider     string  `json:"provider"`
	Model        string  `json:"model"`
	Temperature  float64 `json:"temperature,omitempty"`
	MaxTokens    int     `json:"max_tokens,omitempty"`
	SystemPrompt string  `json:"system_prompt,omitempty"`
}

func (*LLMConfig) laneConfig() {}

// PassthroughConfig configures passthrough lanes.
type PassthroughConfig struct {
	ForwardMetadata bool `json:"forward_metadata"`
}

func (*PassthroughConfig) laneConfig() {}

// DatabaseConfig configures database lanes.
type DatabaseConfig struct {
	Collection string `json:"collection"`
	Operation  string `json:"operation"`
	Upsert     bool   `json:"upsert,omitempty"`
}

func (*DatabaseConfig) laneConfig() {}

// DefaultLaneConfig returns the zero configuration for a lane type.
func DefaultLaneConfig(t LaneType) LaneConfig {
	switch t {
	case LaneTypeLLM:
		return &LLMConfig{}
	case LaneTypePassthrough:
		return &PassthroughConfig{}
	case LaneTypeDatabase:
		return &DatabaseConfig{}
	case LaneTypeRules:
		fallthrough
	default:
		return &RulesConfig{
			ExecutionMode: ExecutionModeSequential,
			OnError:       ErrorPolicyStop,
		}
	}
}

func decodeLaneConfig(t LaneType, raw json.RawMessage) (LaneConfig, error) {
	config := DefaultLaneConfig(t)

	if len(raw) == 0 {
		return config, nil
	}

	if err := json.Unmarshal(raw, config); err != nil {
		return nil, err
	}

	if rules, ok := config.(*RulesConfig); ok {
		if rules.ExecutionMode != ExecutionModeParallel {
			rules.ExecutionMode = ExecutionModeSequential
		}

		if rules.OnError != ErrorPolicyContinue {
			rules.OnError = ErrorPolicyStop
		}
	}

	return config, nil
}
