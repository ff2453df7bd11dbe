package entities

import (
	"encoding/json"
	"fmt"
)

// ConfigurationSnapshot is the immutable key/value document capturing the
// selections that drove a generation run. It is embedded verbatim into the
// resulting Bom for traceability and never mutated after capture.
type ConfigurationSnapshot struct {
	values map[string]any
}

// NewConfigurationSnapshot copies the supplied document into a snapshot.
func NewConfigurationSnapshot(values map[string]any) *ConfigurationSnapshot {
	return &ConfigurationSnapshot{values: deepCopyMap(values)}
}

// ParseConfigurationSnapshot decodes a JSON document into a snapshot.
func ParseConfigurationSnapshot(data []byte) (*ConfigurationSnapshot, error) {
	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse configuration snapshot: %w", err)
	}
	return &ConfigurationSnapshot{values: values}, nil
}

// Values returns a defensive copy of the underlying document.
func (s *ConfigurationSnapshot) Values() map[string]any {
	return deepCopyMap(s.values)
}

// MarshalJSON encodes the snapshot document.
func (s *ConfigurationSnapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.values)
}

// UnmarshalJSON decodes the snapshot document.
func (s *ConfigurationSnapshot) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &s.values)
}

// Flatten produces the variable binding for expression evaluation: nested
// maps become dotted names ("pegboard.isCustom"), lists contribute a
// ".count" variable, maps carrying numeric width/height contribute a
// derived ".area", and unknown keys are simply absent.
func (s *ConfigurationSnapshot) Flatten() map[string]any {
	out := make(map[string]any)
	flattenInto(out, "", s.values)
	return out
}

func flattenInto(out map[string]any, prefix string, values map[string]any) {
	for key, value := range values {
		name := key
		if prefix != "" {
			name = prefix + "." + key
		}
		switch v := value.(type) {
		case map[string]any:
			flattenInto(out, name, v)
			if width, wok := numericValue(v["width"]); wok {
				if height, hok := numericValue(v["height"]); hok {
					out[name+".area"] = width * height
				}
			}
		case []any:
			out[name+".count"] = float64(len(v))
		default:
			out[name] = v
		}
	}
}

func numericValue(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func deepCopyMap(values map[string]any) map[string]any {
	if values == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(values))
	for key, value := range values {
		switch v := value.(type) {
		case map[string]any:
			out[key] = deepCopyMap(v)
		case []any:
			copied := make([]any, len(v))
			copy(copied, v)
			out[key] = copied
		default:
			out[key] = value
		}
	}
	return out
}
