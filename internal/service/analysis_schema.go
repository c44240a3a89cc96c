package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const analysisSchemaURL = "symptom_analysis.json"

// analysisSchema constrains the symptom-analysis object requested from the
// model. risk_level stays a free string: synonyms such as "moderate" are
// normalized afterwards and unknown values fall back to the heuristic level.
const analysisSchema = `{
  "type": "object",
  "required": ["risk_level", "recommendation"],
  "properties": {
    "risk_level": {"type": "string", "minLength": 1},
    "recommendation": {"type": "string", "minLength": 1},
    "analysis": {"type": "string"},
    "possible_conditions": {
      "type": "array",
      "maxItems": 10,
      "items": {
        "type": "object",
        "required": ["condition"],
        "properties": {
          "condition": {"type": "string", "minLength": 1},
          "probability": {"type": "number", "minimum": 0, "maximum": 1}
        }
      }
    }
  }
}`

// aiAnalysis is the decoded model output.
type aiAnalysis struct {
	RiskLevel          string `json:"risk_level"`
	Recommendation     string `json:"recommendation"`
	Analysis           string `json:"analysis"`
	PossibleConditions []struct {
		Condition   string  `json:"condition"`
		Probability float64 `json:"probability"`
	} `json:"possible_conditions"`
}

// jsonValidator checks model output against one compiled schema.
type jsonValidator struct {
	schema *jsonschema.Schema
}

func newJSONValidator(url, schema string) (*jsonValidator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, strings.NewReader(schema)); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", url, err)
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", url, err)
	}
	return &jsonValidator{schema: compiled}, nil
}

// decode extracts the JSON object from text, validates it and decodes it into out.
func (v *jsonValidator) decode(text string, out any) error {
	raw, err := extractJSONObject(text)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("unmarshal model output: %w", err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return fmt.Errorf("model output does not match schema: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode model output: %w", err)
	}
	return nil
}

// extractJSONObject returns the outermost {...} span of text. Models
// sometimes wrap JSON in markdown fences or a sentence of preamble.
func extractJSONObject(text string) ([]byte, error) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in model output")
	}
	return []byte(text[start : end+1]), nil
}
