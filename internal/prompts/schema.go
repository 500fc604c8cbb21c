package prompts

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// promptSchema constrains the shape of a prompt definition document.
// The prompt body is the only required field; name defaults to the file stem.
const promptSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["prompt"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "prompt": {"type": "string", "minLength": 1},
    "system_prompt": {"type": "string"},
    "llm": {
      "type": "object",
      "properties": {
        "provider": {"type": "string"},
        "model": {"type": "string"},
        "temperature": {"type": "number", "minimum": 0, "maximum": 2},
        "max_tokens": {"type": "integer", "minimum": 1},
        "enable_web_search": {"type": "boolean"}
      }
    },
    "delivery": {
      "type": "object",
      "properties": {
        "provider": {"type": "string"},
        "recipients": {
          "type": "array",
          "items": {"type": "string", "minLength": 3}
        },
        "subject": {"type": "string"}
      }
    }
  }
}`

var compiledSchema = jsonschema.MustCompileString("prompt.schema.json", promptSchema)

// ValidateDocument checks a parsed prompt document against the schema.
// The document is round-tripped through JSON so the validator sees
// JSON-native types regardless of how the YAML decoder typed them.
func ValidateDocument(path string, doc map[string]interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return &ConfigError{Path: path, Message: fmt.Sprintf("document not representable as JSON: %v", err), Err: err}
	}
	var normalized interface{}
	if err := json.Unmarshal(data, &normalized); err != nil {
		return &ConfigError{Path: path, Message: fmt.Sprintf("document normalization failed: %v", err), Err: err}
	}

	if err := compiledSchema.Validate(normalized); err != nil {
		return &ConfigError{Path: path, Message: fmt.Sprintf("schema violation: %v", err), Err: err}
	}
	return nil
}
