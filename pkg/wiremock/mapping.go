package wiremock

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"

	"github.com/devicelab-dev/mobile-login-tests/pkg/core"
)

// Mapping is a WireMock stub mapping as sent to the admin API.
type Mapping map[string]interface{}

// ID returns the mapping id, or "" when none is set.
func (m Mapping) ID() string {
	id, _ := m["id"].(string)
	return id
}

// Name returns the mapping name, or "" when none is set.
func (m Mapping) Name() string {
	name, _ := m["name"].(string)
	return name
}

// ensureID gives the mapping a UUID so it can be deleted later.
func (m Mapping) ensureID() string {
	if id := m.ID(); id != "" {
		return id
	}
	id := uuid.NewString()
	m["id"] = id
	return id
}

// mappingSchema covers the part of the stub format the suite relies on.
const mappingSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "WireMock stub mapping",
  "type": "object",
  "required": ["request", "response"],
  "properties": {
    "id": {"type": "string", "format": "uuid"},
    "name": {"type": "string"},
    "priority": {"type": "integer", "minimum": 1},
    "request": {
      "type": "object",
      "required": ["method"],
      "properties": {
        "method": {"type": "string", "minLength": 1},
        "url": {"type": "string"},
        "urlPath": {"type": "string"},
        "urlPattern": {"type": "string"},
        "urlPathPattern": {"type": "string"}
      }
    },
    "response": {
      "type": "object",
      "required": ["status"],
      "properties": {
        "status": {"type": "integer", "minimum": 100, "maximum": 599},
        "headers": {"type": "object"},
        "fixedDelayMilliseconds": {"type": "integer", "minimum": 0}
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(mappingSchema)

// Validate checks a mapping document against the stub schema.
func Validate(doc []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return core.ErrInvalidConfig.
			WithMessage("mapping is not valid JSON").
			WithCause(err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}
	return core.ErrInvalidConfig.
		WithMessage("invalid mapping: " + strings.Join(problems, "; ")).
		WithDetails(map[string]interface{}{"errors": problems})
}

// ParseMapping validates doc and decodes it.
func ParseMapping(doc []byte) (Mapping, error) {
	if err := Validate(doc); err != nil {
		return nil, err
	}
	var m Mapping
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, core.ErrInvalidConfig.WithMessage("decode mapping").WithCause(err)
	}
	return m, nil
}

func jsonBytes(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, core.ErrInvalidConfig.WithMessage("encode mapping").WithCause(err)
	}
	return data, nil
}

// ReadMappingFile reads and validates a mapping file.
func ReadMappingFile(path string) (Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.ErrMissingRequired.
			WithMessage(fmt.Sprintf("read mapping %s", path)).
			WithCause(err)
	}
	m, err := ParseMapping(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
