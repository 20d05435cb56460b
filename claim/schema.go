package claim

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ValidationError lists every schema violation found in a JSON claim.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid claim: " + strings.Join(e.Problems, "; ")
}

var claimSchema = mustCompile()

func mustCompile() *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(Schema()))
	if err != nil {
		panic(fmt.Sprintf("claim schema: %v", err))
	}
	return schema
}

// Schema returns the JSON schema for a claim submitted over the API. Every
// field is optional; fields outside the catalogue are allowed.
func Schema() map[string]any {
	properties := make(map[string]any, len(catalogue))
	for _, f := range catalogue {
		prop := map[string]any{"description": f.Help}
		switch f.Kind {
		case KindText:
			prop["type"] = "string"
		case KindInteger:
			prop["type"] = "integer"
			prop["minimum"] = f.Min
			if f.HasMax() {
				prop["maximum"] = f.Max
			}
		case KindFloat:
			prop["type"] = "number"
			prop["minimum"] = f.Min
			if f.HasMax() {
				prop["maximum"] = f.Max
			}
		case KindChoice:
			prop["type"] = "integer"
			values := make([]any, len(f.Choices))
			for i, c := range f.Choices {
				values[i] = c.Value
			}
			prop["enum"] = values
		}
		properties[f.Name] = prop
	}
	return map[string]any{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"title":                "Claim",
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": true,
	}
}

func ValidateJSON(doc map[string]any) error {
	result, err := claimSchema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	problems := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		problems[i] = desc.String()
	}
	sort.Strings(problems)
	return &ValidationError{Problems: problems}
}
