// Package validation checks raw result files against the embedded JSON
// Schemas, so data problems surface as named file and line findings
// instead of silently skipped records during a pipeline run.
package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rostrum-dev/rostrum/schemas"
)

// defaultPrinter is used to format schema validation error messages.
var defaultPrinter = message.NewPrinter(language.English)

// recordSchema is the compiled JSON Schema for flat evaluation records.
var recordSchema *jsonschema.Schema

// detectionSchema is the compiled JSON Schema for nested model-keyed
// detection documents.
var detectionSchema *jsonschema.Schema

func init() {
	recordSchema = mustCompileSchema(schemas.RecordSchemaJSON, "record.schema.json")
	detectionSchema = mustCompileSchema(schemas.DetectionSchemaJSON, "detection.schema.json")
}

func mustCompileSchema(raw string, name string) *jsonschema.Schema {
	var schemaDoc any
	if err := json.Unmarshal([]byte(raw), &schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}

	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// ValidateRecordBytes validates one flat record document against the
// record schema.
func ValidateRecordBytes(data []byte) []string {
	return validateJSONBytes(recordSchema, data)
}

// ValidateDetectionBytes validates a nested model-keyed document
// against the detection schema.
func ValidateDetectionBytes(data []byte) []string {
	return validateJSONBytes(detectionSchema, data)
}

func validateJSONBytes(schema *jsonschema.Schema, data []byte) []string {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return []string{fmt.Sprintf("JSON parse error: %v", err)}
	}
	return validateAgainstSchema(schema, doc)
}

func validateAgainstSchema(schema *jsonschema.Schema, instance any) []string {
	err := schema.Validate(instance)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	var errs []string
	collectSchemaErrors(ve, &errs)
	return errs
}

func collectSchemaErrors(ve *jsonschema.ValidationError, errs *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*errs = append(*errs, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(defaultPrinter)))
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, errs)
	}
}
