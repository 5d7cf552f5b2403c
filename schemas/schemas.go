// Package schemas contains the embedded JSON Schemas used to validate
// raw result files before they enter the pipeline.
package schemas

import _ "embed"

// RecordSchemaJSON validates a single flat evaluation record, the shape
// found in JSONL lines and JSON array elements.
//
//go:embed record.schema.json
var RecordSchemaJSON string

// DetectionSchemaJSON validates the nested model-keyed documents used by
// detection tasks.
//
//go:embed detection.schema.json
var DetectionSchemaJSON string
