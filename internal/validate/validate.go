// Package validate checks canonical documents against the exam_doc JSON
// Schema. A failed validation surfaces every violated constraint in one
// error, never just the first.
package validate

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/pavelanni/examdoc/internal/model"
)

//go:embed exam_doc-1.0.schema.json
var defaultSchema []byte

const schemaName = "exam_doc-1.0.schema.json"

// Error carries the full list of violated constraints.
type Error struct {
	Violations []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("document failed schema validation (%d violations): %s",
		len(e.Violations), strings.Join(e.Violations, "; "))
}

// Document validates a canonical document. An empty schemaPath uses the
// embedded schema.
func Document(doc *model.ExamDocument, schemaPath string) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	return Bytes(data, schemaPath)
}

// Bytes validates raw canonical JSON. An empty schemaPath uses the embedded
// schema.
func Bytes(data []byte, schemaPath string) error {
	schemaData := defaultSchema
	if schemaPath != "" {
		var err error
		schemaData, err = os.ReadFile(schemaPath)
		if err != nil {
			return fmt.Errorf("read schema: %w", err)
		}
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaName, bytes.NewReader(schemaData)); err != nil {
		return fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(schemaName)
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal document: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return &Error{Violations: collectLeaves(ve)}
		}
		return fmt.Errorf("validate: %w", err)
	}
	return nil
}

// collectLeaves walks the cause tree and returns every leaf violation.
func collectLeaves(ve *jsonschema.ValidationError) []string {
	if len(ve.Causes) == 0 {
		where := ve.InstanceLocation
		if where == "" {
			where = "/"
		}
		return []string{fmt.Sprintf("%s: %s", where, ve.Message)}
	}
	var out []string
	for _, cause := range ve.Causes {
		out = append(out, collectLeaves(cause)...)
	}
	return out
}
