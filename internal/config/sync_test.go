// SPDX-License-Identifier: MPL-2.0

package config

import (
	"reflect"
	"slices"
	"strconv"
	"strings"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// configSchema is embedded in config.go and available to tests via the same package.

// These tests verify Go struct JSON tags match CUE schema field names.
// They catch misalignments at CI time, preventing silent parsing failures.

// extractCUEFields extracts all field names from a CUE struct definition.
// It returns a map of field names to whether the field is optional.
// Nested struct fields are not included; only top-level fields of the given definition.
func extractCUEFields(t *testing.T, val cue.Value) map[string]bool {
	t.Helper()

	fields := make(map[string]bool)

	// Iterate over the struct fields
	iter, err := val.Fields(cue.Definitions(false), cue.Optional(true))
	if err != nil {
		t.Fatalf("failed to iterate CUE fields: %v", err)
	}

	for iter.Next() {
		sel := iter.Selector()
		// Skip hidden fields (start with _) and definitions (start with #)
		labelType := sel.LabelType()
		if labelType.IsHidden() || sel.IsDefinition() {
			continue
		}

		// Skip fields that are explicitly set to bottom (_|_) - these are error constraints
		// used to explicitly forbid certain field names.
		// We detect these by checking if the error message contains "explicit error (_|_ literal)".
		// This distinguishes between:
		// - "explicitly _|_" → skip, not a real field
		// - "constraint evaluation error" → include, valid field
		fieldValue := iter.Value()
		if fieldValue.Kind() == cue.BottomKind && fieldValue.Err() != nil {
			errMsg := fieldValue.Err().Error()
			if strings.Contains(errMsg, "explicit error (_|_ literal)") {
				continue
			}
		}

		// The selector string may include the "?" suffix for optional fields
		// We need to strip it to get the actual field name
		fieldName := sel.String()
		fieldName = strings.TrimSuffix(fieldName, "?")
		isOptional := iter.IsOptional()
		fields[fieldName] = isOptional
	}

	return fields
}

// extractGoJSONTags extracts all JSON field names from a Go struct using reflection.
// It returns a map of JSON tag names to whether the field has "omitempty".
// Fields with json:"-" are excluded.
// Embedded structs are not expanded; only direct fields are returned.
func extractGoJSONTags(t *testing.T, typ reflect.Type) map[string]bool {
	t.Helper()

	// Dereference pointer types
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	if typ.Kind() != reflect.Struct {
		t.Fatalf("expected struct type, got %s", typ.Kind())
	}

	fields := make(map[string]bool)

	for i := range typ.NumField() {
		field := typ.Field(i)
		// Skip unexported fields
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("json")
		if tag == "" || tag == "-" {
			// No json tag or explicitly excluded
			continue
		}

		// Parse the tag: "name,omitempty" or just "name"
		parts := strings.Split(tag, ",")
		name := parts[0]
		if name == "" || name == "-" {
			continue
		}

		hasOmitempty := slices.Contains(parts[1:], "omitempty")

		fields[name] = hasOmitempty
	}

	return fields
}

// assertFieldsSync verifies that CUE schema fields and Go struct JSON tags are in sync.
// It checks:
// 1. Every CUE field has a corresponding Go JSON tag
// 2. Every Go JSON tag has a corresponding CUE field
// 3. Optional/omitempty alignment (warning only, not a failure)
func assertFieldsSync(t *testing.T, structName string, cueFields, goFields map[string]bool) {
	t.Helper()

	// Check CUE fields exist in Go struct
	for field, isOptional := range cueFields {
		hasOmitempty, exists := goFields[field]
		if !exists {
			t.Errorf("[%s] CUE field %q not found in Go struct (missing JSON tag)", structName, field)
			continue
		}
		// Warn about optional/omitempty mismatch (not a hard failure)
		if isOptional && !hasOmitempty {
			t.Logf("[%s] Note: CUE field %q is optional but Go field lacks omitempty tag", structName, field)
		}
	}

	// Check Go fields exist in CUE schema
	for field := range goFields {
		if _, exists := cueFields[field]; !exists {
			t.Errorf("[%s] Go JSON tag %q not found in CUE schema (missing CUE field)", structName, field)
		}
	}
}

// getCUESchema compiles the embedded CUE schema and returns the context and compiled value.
func getCUESchema(t *testing.T) (cue.Value, *cue.Context) {
	t.Helper()

	ctx := cuecontext.New()
	schema := ctx.CompileString(configSchema)
	if schema.Err() != nil {
		t.Fatalf("failed to compile CUE schema: %v", schema.Err())
	}

	return schema, ctx
}

// lookupDefinition looks up a CUE definition by path (e.g., "#Config").
func lookupDefinition(t *testing.T, schema cue.Value, defPath string) cue.Value {
	t.Helper()

	def := schema.LookupPath(cue.ParsePath(defPath))
	if def.Err() != nil {
		t.Fatalf("failed to lookup CUE definition %s: %v", defPath, def.Err())
	}

	return def
}

func TestSchemaSync(t *testing.T) {
	t.Parallel()

	schema, _ := getCUESchema(t)
	tests := []struct {
		def string
		typ reflect.Type
	}{
		{"#Config", reflect.TypeFor[Config]()},
		{"#ListConfig", reflect.TypeFor[ListConfig]()},
		{"#UIConfig", reflect.TypeFor[UIConfig]()},
		{"#EngineConfig", reflect.TypeFor[EngineConfig]()},
		{"#DotenvConfig", reflect.TypeFor[DotenvConfig]()},
	}
	for _, tt := range tests {
		t.Run(tt.def, func(t *testing.T) {
			t.Parallel()

			cueFields := extractCUEFields(t, lookupDefinition(t, schema, tt.def))
			goFields := extractGoJSONTags(t, tt.typ)
			assertFieldsSync(t, tt.def, cueFields, goFields)
		})
	}
}

// TestSchemaEnumsSync verifies enum disjunctions in the schema accept exactly
// the values the Go types consider valid.
func TestSchemaEnumsSync(t *testing.T) {
	t.Parallel()

	tests := []struct {
		field  string
		values []string
		valid  func(string) bool
	}{
		{"default_runtime", []string{"native", "virtual", "container"}, func(s string) bool { ok, _ := RuntimeMode(s).IsValid(); return ok }},
		{"list.sort", []string{"alphabetical", "declaration", "random"}, func(s string) bool { ok, _ := ListSort(s).IsValid(); return ok }},
		{"ui.color_scheme", []string{"auto", "dark", "light", "neon"}, func(s string) bool { ok, _ := ColorScheme(s).IsValid(); return ok }},
	}
	for _, tt := range tests {
		for _, value := range tt.values {
			t.Run(tt.field+"="+value, func(t *testing.T) {
				t.Parallel()

				schema, ctx := getCUESchema(t)
				def := lookupDefinition(t, schema, "#Config")
				doc := ctx.CompileString(nestedField(tt.field, value))
				err := def.Unify(doc).Validate(cue.Concrete(false))
				if accepted, want := err == nil, tt.valid(value); accepted != want {
					t.Errorf("schema accepts %s=%q: %v, Go IsValid: %v (err: %v)", tt.field, value, accepted, want, err)
				}
			})
		}
	}
}

func TestSchemaRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	schema, ctx := getCUESchema(t)
	def := lookupDefinition(t, schema, "#Config")
	doc := ctx.CompileString(`container_engine: "docker"`)
	if err := def.Unify(doc).Validate(cue.Concrete(false)); err == nil {
		t.Error("schema accepted unknown field container_engine")
	}
}

func TestShellConstraint(t *testing.T) {
	t.Parallel()

	schema, ctx := getCUESchema(t)
	def := lookupDefinition(t, schema, "#Config")
	for value, wantOK := range map[string]bool{"bash -cu": true, "   ": false, "": false} {
		doc := ctx.CompileString(nestedField("shell", value))
		err := def.Unify(doc).Validate(cue.Concrete(false))
		if (err == nil) != wantOK {
			t.Errorf("shell=%q: err = %v, want ok=%v", value, err, wantOK)
		}
	}
}

// nestedField renders a dotted path and string value as CUE source.
func nestedField(path, value string) string {
	parts := strings.Split(path, ".")
	return strings.Join(parts, ": ") + ": " + strconv.Quote(value)
}
