package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeField_String(t *testing.T) {
	assert.Equal(t, "Berlin plant", NormalizeField("Berlin plant"))
	assert.Equal(t, "", NormalizeField(""))
}

func TestNormalizeField_Object(t *testing.T) {
	assert.Equal(t, "Audit", NormalizeField(map[string]any{"value": "Audit", "id": "1"}))
	assert.Equal(t, "In Progress", NormalizeField(map[string]any{"name": "In Progress"}))
	assert.Equal(t, "Dana Reeve", NormalizeField(map[string]any{"displayName": "Dana Reeve", "accountId": "x"}))
	// value wins over name and displayName
	assert.Equal(t, "v", NormalizeField(map[string]any{"value": "v", "name": "n", "displayName": "d"}))
	assert.Equal(t, "", NormalizeField(map[string]any{"id": "123"}))
}

func TestNormalizeField_Array(t *testing.T) {
	assert.Equal(t, "a, b", NormalizeField([]any{"a", "b"}))
	assert.Equal(t, "Audit, Tour", NormalizeField([]any{
		map[string]any{"value": "Audit"},
		map[string]any{"name": "Tour"},
	}))
	// empty elements are filtered before joining
	assert.Equal(t, "a, b", NormalizeField([]any{"a", "", map[string]any{"id": "1"}, "b"}))
	assert.Equal(t, "", NormalizeField([]any{}))
}

func TestNormalizeField_Scalars(t *testing.T) {
	assert.Equal(t, "", NormalizeField(nil))
	assert.Equal(t, "", NormalizeField(42.0))
	assert.Equal(t, "", NormalizeField(true))
}

func TestFlattenDescription_PlainString(t *testing.T) {
	assert.Equal(t, "just text", FlattenDescription("just text"))
}

func TestFlattenDescription_ADF(t *testing.T) {
	doc := map[string]any{
		"type":    "doc",
		"version": 1.0,
		"content": []any{
			map[string]any{
				"type": "paragraph",
				"content": []any{
					map[string]any{"type": "text", "text": "First "},
					map[string]any{"type": "text", "text": "line."},
				},
			},
			map[string]any{"type": "mediaSingle"},
			map[string]any{
				"type":    "paragraph",
				"content": []any{},
			},
			map[string]any{
				"type": "paragraph",
				"content": []any{
					map[string]any{"type": "text", "text": "Second."},
				},
			},
		},
	}

	assert.Equal(t, "First line.\n\nSecond.", FlattenDescription(doc))
}

func TestFlattenDescription_Malformed(t *testing.T) {
	assert.Equal(t, "", FlattenDescription(nil))
	assert.Equal(t, "", FlattenDescription(map[string]any{"type": "doc"}))
	assert.Equal(t, "", FlattenDescription(12.5))
}
