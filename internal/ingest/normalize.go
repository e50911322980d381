// Package ingest converts raw Jira issues into calendar events: field
// normalization, rich-text flattening, timestamp parsing and the
// end-time inference heuristic.
package ingest

import "strings"

// NormalizeField collapses any raw Jira field value into a display
// string. The API returns strings, option objects, user objects and
// arrays of those depending on the field type; callers never see the
// difference.
//
//   - strings pass through unchanged
//   - arrays map each element to its value/name and join with ", "
//   - objects yield value, then name, then displayName
//   - anything else (numbers, booleans, null) becomes ""
func NormalizeField(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case []any:
		var parts []string
		for _, el := range v {
			if s := normalizeScalar(el); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		return normalizeObject(v)
	default:
		return ""
	}
}

func normalizeScalar(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case map[string]any:
		return normalizeObject(v)
	default:
		return ""
	}
}

func normalizeObject(obj map[string]any) string {
	for _, key := range []string{"value", "name", "displayName"} {
		if s, ok := obj[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// FlattenDescription renders an Atlassian Document Format description
// to plain text: paragraph text runs are concatenated, paragraphs are
// separated by blank lines, and everything else (media, tables, panels)
// is skipped. Plain-string descriptions pass through.
func FlattenDescription(raw any) string {
	if s, ok := raw.(string); ok {
		return s
	}

	doc, ok := raw.(map[string]any)
	if !ok {
		return ""
	}
	content, ok := doc["content"].([]any)
	if !ok {
		return ""
	}

	var paragraphs []string
	for _, block := range content {
		b, ok := block.(map[string]any)
		if !ok || b["type"] != "paragraph" {
			continue
		}

		var runs []string
		if inner, ok := b["content"].([]any); ok {
			for _, node := range inner {
				n, ok := node.(map[string]any)
				if !ok {
					continue
				}
				if text, ok := n["text"].(string); ok {
					runs = append(runs, text)
				}
			}
		}

		if p := strings.Join(runs, ""); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return strings.Join(paragraphs, "\n\n")
}
