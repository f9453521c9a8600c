// Package sanitize cleans up generative model output before JSON parsing.
// Models routinely wrap their answers in markdown code fences and surround
// them with prose; every structured parse in this codebase goes through
// ExtractJSON first.
package sanitize

import "strings"

// ExtractJSON strips code-fence markup from raw model output and returns the
// substring between the first '{' and the last '}' inclusive. When the text
// contains no object braces, a top-level array between the first '[' and the
// last ']' is returned instead. If neither is found, the trimmed input is
// returned as-is. The result is not guaranteed to be well-formed JSON; that
// check belongs to the caller.
func ExtractJSON(raw string) string {
	cleaned := stripFences(raw)

	if w, ok := window(cleaned, '{', '}'); ok {
		return w
	}
	if w, ok := window(cleaned, '[', ']'); ok {
		return w
	}

	return cleaned
}

func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func window(s string, open, shut byte) (string, bool) {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, shut)
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
