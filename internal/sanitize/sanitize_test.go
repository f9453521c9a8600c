package sanitize

import "testing"

func TestExtractJSONFencedWithProse(t *testing.T) {
	raw := "Sure! Here is the analysis you asked for:\n```json\n{\"skills\": [\"Go\", \"SQL\"], \"experienceYears\": 4}\n```\nLet me know if you need anything else."

	got := ExtractJSON(raw)
	want := `{"skills": ["Go", "SQL"], "experienceYears": 4}`
	if got != want {
		t.Fatalf("unexpected extraction: %q", got)
	}
}

func TestExtractJSONBareFence(t *testing.T) {
	raw := "```\n{\"a\": 1}\n```"
	if got := ExtractJSON(raw); got != `{"a": 1}` {
		t.Fatalf("unexpected extraction: %q", got)
	}
}

func TestExtractJSONProseAroundObject(t *testing.T) {
	raw := `The result is {"fit": true} as requested.`
	if got := ExtractJSON(raw); got != `{"fit": true}` {
		t.Fatalf("unexpected extraction: %q", got)
	}
}

func TestExtractJSONNestedBracesKeepsOuterWindow(t *testing.T) {
	raw := `{"outer": {"inner": 1}}`
	if got := ExtractJSON(raw); got != raw {
		t.Fatalf("unexpected extraction: %q", got)
	}
}

func TestExtractJSONArrayFallback(t *testing.T) {
	raw := "Here you go: [1, 2, 3] done"
	if got := ExtractJSON(raw); got != "[1, 2, 3]" {
		t.Fatalf("unexpected extraction: %q", got)
	}
}

func TestExtractJSONNoBracesReturnsTrimmed(t *testing.T) {
	raw := "  no json here  "
	if got := ExtractJSON(raw); got != "no json here" {
		t.Fatalf("unexpected extraction: %q", got)
	}
}
