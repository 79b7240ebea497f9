package i18n

import "testing"

func TestDict_EnglishAndJapanese(t *testing.T) {
	data := map[string]string{"value": "true", "type": "int", "detail": "Error converting value true to type 'int'."}
	if got := Default.Message("invalid_type", data); got != data["detail"] {
		t.Fatalf("expected english message, got %q", got)
	}
	if got := Dict("ja").Message("invalid_type", data); got != "値 true を型 'int' に変換できません。" {
		t.Fatalf("expected japanese message, got %q", got)
	}
	if got := Dict("fr").Message("required", map[string]string{"key": "id"}); got != "Required property 'id' not found in JSON." {
		t.Fatalf("unknown languages fall back to english, got %q", got)
	}
}

func TestDict_Fallbacks(t *testing.T) {
	if got := Default.Message("no_such_code", map[string]string{"detail": "raw"}); got != "raw" {
		t.Fatalf("expected detail fallback, got %q", got)
	}
	if got := Default.Message("no_such_code", nil); got != "no_such_code" {
		t.Fatalf("expected code fallback, got %q", got)
	}
	// a template whose parameters are missing falls back to the detail
	if got := Dict("ja").Message("invalid_type", map[string]string{"detail": "json: cannot unmarshal"}); got != "json: cannot unmarshal" {
		t.Fatalf("expected detail fallback, got %q", got)
	}
	if got := Default.Message("parse_error", map[string]string{"detail": "Bad {value}"}); got != "Bad {value}" {
		t.Fatalf("placeholders inside parameters must not expand, got %q", got)
	}
}
