package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRun_BindSuccess(t *testing.T) {
	var stdout, stderr bytes.Buffer
	in := strings.NewReader(`{"matchingProp1":"x","other":null,"n":1.5}`)
	code := run([]string{"bind", "-watch", "MatchingProp1,other,absent"}, in, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr.String())
	}
	var got map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("decode %s: %v", stdout.String(), err)
	}
	want := map[string]any{
		"value":    map[string]any{"matchingProp1": "x", "other": nil, "n": 1.5},
		"presence": map[string]any{"MatchingProp1": "present", "other": "null"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_BindFailure(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"bind", "-"}, strings.NewReader("This is"), &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	var got map[string]string
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("decode %s: %v", stdout.String(), err)
	}
	if msg, ok := got[""]; !ok || !strings.HasPrefix(msg, "Unexpected character encountered while parsing value: T.") {
		t.Fatalf("unexpected output: %v", got)
	}
}

func TestRun_ConfigFileAndDriver(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "bind.yaml")
	if err := os.WriteFile(cfg, []byte("duplicateKeys: error\nlanguage: ja\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	input := filepath.Join(dir, "in.json")
	if err := os.WriteFile(input, []byte(`{"a":1,"a":2}`), 0o644); err != nil {
		t.Fatal(err)
	}
	var stdout, stderr bytes.Buffer
	code := run([]string{"bind", "-config", cfg, "-driver", "json", input}, nil, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "キーが重複しています") {
		t.Fatalf("expected japanese duplicate message, got: %s", stdout.String())
	}
}

func TestRun_UsageErrors(t *testing.T) {
	for _, args := range [][]string{
		nil,
		{"compile"},
		{"bind", "-driver", "xml"},
		{"bind", "a.json", "b.json"},
		{"bind", "-config", "/does/not/exist.yaml"},
		{"bind", "/does/not/exist.json"},
	} {
		var stdout, stderr bytes.Buffer
		if code := run(args, strings.NewReader("{}"), &stdout, &stderr); code != 2 {
			t.Fatalf("%v: expected exit 2, got %d", args, code)
		}
	}
}

func TestSplitCSV(t *testing.T) {
	if diff := cmp.Diff([]string{"a", "b"}, splitCSV(" a, ,b ,")); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}
