package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestInit_JSONWithService(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	log := Init(Options{Level: "debug", Output: &buf, Service: "shop-api"})
	log.Debug().Str("user_id", "u1").Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected a JSON line, got %q: %v", buf.String(), err)
	}
	if entry["service"] != "shop-api" {
		t.Errorf("expected service field, got %v", entry["service"])
	}
	if entry["message"] != "hello" || entry["user_id"] != "u1" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestInit_OnlyFirstCallApplies(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var first, second bytes.Buffer
	Init(Options{Output: &first})
	Init(Options{Output: &second})
	log := Get()
	log.Info().Msg("once")

	if first.Len() == 0 {
		t.Error("first writer must receive output")
	}
	if second.Len() != 0 {
		t.Error("second Init must be ignored")
	}
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	Reset()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	Get()
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{
		"trace": "trace", "DEBUG": "debug", " warn ": "warn", "warning": "warn",
		"error": "error", "": "info", "bogus": "info",
	}
	for in, want := range cases {
		if got := parseLevel(in).String(); got != want {
			t.Errorf("parseLevel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestComponent_TagsEntries(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	Init(Options{Output: &buf, Service: "shop-api"})
	log := Component("cart")
	log.Info().Msg("checkout completed")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected a JSON line, got %q: %v", buf.String(), err)
	}
	if entry["component"] != "cart" || entry["service"] != "shop-api" {
		t.Errorf("unexpected entry: %v", entry)
	}
}
