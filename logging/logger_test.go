package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func decodeEntries(t *testing.T, buf *bytes.Buffer) []Entry {
	t.Helper()
	var entries []Entry
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("decode %q: %v", scanner.Text(), err)
		}
		entries = append(entries, e)
	}
	return entries
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New("naskah", WARN, &buf)

	logger.Debug("wizard", "hidden", nil)
	logger.Info("wizard", "hidden", nil)
	logger.Warn("storage", "slow write", map[string]any{"ms": 1200})
	logger.Error("submission", "store failed", errors.New("disk full"), nil)

	entries := decodeEntries(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Level != "WARN" || entries[0].Category != "storage" || entries[0].Logger != "naskah" {
		t.Fatalf("unexpected warn entry %+v", entries[0])
	}
	if entries[1].Level != "ERROR" || entries[1].Error != "disk full" {
		t.Fatalf("unexpected error entry %+v", entries[1])
	}
}

func TestLogContextCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := New("naskah", DEBUG, &buf)
	logger.WithRequestID("req-1").WithCategory("http").WithField("path", "/api/naskah").Error("request failed", errors.New("boom"))

	entries := decodeEntries(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.RequestID != "req-1" || e.Category != "http" || e.Fields["path"] != "/api/naskah" || e.Error != "boom" {
		t.Fatalf("unexpected entry %+v", e)
	}
}

func TestAddWriter(t *testing.T) {
	var first, second bytes.Buffer
	logger := New("naskah", INFO, &first)
	logger.AddWriter(&second)
	logger.Info("server", "ready", nil)
	if first.Len() == 0 || first.String() != second.String() {
		t.Fatalf("expected both writers to receive the entry")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"":        INFO,
		"debug":   DEBUG,
		" Info ":  INFO,
		"warning": WARN,
		"ERROR":   ERROR,
		"fatal":   FATAL,
	}
	for raw, want := range cases {
		got, err := ParseLevel(raw)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", raw, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected an error for an unknown level")
	}
}
