package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestWithFieldsProducesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf)

	log.WithFields(map[string]interface{}{
		"ticker": "AGNC",
		"count":  3,
	}).Info("fetched")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}

	if entry["ticker"] != "AGNC" {
		t.Errorf("Expected ticker field AGNC, got %v", entry["ticker"])
	}
	if entry["message"] != "fetched" {
		t.Errorf("Expected message fetched, got %v", entry["message"])
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf)

	log.WithError(errors.New("boom")).Error("fetch failed")

	if !strings.Contains(buf.String(), `"error":"boom"`) {
		t.Errorf("Expected error field in output, got %s", buf.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"debug", "debug"},
		{"INFO", "info"},
		{"warning", "warn"},
		{"error", "error"},
		{"bogus", "info"},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.in).String(); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
