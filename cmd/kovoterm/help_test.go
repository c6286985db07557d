// ABOUTME: Tests for the kovoterm CLI help display covering content, grouping, and env detection.
// ABOUTME: Help output is the only discoverability surface, so assertions are content-based.
package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintHelpContainsProjectNameAndVersion(t *testing.T) {
	var buf bytes.Buffer
	printHelp(&buf, "1.2.3")
	out := buf.String()

	if !strings.Contains(out, "kovoterm") {
		t.Error("expected help output to contain project name 'kovoterm'")
	}
	if !strings.Contains(out, "1.2.3") {
		t.Error("expected help output to contain version '1.2.3'")
	}
}

func TestPrintHelpContainsUsagePatterns(t *testing.T) {
	var buf bytes.Buffer
	printHelp(&buf, "dev")
	out := buf.String()

	patterns := []string{
		"kovoterm diagram",
		"kovoterm serve",
		"kovoterm present",
		"kalkulace <order-id>",
		"dokumenty upload <file>",
		"pipeline test-email",
		"pipeline batch-upload",
	}
	for _, p := range patterns {
		if !strings.Contains(out, p) {
			t.Errorf("expected help to contain usage pattern %q", p)
		}
	}
}

func TestPrintHelpContainsAllFlags(t *testing.T) {
	var buf bytes.Buffer
	printHelp(&buf, "dev")
	out := buf.String()

	flags := []string{
		"-api",
		"-token",
		"-data-dir",
		"-offline",
		"-json",
		"-layout",
		"-format",
		"-category",
		"-search",
		"-output",
		"-bind",
		"-allow-remote",
		"-version",
		"-help",
	}
	for _, f := range flags {
		if !strings.Contains(out, f) {
			t.Errorf("expected help to contain flag %q", f)
		}
	}
}

func TestPrintHelpContainsExamples(t *testing.T) {
	var buf bytes.Buffer
	printHelp(&buf, "dev")
	out := buf.String()

	if !strings.Contains(out, "Examples:") {
		t.Error("expected help to contain 'Examples:' section header")
	}
	if !strings.Contains(out, "kovoterm materialy -json") {
		t.Error("expected help to contain a list example")
	}
	if !strings.Contains(out, "-layout circular") {
		t.Error("expected help to contain a diagram example")
	}
}

func TestPrintHelpShowsEnvVarStatus(t *testing.T) {
	t.Setenv("KOVOTERM_API_URL", "https://api.firma.cz")
	t.Setenv("KOVOTERM_TOKEN", "")

	var buf bytes.Buffer
	printHelp(&buf, "dev")
	out := buf.String()

	foundSet := false
	foundNotSet := false
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "KOVOTERM_API_URL") && strings.Contains(line, "[set]") && !strings.Contains(line, "[not set]") {
			foundSet = true
		}
		if strings.Contains(line, "KOVOTERM_TOKEN") && strings.Contains(line, "[not set]") {
			foundNotSet = true
		}
	}
	if !foundSet {
		t.Error("expected KOVOTERM_API_URL to show [set] when env var is present")
	}
	if !foundNotSet {
		t.Error("expected KOVOTERM_TOKEN to show [not set] when env var is empty")
	}
}

func TestPrintHelpFlagGrouping(t *testing.T) {
	var buf bytes.Buffer
	printHelp(&buf, "dev")
	out := buf.String()

	sections := []string{
		"Connection Flags:",
		"List Flags:",
		"Diagram Flags:",
		"Serve Flags:",
		"Other:",
	}
	for _, s := range sections {
		if !strings.Contains(out, s) {
			t.Errorf("expected help to contain section header %q", s)
		}
	}
}

func TestEnvStatus(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		expected string
	}{
		{"set key", "TEST_KEY_SET", "some-value", "[set]"},
		{"empty key", "TEST_KEY_EMPTY", "", "[not set]"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			got := envStatus(tc.key)
			if got != tc.expected {
				t.Errorf("envStatus(%q) = %q, want %q", tc.key, got, tc.expected)
			}
		})
	}
}
