package main

import (
	"io"
	"testing"
)

func TestRootHasSubcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"demo", "bootstrap", "version"} {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected root command to include %s", name)
		}
	}
}

func TestNewLoggerAcceptsKnownNames(t *testing.T) {
	for _, level := range []string{"", "trace", "debug", "info", "warn", "warning", "error"} {
		if _, err := newLogger(io.Discard, level, "console"); err != nil {
			t.Fatalf("level %q: %v", level, err)
		}
	}
	for _, format := range []string{"", "console", "json", "structured"} {
		if _, err := newLogger(io.Discard, "info", format); err != nil {
			t.Fatalf("format %q: %v", format, err)
		}
	}
}

func TestNewLoggerRejectsUnknownNames(t *testing.T) {
	if _, err := newLogger(io.Discard, "loud", ""); err == nil {
		t.Fatal("expected an unknown level to fail")
	}
	if _, err := newLogger(io.Discard, "", "xml"); err == nil {
		t.Fatal("expected an unknown format to fail")
	}
}

func TestDemoFlagDefaults(t *testing.T) {
	cmd := newDemoCmd(&rootFlags{})
	if got := cmd.Flags().Lookup("url").DefValue; got != "https://example.org/" {
		t.Fatalf("url default = %q", got)
	}
	if got := cmd.Flags().Lookup("duration").DefValue; got != "2s" {
		t.Fatalf("duration default = %q", got)
	}
}
