//go:build linux

package debug

import "testing"

func TestParseStatm(t *testing.T) {
	got, err := parseStatm([]byte("5462 1024 300 12 0 400 0\n"), 4096)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != 1024*4096 {
		t.Fatalf("expected %d bytes, got %d", 1024*4096, got)
	}
}

func TestParseStatm_Malformed(t *testing.T) {
	if _, err := parseStatm([]byte("12"), 4096); err == nil {
		t.Fatalf("expected error for short line")
	}
	if _, err := parseStatm([]byte("12 x"), 4096); err == nil {
		t.Fatalf("expected error for non-numeric resident field")
	}
}

func TestResidentSetSizeIsCurrent(t *testing.T) {
	rss, err := residentSetSize()
	if err != nil {
		t.Fatalf("residentSetSize: %v", err)
	}
	if rss == 0 {
		t.Fatalf("expected non-zero rss")
	}
	if rssKey != "rss" {
		t.Fatalf("linux reports current rss, key = %q", rssKey)
	}
}
