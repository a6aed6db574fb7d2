package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunRequiresArgs(t *testing.T) {
	var out bytes.Buffer

	err := run(nil, &out)
	if !errors.Is(err, errMissingArgs) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunPrintsBank(t *testing.T) {
	var outBuf bytes.Buffer

	err := run([]string{"../../fixtures/music.bnk"}, &outBuf)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	out := outBuf.String()
	checks := []string{
		"Version: 0x8c",
		"BankID: 42",
		"ProjectID: 4660",
		"\tHIRC\toffset 32\tlength 212",
		"Objects: 6",
		"\tEventAction:\t2",
		"\tMusicSwitchContainer:\t1",
		"Main switch: 500",
		"Play events: [300]",
		"Stop events: [301]",
		"Value:12 Target:600",
	}

	for _, c := range checks {
		if !strings.Contains(out, c) {
			t.Fatalf("expected output to contain %q\nfull output:\n%s", c, out)
		}
	}
}

func TestRunFromDirectory(t *testing.T) {
	data, err := os.ReadFile("../../fixtures/music.bnk")
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "0000ABCD.bnk"), data, 0o600); err != nil {
		t.Fatal(err)
	}

	var outBuf bytes.Buffer
	if err := run([]string{"-dir", dir, "abcd"}, &outBuf); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if !strings.Contains(outBuf.String(), "Bank: abcd") {
		t.Fatalf("unexpected output:\n%s", outBuf.String())
	}

	if err := run([]string{"-dir", dir, "1234"}, &outBuf); err == nil {
		t.Fatal("expected error for missing bank")
	}
}

func TestRunFromURL(t *testing.T) {
	data, err := os.ReadFile("../../fixtures/music.bnk")
	if err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	var outBuf bytes.Buffer
	if err := run([]string{"-url", srv.URL, "-rate", "10", "0x2A"}, &outBuf); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if !strings.Contains(outBuf.String(), "Main switch: 500") {
		t.Fatalf("unexpected output:\n%s", outBuf.String())
	}
}

func TestRunInvalidPath(t *testing.T) {
	var outBuf bytes.Buffer

	if err := run([]string{"/nonexistent/path.bnk"}, &outBuf); err == nil {
		t.Fatal("expected error for invalid path")
	}
}

func TestRunInvalidBank(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.bnk")
	if err := os.WriteFile(path, []byte("RIFF\x04\x00\x00\x00WAVE"), 0o600); err != nil {
		t.Fatal(err)
	}

	var outBuf bytes.Buffer
	if err := run([]string{path}, &outBuf); err == nil {
		t.Fatal("expected error for non-bank input")
	}
}
