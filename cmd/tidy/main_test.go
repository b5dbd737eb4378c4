package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tidy/internal/organizer"
	"tidy/internal/testsupport"
)

// runCommand executes the CLI with a fresh command tree, returning its
// combined stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// testConfig writes a config that keeps tests hermetic: the default rules,
// quiet logging, and no history database under the user's home.
func testConfig(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	testsupport.WriteFile(t, path, `
[logging]
level = "error"

[history]
enabled = false
`)
	return path
}

func TestOrganizeCommand(t *testing.T) {
	cfg := testConfig(t)
	target := t.TempDir()
	testsupport.SeedTree(t, target, map[string]string{
		"photo.jpg":  "x",
		"report.pdf": "y",
	})

	out, err := runCommand(t, "organize", target, "--config", cfg)
	if err != nil {
		t.Fatalf("organize: %v\n%s", err, out)
	}

	if _, err := os.Stat(filepath.Join(target, "Images", "photo.jpg")); err != nil {
		t.Fatalf("photo.jpg not organized: %v", err)
	}
	if _, err := os.Stat(filepath.Join(target, "Documents", "report.pdf")); err != nil {
		t.Fatalf("report.pdf not organized: %v", err)
	}
	if _, err := os.Stat(filepath.Join(target, organizer.LedgerFileName)); err != nil {
		t.Fatalf("ledger not written: %v", err)
	}
	if !strings.Contains(out, "Organized "+target) {
		t.Fatalf("missing report header:\n%s", out)
	}
}

func TestOrganizeCommandDryRun(t *testing.T) {
	cfg := testConfig(t)
	target := t.TempDir()
	testsupport.SeedTree(t, target, map[string]string{"photo.jpg": "x"})

	out, err := runCommand(t, "organize", target, "--dry-run", "--config", cfg)
	if err != nil {
		t.Fatalf("organize --dry-run: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Dry run: no files were moved") {
		t.Fatalf("missing dry-run banner:\n%s", out)
	}

	// No moves, no artifacts.
	got := testsupport.ListTree(t, target)
	if len(got) != 1 || got[0] != "photo.jpg" {
		t.Fatalf("dry run mutated target: %v", got)
	}
}

func TestOrganizeCommandJSON(t *testing.T) {
	cfg := testConfig(t)
	target := t.TempDir()
	testsupport.SeedTree(t, target, map[string]string{"black & white.jpg": "x"})

	out, err := runCommand(t, "organize", target, "--json", "--config", cfg)
	if err != nil {
		t.Fatalf("organize --json: %v\n%s", err, out)
	}

	var report organizeReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if report.Target != target || report.DryRun {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.Stats.Organized != 1 || len(report.Ledger) != 1 {
		t.Fatalf("unexpected stats or ledger: %+v", report)
	}
	if len(report.Summary) != 1 || report.Summary[0].Category != "Images" {
		t.Fatalf("unexpected summary: %+v", report.Summary)
	}
	// Paths pass through verbatim, not HTML-escaped.
	if !strings.Contains(out, "black & white.jpg") || strings.Contains(out, `&`) {
		t.Fatalf("path escaped in JSON output:\n%s", out)
	}
}

func TestOrganizeCommandRejectsMissingDirectory(t *testing.T) {
	cfg := testConfig(t)
	missing := filepath.Join(t.TempDir(), "nope")

	if _, err := runCommand(t, "organize", missing, "--config", cfg); err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("expected missing-directory error, got %v", err)
	}
}

func TestCategoriesCommand(t *testing.T) {
	cfg := testConfig(t)
	out, err := runCommand(t, "categories", "--config", cfg)
	if err != nil {
		t.Fatalf("categories: %v\n%s", err, out)
	}
	for _, want := range []string{"Images", ".jpg", "Others", "(everything else)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("categories output missing %q:\n%s", want, out)
		}
	}
}

func TestHistoryCommands(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	dbPath := filepath.Join(t.TempDir(), "history.db")
	testsupport.WriteFile(t, cfgPath, `
[logging]
level = "error"

[history]
enabled = true
path = "`+dbPath+`"
`)

	target := t.TempDir()
	testsupport.SeedTree(t, target, map[string]string{"photo.jpg": "x"})
	if out, err := runCommand(t, "organize", target, "--config", cfgPath); err != nil {
		t.Fatalf("organize: %v\n%s", err, out)
	}

	out, err := runCommand(t, "history", "--config", cfgPath)
	if err != nil {
		t.Fatalf("history: %v\n%s", err, out)
	}
	if !strings.Contains(out, target) || !strings.Contains(out, "shallow") {
		t.Fatalf("history listing missing run:\n%s", out)
	}

	var runs []struct {
		ID string `json:"ID"`
	}
	out, err = runCommand(t, "history", "--json", "--config", cfgPath)
	if err != nil {
		t.Fatalf("history --json: %v\n%s", err, out)
	}
	if err := json.Unmarshal([]byte(out), &runs); err != nil || len(runs) != 1 {
		t.Fatalf("history --json unexpected output (%v):\n%s", err, out)
	}

	out, err = runCommand(t, "history", "show", runs[0].ID[:8], "--config", cfgPath)
	if err != nil {
		t.Fatalf("history show: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Images") || !strings.Contains(out, "success") {
		t.Fatalf("history show missing operation:\n%s", out)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCommand(t, "config", "init", "--config", path)
	if err != nil {
		t.Fatalf("config init: %v\n%s", err, out)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if _, err := runCommand(t, "config", "init", "--config", path); err == nil {
		t.Fatal("config init should refuse to overwrite")
	}

	out, err = runCommand(t, "config", "show", "--config", path)
	if err != nil {
		t.Fatalf("config show: %v\n%s", err, out)
	}
	if !strings.Contains(out, "[logging]") {
		t.Fatalf("config show missing logging section:\n%s", out)
	}
}
