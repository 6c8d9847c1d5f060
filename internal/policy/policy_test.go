package policy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_MissingFilesAreEmpty(t *testing.T) {
	lists, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if lists.Allowed("ls -la") {
		t.Error("Allowed() = true with no allowed file")
	}
	if lists.Banned("rm -rf /tmp/x") {
		t.Error("Banned() = true with no banned file")
	}
}

func TestLoad_ReadsLists(t *testing.T) {
	dir := t.TempDir()
	writeList(t, dir, "allowed", "ls -la\n\n  df -h  \n")
	writeList(t, dir, "banned", "rm -rf /\n")

	lists, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !lists.Allowed("ls -la") {
		t.Error("Allowed(ls -la) = false, want true")
	}
	if !lists.Allowed("df -h") {
		t.Error("Allowed(df -h) = false, want true for trimmed entry")
	}
	if !lists.Banned("rm -rf /") {
		t.Error("Banned(rm -rf /) = false, want true")
	}
	if lists.Allowed("ls") {
		t.Error("Allowed(ls) = true, want exact match only")
	}
}

func TestBan_AppendsAndPersists(t *testing.T) {
	dir := t.TempDir()

	lists, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := lists.Ban("  shutdown now  "); err != nil {
		t.Fatalf("Ban() error = %v", err)
	}

	if !lists.Banned("shutdown now") {
		t.Error("Banned() = false immediately after Ban()")
	}

	// A fresh load sees the persisted entry.
	reloaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reloaded.Banned("shutdown now") {
		t.Error("Banned() = false after reload")
	}

	data, err := os.ReadFile(filepath.Join(dir, "banned"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got := string(data); got != "shutdown now\n" {
		t.Errorf("banned file = %q, want %q", got, "shutdown now\n")
	}
}

func TestBan_DuplicateIsNoOp(t *testing.T) {
	dir := t.TempDir()

	lists, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	for range 3 {
		if err := lists.Ban("mkfs /dev/sda"); err != nil {
			t.Fatalf("Ban() error = %v", err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "banned"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if n := strings.Count(string(data), "mkfs /dev/sda"); n != 1 {
		t.Errorf("banned file holds %d copies, want 1", n)
	}
}

func TestBan_EmptyCommandIgnored(t *testing.T) {
	dir := t.TempDir()

	lists, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := lists.Ban("   "); err != nil {
		t.Fatalf("Ban() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "banned")); !os.IsNotExist(err) {
		t.Errorf("banned file created for empty command, stat err = %v", err)
	}
}

func writeList(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0600); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", name, err)
	}
}
