// Package policy implements the allowed and banned command lists.
//
// Both lists live in the state directory as plain files, one command per
// line. Matching is exact on the trimmed command text: an allowed command
// runs without confirmation, a banned command is refused before the gate
// is ever shown.
package policy

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const (
	allowedFile = "allowed"
	bannedFile  = "banned"
)

// Lists holds the command lists loaded from a state directory.
type Lists struct {
	dir     string
	allowed map[string]bool
	banned  map[string]bool
}

// Load reads the allowed and banned files under baseDir. Missing files are
// treated as empty lists.
func Load(baseDir string) (*Lists, error) {
	allowed, err := readList(filepath.Join(baseDir, allowedFile))
	if err != nil {
		return nil, err
	}
	banned, err := readList(filepath.Join(baseDir, bannedFile))
	if err != nil {
		return nil, err
	}
	return &Lists{dir: baseDir, allowed: allowed, banned: banned}, nil
}

// Allowed reports whether command may run without confirmation.
func (l *Lists) Allowed(command string) bool {
	return l.allowed[strings.TrimSpace(command)]
}

// Banned reports whether command must be refused.
func (l *Lists) Banned(command string) bool {
	return l.banned[strings.TrimSpace(command)]
}

// Ban appends command to the banned file and the in-memory set. Banning a
// command that is already banned is a no-op.
func (l *Lists) Ban(command string) error {
	command = strings.TrimSpace(command)
	if command == "" || l.banned[command] {
		return nil
	}
	if err := os.MkdirAll(l.dir, 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(l.dir, bannedFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteString(command + "\n"); err != nil {
		return err
	}
	l.banned[command] = true
	return nil
}

func readList(path string) (map[string]bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]bool{}, nil
		}
		return nil, err
	}
	set := make(map[string]bool)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			set[line] = true
		}
	}
	return set, nil
}
