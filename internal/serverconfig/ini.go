// Package serverconfig reads and edits the two Project Zomboid server
// configuration formats: the key=value server INI and the Lua
// SandboxVars file. Edits are textual and preserve the surrounding
// layout, so a hand-maintained config stays diffable after a change.
package serverconfig

import (
	"fmt"
	"os"
	"strings"
)

// INI keys holding semicolon-separated mod lists.
const (
	KeyMods          = "Mods"
	KeyWorkshopItems = "WorkshopItems"
)

// INIFile holds a server INI verbatim, line by line. Lookups parse on
// the fly; edits replace whole lines, leaving comments and ordering
// untouched.
type INIFile struct {
	lines []string
}

// ParseINI wraps raw INI content.
func ParseINI(data []byte) *INIFile {
	return &INIFile{lines: strings.Split(string(data), "\n")}
}

// LoadINI reads a server INI from disk.
func LoadINI(path string) (*INIFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ini: %w", err)
	}
	return ParseINI(data), nil
}

// Save writes the file back, byte-compatible with what was loaded
// apart from the edited lines.
func (f *INIFile) Save(path string) error {
	return os.WriteFile(path, []byte(f.String()), 0644)
}

func (f *INIFile) String() string {
	return strings.Join(f.lines, "\n")
}

// Get returns the value for key. Comment lines never match.
func (f *INIFile) Get(key string) (string, bool) {
	prefix := key + "="
	for _, line := range f.lines {
		t := strings.TrimSpace(line)
		if strings.HasPrefix(t, "#") {
			continue
		}
		if strings.HasPrefix(t, prefix) {
			return strings.TrimSpace(t[len(prefix):]), true
		}
	}
	return "", false
}

// Set replaces the value of key in place, or appends the assignment at
// the end when the key is not present.
func (f *INIFile) Set(key, value string) {
	assignment := key + "=" + value
	prefix := key + "="
	for i, line := range f.lines {
		t := strings.TrimSpace(line)
		if strings.HasPrefix(t, "#") {
			continue
		}
		if strings.HasPrefix(t, prefix) {
			f.lines[i] = assignment
			return
		}
	}
	// Keep the trailing newline: insert before the final empty element
	// when the file ends with one.
	if n := len(f.lines); n > 0 && f.lines[n-1] == "" {
		f.lines = append(f.lines[:n-1], assignment, "")
		return
	}
	f.lines = append(f.lines, assignment)
}

// Mods returns the entries of the Mods list.
func (f *INIFile) Mods() []string {
	return f.list(KeyMods)
}

// WorkshopItems returns the entries of the WorkshopItems list.
func (f *INIFile) WorkshopItems() []string {
	return f.list(KeyWorkshopItems)
}

// AddMod appends modID to the Mods list and, when workshopID is not
// empty, the workshop ID to WorkshopItems. A duplicate mod is an
// error; a duplicate workshop ID is skipped, since several mods can
// share one workshop item.
func (f *INIFile) AddMod(modID, workshopID string) error {
	if err := f.addToList(KeyMods, modID); err != nil {
		return err
	}
	if workshopID != "" && !contains(f.list(KeyWorkshopItems), workshopID) {
		if err := f.addToList(KeyWorkshopItems, workshopID); err != nil {
			return err
		}
	}
	return nil
}

// RemoveMod removes modID from the Mods list and, when workshopID is
// not empty, the workshop ID from WorkshopItems if present.
func (f *INIFile) RemoveMod(modID, workshopID string) error {
	if err := f.removeFromList(KeyMods, modID); err != nil {
		return err
	}
	if workshopID != "" && contains(f.list(KeyWorkshopItems), workshopID) {
		return f.removeFromList(KeyWorkshopItems, workshopID)
	}
	return nil
}

func (f *INIFile) list(key string) []string {
	raw, ok := f.Get(key)
	if !ok || raw == "" {
		return nil
	}
	parts := strings.Split(raw, ";")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}

func (f *INIFile) addToList(key, id string) error {
	items := f.list(key)
	if contains(items, id) {
		return fmt.Errorf("%s already contains %q", key, id)
	}
	f.Set(key, strings.Join(append(items, id), ";"))
	return nil
}

func (f *INIFile) removeFromList(key, id string) error {
	items := f.list(key)
	kept := items[:0]
	for _, it := range items {
		if it != id {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(items) {
		return fmt.Errorf("%s does not contain %q", key, id)
	}
	f.Set(key, strings.Join(kept, ";"))
	return nil
}

func contains(items []string, id string) bool {
	for _, it := range items {
		if it == id {
			return true
		}
	}
	return false
}
