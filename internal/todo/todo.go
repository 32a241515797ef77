// Package todo keeps the to-do list shown next to the file browser.
package todo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Item is a single to-do entry.
type Item struct {
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// List is the persisted to-do list. Every mutation writes the file.
type List struct {
	Items []Item
	path  string
}

// Load reads the list at path. A missing file yields an empty list.
func Load(path string) (*List, error) {
	l := &List{path: path}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return l, nil
	}
	if err != nil {
		return l, fmt.Errorf("read todos: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return l, nil
	}
	if err := json.Unmarshal(data, &l.Items); err != nil {
		return l, fmt.Errorf("parse todos %s: %w", path, err)
	}
	return l, nil
}

// Path returns the file backing the list.
func (l *List) Path() string { return l.path }

// Save writes the list through a temp file and rename.
func (l *List) Save() error {
	if l.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("create todo dir: %w", err)
	}

	items := l.Items
	if items == nil {
		items = []Item{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal todos: %w", err)
	}

	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write todos: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		return fmt.Errorf("replace todos: %w", err)
	}
	return nil
}

// Add appends a new open item. Blank descriptions are ignored.
func (l *List) Add(description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil
	}
	l.Items = append(l.Items, Item{Description: description})
	return l.Save()
}

// Toggle flips the completion state of item i.
func (l *List) Toggle(i int) error {
	if i < 0 || i >= len(l.Items) {
		return nil
	}
	l.Items[i].Completed = !l.Items[i].Completed
	return l.Save()
}

// Remove deletes item i.
func (l *List) Remove(i int) error {
	if i < 0 || i >= len(l.Items) {
		return nil
	}
	l.Items = append(l.Items[:i], l.Items[i+1:]...)
	return l.Save()
}

// Pending counts items not yet completed.
func (l *List) Pending() int {
	n := 0
	for _, it := range l.Items {
		if !it.Completed {
			n++
		}
	}
	return n
}
