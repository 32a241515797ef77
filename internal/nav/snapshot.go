package nav

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"

	"github.com/LFroesch/rove/internal/fscache"
	"github.com/LFroesch/rove/internal/preview"
)

// Placeholder rows.
const (
	LoadingRow   = "<Loading...>"
	EmptyRow     = "<Empty>"
	NoMatchesRow = "<No matches>"
)

// Row is one line of the file list.
type Row struct {
	Name  string
	IsDir bool
	// Color is the extension color hint, nil when unmapped.
	Color lipgloss.TerminalColor
	// Matches holds rune positions to highlight during a search.
	Matches     []int
	Placeholder bool
}

// Snapshot is everything the view needs for one frame.
type Snapshot struct {
	Dir        string
	Rows       []Row
	Cursor     int
	Source     Source
	Loading    bool
	Err        error
	ShowHidden bool
	Query      string

	// Selected is the absolute path under the cursor, empty on placeholders.
	Selected      string
	SelectedIsDir bool
	Preview       []string
}

// Snapshot renders the current state. Preview lines come from the
// single-slot cache, so unchanged selections cost nothing.
func (n *Navigator) Snapshot() Snapshot {
	s := Snapshot{
		Dir:        n.dir,
		Cursor:     n.cursor,
		Source:     n.source,
		Loading:    n.Loading(),
		Err:        n.err,
		ShowHidden: n.showHidden,
		Query:      n.query,
	}

	switch {
	case n.source == Loading:
		s.Rows = []Row{{Name: LoadingRow, Placeholder: true}}
	case n.err != nil:
		s.Rows = []Row{{Name: errorRow(n.err), Placeholder: true}}
	case len(n.listing) == 0 && n.source == Search:
		s.Rows = []Row{{Name: NoMatchesRow, Placeholder: true}}
	case len(n.listing) == 0:
		s.Rows = []Row{{Name: EmptyRow, Placeholder: true}}
	default:
		s.Rows = make([]Row, len(n.listing))
		for i, e := range n.listing {
			row := Row{Name: e.Name, IsDir: e.IsDir}
			if !e.IsDir && n.style != nil {
				row.Color = n.style(e.Name)
			}
			if i < len(n.matches) {
				row.Matches = n.matches[i]
			}
			s.Rows[i] = row
		}
	}

	if e, ok := n.Selected(); ok {
		s.Selected = filepath.Join(n.dir, e.Name)
		s.SelectedIsDir = e.IsDir
		if !n.noPrev {
			s.Preview = n.preview.Get(s.Selected)
		}
	} else if n.source == Loading && !n.noPrev {
		s.Preview = []string{preview.Loading}
	}
	return s
}

func errorRow(err error) string {
	var accessErr *fscache.AccessError
	if errors.As(err, &accessErr) {
		return fmt.Sprintf("<Cannot read directory: %v>", accessErr.Err)
	}
	return fmt.Sprintf("<Cannot read directory: %v>", err)
}
