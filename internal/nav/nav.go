// Package nav owns the browsing state: current directory, cursor, active
// listing and the load in flight. Every user action is a method returning
// an Effect; the UI applies effects and renders Snapshot.
//
// Directory reads never happen on the caller's goroutine. A change of
// directory records a request, the debouncer decides when it is submitted
// to the loader, and Tick polls the newest handle. Results for anything but
// the current target are dropped.
package nav

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/LFroesch/rove/internal/fscache"
	"github.com/LFroesch/rove/internal/loader"
	"github.com/LFroesch/rove/internal/logger"
	"github.com/LFroesch/rove/internal/preview"
	"github.com/LFroesch/rove/internal/search"
)

// Source says where the active listing came from.
type Source int

const (
	Normal Source = iota
	Loading
	Search
)

func (s Source) String() string {
	switch s {
	case Normal:
		return "normal"
	case Loading:
		return "loading"
	case Search:
		return "search"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

// Submitter starts background directory reads.
type Submitter interface {
	Submit(dir string, showHidden bool) *loader.Handle
	// Forget makes the next Submit for dir start a fresh read.
	Forget(dir string)
}

// Searcher filters a directory by name.
type Searcher interface {
	Search(dir, query string, showHidden bool) (search.Result, error)
}

// StyleFunc returns the color hint for a file name, or nil for the default.
type StyleFunc func(name string) lipgloss.TerminalColor

// Deps are the collaborators a Navigator reads through.
type Deps struct {
	Meta     *fscache.MetaCache
	Dirs     *fscache.DirCache
	Loader   Submitter
	Search   Searcher
	Preview  preview.Previewer
	Debounce *loader.Debouncer
	Style    StyleFunc
	// NoPreview turns the preview pane off.
	NoPreview bool
}

// Effect is what the UI has to do after an event.
type Effect struct {
	// Open is a file to hand to the configured opener.
	Open string
	// DirChanged is set when the current directory changed.
	DirChanged bool
	// Loaded is set by Tick when a listing for the current target landed.
	Loaded bool
	Status string
}

type request struct {
	dir        string
	showHidden bool
}

type Option func(*Navigator)

// WithClock replaces time.Now for debouncing decisions made inside events.
func WithClock(now func() time.Time) Option {
	return func(n *Navigator) { n.now = now }
}

// Navigator is not safe for concurrent use; one render loop owns it.
type Navigator struct {
	meta     *fscache.MetaCache
	dirs     *fscache.DirCache
	loader   Submitter
	search   Searcher
	debounce *loader.Debouncer
	style    StyleFunc
	preview  *preview.Cache
	noPrev   bool
	now      func() time.Time

	dir        string
	showHidden bool
	cursor     int
	source     Source
	listing    fscache.Listing
	matches    [][]int
	normal     fscache.Listing
	err        error
	query      string

	handle  *loader.Handle
	pending *request
	// dirPreview reads a selected subdirectory for the preview pane;
	// dirResult keeps the last one that landed.
	dirPreview *loader.Handle
	dirResult  *loader.Result
	// restore is the entry name to select once the next listing lands.
	restore string
}

// New starts browsing dir and submits its first load.
func New(dir string, showHidden bool, deps Deps, opts ...Option) *Navigator {
	n := &Navigator{
		meta:       deps.Meta,
		dirs:       deps.Dirs,
		loader:     deps.Loader,
		search:     deps.Search,
		debounce:   deps.Debounce,
		style:      deps.Style,
		noPrev:     deps.NoPreview,
		now:        time.Now,
		dir:        filepath.Clean(dir),
		showHidden: showHidden,
	}
	if n.meta == nil {
		n.meta = fscache.NewMetaCache()
	}
	if n.dirs == nil {
		n.dirs = fscache.NewDirCache()
	}
	if n.loader == nil {
		n.loader = loader.New(n.dirs)
	}
	if n.search == nil {
		n.search = search.NewEngine(n.dirs)
	}
	if n.debounce == nil {
		n.debounce = loader.NewDebouncer()
	}
	files := deps.Preview
	if files == nil {
		files = preview.New()
	}
	n.preview = preview.NewCache(&entryPreviewer{n: n, files: files})
	for _, opt := range opts {
		opt(n)
	}

	n.requestLoad(false)
	return n
}

// Dir returns the current directory.
func (n *Navigator) Dir() string { return n.dir }

// ShowHidden reports whether dotfiles are listed.
func (n *Navigator) ShowHidden() bool { return n.showHidden }

// Source returns where the active listing came from.
func (n *Navigator) Source() Source { return n.source }

// Query returns the active search query, empty outside a search.
func (n *Navigator) Query() string { return n.query }

// Cursor returns the cursor index.
func (n *Navigator) Cursor() int { return n.cursor }

// Loading reports whether a load is queued or in flight.
func (n *Navigator) Loading() bool { return n.handle != nil || n.pending != nil }

// Selected returns the entry under the cursor. Placeholder rows are never
// selectable.
func (n *Navigator) Selected() (fscache.Entry, bool) {
	if n.source == Loading || n.err != nil || n.cursor >= len(n.listing) {
		return fscache.Entry{}, false
	}
	return n.listing[n.cursor], true
}

// SelectedPath returns the absolute path of the entry under the cursor.
func (n *Navigator) SelectedPath() (string, bool) {
	e, ok := n.Selected()
	if !ok {
		return "", false
	}
	return filepath.Join(n.dir, e.Name), true
}

func (n *Navigator) MoveUp() Effect {
	if n.cursor > 0 {
		n.cursor--
	}
	return Effect{}
}

func (n *Navigator) MoveDown() Effect {
	if n.cursor < n.rows()-1 {
		n.cursor++
	}
	return Effect{}
}

func (n *Navigator) Top() Effect {
	n.cursor = 0
	return Effect{}
}

func (n *Navigator) Bottom() Effect {
	n.cursor = n.rows() - 1
	return Effect{}
}

// Page moves the cursor by delta rows, saturating at both ends.
func (n *Navigator) Page(delta int) Effect {
	n.cursor += delta
	n.clamp()
	return Effect{}
}

// Enter descends into the selected directory. On a file it behaves like
// Open. It does nothing while the listing is still loading.
func (n *Navigator) Enter() Effect {
	if n.source == Loading {
		return Effect{}
	}
	path, ok := n.SelectedPath()
	if !ok {
		return Effect{}
	}
	switch n.meta.Classify(path) {
	case fscache.KindDir:
		n.chdir(path, "")
		return Effect{DirChanged: true}
	case fscache.KindFile:
		return Effect{Open: path}
	default:
		return Effect{Status: fmt.Sprintf("%s is not accessible", filepath.Base(path))}
	}
}

// Parent moves to the parent directory and selects the directory we left.
func (n *Navigator) Parent() Effect {
	parent := filepath.Dir(n.dir)
	if parent == n.dir {
		return Effect{}
	}
	n.chdir(parent, filepath.Base(n.dir))
	return Effect{DirChanged: true}
}

// Open asks the UI to open the selected file.
func (n *Navigator) Open() Effect {
	if n.source == Loading {
		return Effect{}
	}
	path, ok := n.SelectedPath()
	if !ok || n.meta.Classify(path) != fscache.KindFile {
		return Effect{}
	}
	return Effect{Open: path}
}

// ToggleHidden flips dotfile visibility and reloads.
func (n *Navigator) ToggleHidden() Effect {
	n.showHidden = !n.showHidden
	n.query = ""
	n.restore = ""
	n.requestLoad(false)
	return Effect{Status: fmt.Sprintf("hidden files: %v", n.showHidden)}
}

// Refresh re-reads the current directory, keeping the selection.
func (n *Navigator) Refresh() Effect {
	n.forget(n.dir)
	n.preview.Reset()
	n.reload()
	return Effect{}
}

// Changed handles a filesystem notification for names inside dir.
func (n *Navigator) Changed(dir string, names []string) Effect {
	for _, name := range names {
		n.meta.Invalidate(filepath.Join(dir, name))
	}
	n.forget(dir)
	if dir != n.dir {
		if _, ok := n.preview.Peek(dir); ok {
			n.preview.Reset()
		}
		return Effect{}
	}
	n.preview.Reset()
	n.reload()
	return Effect{}
}

// BeginSearch reports whether a search prompt may be opened.
func (n *Navigator) BeginSearch() bool {
	return n.source != Loading && n.err == nil
}

// ApplySearch filters the current directory by query. An empty query
// restores the plain listing.
func (n *Navigator) ApplySearch(query string) Effect {
	if n.source == Loading {
		return Effect{}
	}
	res, err := n.search.Search(n.dir, query, n.showHidden)
	n.cursor = 0
	if err != nil {
		n.setError(err)
		return Effect{Status: err.Error()}
	}
	n.err = nil
	n.setSearch(query, res)
	return Effect{}
}

// ClearSearch returns to the plain listing.
func (n *Navigator) ClearSearch() Effect {
	n.query = ""
	if n.source == Search {
		n.source = Normal
		n.listing = n.normal
		n.matches = nil
		n.cursor = 0
	}
	return Effect{}
}

// Tick submits a deferred load when the debouncer allows it and applies the
// result of the current load once it is ready.
func (n *Navigator) Tick(now time.Time) Effect {
	n.pollDirPreview()
	n.dispatch(now)
	if n.handle == nil {
		return Effect{}
	}
	r, ok := n.handle.Poll()
	if !ok {
		return Effect{}
	}
	n.handle = nil
	if r.Dir != n.dir || r.ShowHidden != n.showHidden {
		logger.Debug("dropping stale listing for %s", r.Dir)
		return Effect{}
	}
	n.apply(r)
	return Effect{Loaded: true}
}

// forget drops everything cached about dir so the next load reads it anew.
func (n *Navigator) forget(dir string) {
	n.dirs.Forget(dir)
	n.loader.Forget(dir)
	if n.dirResult != nil && n.dirResult.Dir == dir {
		n.dirResult = nil
	}
	if n.dirPreview != nil && n.dirPreview.Dir == dir {
		n.dirPreview = nil
	}
}

func (n *Navigator) pollDirPreview() {
	r, ok := n.dirPreview.Poll()
	if !ok {
		return
	}
	n.dirPreview = nil
	n.dirResult = &r
	// the slot still holds the loading placeholder for this directory
	if _, ok := n.preview.Peek(r.Dir); ok {
		n.preview.Reset()
	}
}

func (n *Navigator) chdir(dir, restore string) {
	n.dir = dir
	n.query = ""
	n.requestLoad(false)
	n.restore = restore
}

// reload re-requests the current directory without dropping the visible
// listing.
func (n *Navigator) reload() {
	if e, ok := n.Selected(); ok {
		n.restore = e.Name
	}
	n.requestLoad(true)
}

func (n *Navigator) requestLoad(keep bool) {
	if !keep {
		n.source = Loading
		n.listing, n.matches, n.normal = nil, nil, nil
		n.err = nil
		n.cursor = 0
		n.restore = ""
		n.preview.Reset()
	}
	n.pending = &request{dir: n.dir, showHidden: n.showHidden}
	n.dispatch(n.now())
}

func (n *Navigator) dispatch(now time.Time) {
	if n.pending == nil {
		return
	}
	if !n.debounce.Ready(now, n.handle != nil) {
		return
	}
	n.handle = n.loader.Submit(n.pending.dir, n.pending.showHidden)
	n.debounce.Mark(now)
	n.pending = nil
}

func (n *Navigator) apply(r loader.Result) {
	if r.Err != nil {
		logger.Warn("cannot read %s: %v", r.Dir, r.Err)
		n.setError(r.Err)
		n.restore = ""
		return
	}
	n.err = nil
	n.normal = r.Listing

	if n.source == Search && n.query != "" {
		if res, err := n.search.Search(n.dir, n.query, n.showHidden); err == nil {
			n.setSearch(n.query, res)
		}
	} else {
		n.source = Normal
		n.listing = r.Listing
		n.matches = nil
	}

	if n.restore != "" {
		if i := n.listing.Index(n.restore); i >= 0 {
			n.cursor = i
		}
		n.restore = ""
	}
	n.clamp()
}

func (n *Navigator) setSearch(query string, res search.Result) {
	if res.Restored {
		n.query = ""
		n.source = Normal
		n.listing = res.Listing
		n.normal = res.Listing
		n.matches = nil
	} else {
		n.query = query
		n.source = Search
		n.listing = res.Listing
		n.matches = res.Matches
	}
	n.clamp()
}

func (n *Navigator) setError(err error) {
	n.err = err
	n.source = Normal
	n.listing, n.matches, n.normal = nil, nil, nil
	n.cursor = 0
}

// rows counts the rendered rows; placeholders occupy one row.
func (n *Navigator) rows() int {
	if n.source == Loading || n.err != nil || len(n.listing) == 0 {
		return 1
	}
	return len(n.listing)
}

func (n *Navigator) clamp() {
	if limit := n.rows(); n.cursor >= limit {
		n.cursor = limit - 1
	}
	if n.cursor < 0 {
		n.cursor = 0
	}
}
