// Package preview renders the first lines of a file for the preview pane.
//
// An external pager (bat) is tried first. When none is installed, or it
// prints nothing, the file is read in-process and numbered like nl(1),
// optionally highlighted with chroma. Failures never surface as errors;
// they become one of a small set of sentinel lines.
package preview

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/LFroesch/rove/internal/logger"
)

const (
	MaxLines = 20
	MaxSize  = 1_000_000

	pagerTimeout = 2 * time.Second
)

// Sentinel preview lines.
const (
	TooLarge   = "<File too large to preview>"
	Missing    = "<File does not exist>"
	Empty      = "<Empty file>"
	Unreadable = "<Failed to preview file>"
	Loading    = "<Loading preview...>"
	EmptyDir   = "<Empty>"
)

// DefaultPagers are tried in order.
var DefaultPagers = []string{"batcat", "bat"}

var pagerArgs = []string{"-n", "--style=plain", "--color=always", "--paging=never", "--wrap=never"}

// Generator produces bounded previews.
type Generator struct {
	pagers    []string
	highlight bool
	style     string
	lookPath  func(string) (string, error)
	stat      func(string) (os.FileInfo, error)
}

// Option configures a Generator.
type Option func(*Generator)

// WithPagers replaces the pager candidates. An empty list disables the
// external pager entirely.
func WithPagers(names ...string) Option {
	return func(g *Generator) { g.pagers = names }
}

// WithHighlight toggles chroma highlighting in the fallback path.
func WithHighlight(on bool) Option {
	return func(g *Generator) { g.highlight = on }
}

// WithStyle selects the chroma style used for highlighting.
func WithStyle(name string) Option {
	return func(g *Generator) { g.style = name }
}

// WithLookPath overrides how pager binaries are located.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(g *Generator) { g.lookPath = fn }
}

func New(opts ...Option) *Generator {
	g := &Generator{
		pagers:    DefaultPagers,
		highlight: true,
		style:     "nord",
		lookPath:  exec.LookPath,
		stat:      os.Stat,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Preview returns at most MaxLines lines for path.
func (g *Generator) Preview(path string) []string {
	if info, err := g.stat(path); err == nil && info.Size() > MaxSize {
		return []string{TooLarge}
	}

	lines := g.runPager(path)
	if len(lines) == 0 {
		lines = g.numbered(path)
	}
	if len(lines) == 0 {
		return []string{g.sentinel(path)}
	}
	if len(lines) > MaxLines {
		lines = lines[:MaxLines]
	}
	return lines
}

func (g *Generator) runPager(path string) []string {
	for _, name := range g.pagers {
		bin, err := g.lookPath(name)
		if err != nil {
			continue
		}
		lines, err := readPager(bin, path)
		if err != nil {
			logger.Debug("pager %s failed on %s: %v", name, path, err)
			continue
		}
		if len(lines) > 0 {
			return lines
		}
	}
	return nil
}

// readPager reads at most MaxLines lines of the pager's stdout, then kills it.
func readPager(bin, path string) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), pagerTimeout)
	defer cancel()

	args := append(append([]string{}, pagerArgs...), path)
	cmd := exec.CommandContext(ctx, bin, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	var lines []string
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for len(lines) < MaxLines && scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}

	if len(lines) == MaxLines {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return lines, nil
	}
	if err := cmd.Wait(); err != nil && len(lines) == 0 {
		return nil, fmt.Errorf("wait %s: %w", bin, err)
	}
	return lines, nil
}

// numbered reads the head of path and numbers non-empty output like nl.
func (g *Generator) numbered(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	raw, err := readHead(f, MaxLines)
	if err != nil || len(raw) == 0 || isBinary(raw) {
		return nil
	}

	text := strings.TrimSuffix(string(raw), "\n")
	n := strings.Count(text, "\n") + 1
	reset := ""
	if g.highlight {
		if colored, ok := highlight(path, text, g.style); ok {
			text = colored
			reset = "\x1b[0m"
		}
	}

	// lexers may append a trailing newline; keep the source line count
	src := strings.Split(text, "\n")
	if len(src) > n {
		src = src[:n]
	}
	out := make([]string, 0, len(src))
	for i, line := range src {
		out = append(out, fmt.Sprintf("%6d\t%s%s", i+1, strings.TrimRight(line, "\r"), reset))
	}
	return out
}

// readHead returns the bytes of the first n lines of r.
func readHead(r io.Reader, n int) ([]byte, error) {
	br := bufio.NewReader(r)
	var buf bytes.Buffer
	for i := 0; i < n; i++ {
		line, err := br.ReadBytes('\n')
		buf.Write(line)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func isBinary(data []byte) bool {
	limit := len(data)
	if limit > 8192 {
		limit = 8192
	}
	return bytes.IndexByte(data[:limit], 0) >= 0
}

func highlight(path, text, styleName string) (string, bool) {
	lexer := lexers.Match(path)
	if lexer == nil {
		lexer = lexers.Analyse(text)
	}
	if lexer == nil {
		return "", false
	}

	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		return "", false
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return "", false
	}
	return strings.TrimSuffix(buf.String(), "\n"), true
}

// sentinel explains why neither path produced output.
func (g *Generator) sentinel(path string) string {
	info, err := g.stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return Missing
	case err != nil:
		return Unreadable
	case info.Size() == 0:
		return Empty
	default:
		return Unreadable
	}
}
