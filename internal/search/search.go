package search

import (
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/unicode/norm"

	"github.com/LFroesch/rove/internal/fscache"
	"github.com/LFroesch/rove/internal/logger"
)

// FuzzyPrefix switches a query from substring to fuzzy matching.
const FuzzyPrefix = "~"

// Lister is the read side of the directory cache.
type Lister interface {
	Listing(dir string, showHidden bool) (fscache.Listing, error)
}

// MatchResult identifies one matching name and the rune positions that
// matched. Positions index the runes of the name as given, not its NFC form.
type MatchResult struct {
	Index          int
	MatchedIndexes []int
}

// Result is the outcome of a search in one directory.
type Result struct {
	Query string
	// Restored is set when the query was empty and Listing is the plain
	// directory listing.
	Restored bool
	Fuzzy    bool
	Listing  fscache.Listing
	// Matches[i] holds the highlighted positions of Listing[i].
	Matches [][]int
}

// Engine filters directory listings by name.
type Engine struct {
	lister Lister
}

func NewEngine(lister Lister) *Engine {
	return &Engine{lister: lister}
}

// Search filters the entries of dir by query. Matching is case-sensitive
// substring containment on the bare name, unless the query starts with
// FuzzyPrefix. An empty query restores the full listing.
func (e *Engine) Search(dir, query string, showHidden bool) (Result, error) {
	listing, err := e.lister.Listing(dir, showHidden)
	if err != nil {
		return Result{Query: query}, err
	}

	fuzzyMode := strings.HasPrefix(query, FuzzyPrefix)
	pattern := strings.TrimPrefix(query, FuzzyPrefix)
	if pattern == "" {
		return Result{Query: query, Restored: true, Listing: listing}, nil
	}

	var matches []MatchResult
	if fuzzyMode {
		matches = FuzzyMatchNames(pattern, listing.Names())
	} else {
		matches = SubstringMatchNames(pattern, listing.Names())
	}

	res := Result{
		Query:   query,
		Fuzzy:   fuzzyMode,
		Listing: make(fscache.Listing, 0, len(matches)),
		Matches: make([][]int, 0, len(matches)),
	}
	for _, m := range matches {
		res.Listing = append(res.Listing, listing[m.Index])
		res.Matches = append(res.Matches, m.MatchedIndexes)
	}
	logger.Debug("search %q in %s: %d of %d", query, dir, len(matches), len(listing))
	return res, nil
}

// SubstringMatchNames performs case-sensitive substring matching on a list
// of names. Query and names are compared in NFC so that composed and
// decomposed spellings of the same name match. Results keep list order.
func SubstringMatchNames(query string, names []string) []MatchResult {
	if query == "" {
		return nil
	}

	q := norm.NFC.String(query)
	qLen := utf8.RuneCountInString(q)
	var results []MatchResult

	for i, name := range names {
		n := norm.NFC.String(name)
		idx := strings.Index(n, q)
		if idx == -1 {
			continue
		}
		start := utf8.RuneCountInString(n[:idx])
		matchedIndexes := make([]int, qLen)
		for j := range matchedIndexes {
			matchedIndexes[j] = start + j
		}
		results = append(results, MatchResult{
			Index:          i,
			MatchedIndexes: rawPositions(name, matchedIndexes),
		})
	}

	return results
}

// FuzzyMatchNames ranks names against query, best match first.
func FuzzyMatchNames(query string, names []string) []MatchResult {
	if query == "" {
		return nil
	}

	normalized := make([]string, len(names))
	for i, name := range names {
		normalized[i] = norm.NFC.String(name)
	}

	found := fuzzy.Find(norm.NFC.String(query), normalized)
	results := make([]MatchResult, 0, len(found))
	for _, m := range found {
		results = append(results, MatchResult{
			Index:          m.Index,
			MatchedIndexes: rawPositions(names[m.Index], runeIndexes(m.Str, m.MatchedIndexes)),
		})
	}
	return results
}

// runeIndexes converts byte offsets into rune positions.
func runeIndexes(s string, byteIdx []int) []int {
	out := make([]int, 0, len(byteIdx))
	for _, b := range byteIdx {
		if b > len(s) {
			continue
		}
		out = append(out, utf8.RuneCountInString(s[:b]))
	}
	return out
}

// rawPositions maps rune positions in the NFC form of raw back to rune
// positions in raw. A composed rune covers every raw rune it was built from.
// positions must be ascending.
func rawPositions(raw string, positions []int) []int {
	if norm.NFC.IsNormalString(raw) {
		return positions
	}

	// spans[i] is the raw rune range behind NFC rune i
	var spans [][2]int
	var it norm.Iter
	it.InitString(norm.NFC, raw)
	rawRune := 0
	for !it.Done() {
		start := it.Pos()
		seg := it.Next()
		segStart := rawRune
		rawRune += utf8.RuneCountInString(raw[start:it.Pos()])
		for n := utf8.RuneCount(seg); n > 0; n-- {
			spans = append(spans, [2]int{segStart, rawRune})
		}
	}

	out := make([]int, 0, len(positions))
	last := -1
	for _, p := range positions {
		if p < 0 || p >= len(spans) {
			continue
		}
		for r := spans[p][0]; r < spans[p][1]; r++ {
			if r > last {
				out = append(out, r)
				last = r
			}
		}
	}
	return out
}
