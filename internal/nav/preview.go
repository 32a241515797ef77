package nav

import (
	"github.com/LFroesch/rove/internal/fscache"
	"github.com/LFroesch/rove/internal/preview"
)

// entryPreviewer previews files through the generator and directories as
// their listing. Directories not yet cached are read by the loader and show
// preview.Loading until Tick picks up the result.
type entryPreviewer struct {
	n     *Navigator
	files preview.Previewer
}

func (p *entryPreviewer) Preview(path string) []string {
	n := p.n
	if n.meta.Classify(path) != fscache.KindDir {
		return p.files.Preview(path)
	}

	if listing, ok := n.dirs.Cached(path, n.showHidden); ok {
		return dirLines(listing, nil)
	}
	if r := n.dirResult; r != nil && r.Dir == path && r.ShowHidden == n.showHidden {
		return dirLines(r.Listing, r.Err)
	}
	n.dirPreview = n.loader.Submit(path, n.showHidden)
	return []string{preview.Loading}
}

func dirLines(listing fscache.Listing, err error) []string {
	if err != nil {
		return []string{errorRow(err)}
	}
	if len(listing) == 0 {
		return []string{preview.EmptyDir}
	}
	if len(listing) > preview.MaxLines {
		listing = listing[:preview.MaxLines]
	}
	lines := make([]string, len(listing))
	for i, e := range listing {
		lines[i] = e.Name
		if e.IsDir {
			lines[i] += "/"
		}
	}
	return lines
}
