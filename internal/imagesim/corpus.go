package imagesim

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Candidate is one brand reference image: the brand folder it belongs to, its
// filename, and the raw bytes. Decoding happens at comparison time so that a
// malformed file only excludes itself.
type Candidate struct {
	Brand string
	Name  string
	Data  []byte
}

// imageExts lists the reference file extensions considered part of the corpus.
var imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

// Brands lists the brand folders under dir, sorted.
func Brands(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "imagesim: list brand dir %s", dir)
	}
	var brands []string
	for _, e := range entries {
		if e.IsDir() {
			brands = append(brands, e.Name())
		}
	}
	sort.Strings(brands)
	return brands, nil
}

// LoadCorpus collects the candidate images in scope. Scope "all" (or "")
// walks every brand folder in sorted order; otherwise only the named folder
// is read. Candidate order is deterministic: brands sorted, filenames sorted
// within a brand.
func LoadCorpus(dir, scope string) ([]Candidate, error) {
	var brands []string
	if scope == "" || scope == "all" {
		var err error
		brands, err = Brands(dir)
		if err != nil {
			return nil, err
		}
	} else {
		brands = []string{scope}
	}

	var candidates []Candidate
	for _, brand := range brands {
		brandDir := filepath.Join(dir, brand)
		entries, err := os.ReadDir(brandDir)
		if err != nil {
			return nil, eris.Wrapf(err, "imagesim: list brand folder %s", brand)
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
				continue
			}
			names = append(names, e.Name())
		}
		sort.Strings(names)

		for _, name := range names {
			data, err := os.ReadFile(filepath.Join(brandDir, name))
			if err != nil {
				// Unreadable candidates are excluded, not fatal.
				zap.L().Warn("imagesim: skipping unreadable candidate",
					zap.String("brand", brand),
					zap.String("file", name),
					zap.Error(err),
				)
				continue
			}
			candidates = append(candidates, Candidate{Brand: brand, Name: name, Data: data})
		}
	}

	zap.L().Debug("imagesim: corpus loaded",
		zap.String("scope", scope),
		zap.Int("candidates", len(candidates)),
	)
	return candidates, nil
}
