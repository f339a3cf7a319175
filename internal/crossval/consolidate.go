// Package crossval corroborates High-risk findings across detector types.
// Independent detectors can flag the same real-world item for different
// reasons; reporting it twice inflates apparent risk. The consolidator merges
// corroborated pairs into cross-validation findings and prunes the originals.
package crossval

import (
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/tradewatch/ipscreen/internal/model"
)

// pairPass describes one detector-type pair. Passes run in a fixed order;
// the order determines which items merge when several candidates overlap.
type pairPass struct {
	left, right model.FindingType
	cross       model.FindingType
	format      string
}

var passes = [3]pairPass{
	{model.TypeBOM, model.TypeImage, model.TypeBOMImageCross,
		"BOM high-risk item confirmed by Image (match: %s)."},
	{model.TypeBOM, model.TypeDocument, model.TypeBOMDocumentCross,
		"BOM high-risk item confirmed by Document (doc: %s)."},
	{model.TypeImage, model.TypeDocument, model.TypeImageDocumentCross,
		"Image high-risk item confirmed by Document (doc: %s)."},
}

// Tokens normalizes a category into its token set: runs of non-alphanumeric
// characters become separators, tokens are lowercased. An empty category
// yields an empty set, which never matches.
func Tokens(category string) map[string]bool {
	fields := strings.FieldsFunc(strings.ToLower(category), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

func intersects(a, b map[string]bool) bool {
	if len(b) < len(a) {
		a, b = b, a
	}
	for tok := range a {
		if b[tok] {
			return true
		}
	}
	return false
}

// Consolidate runs the three pair passes over the High buckets of rs,
// appends one cross-validation finding per corroborated pair, and removes
// every consumed finding from its standalone bucket. It is deterministic
// given input order, and idempotent: running it again on its own output is a
// no-op. Returns the number of cross findings emitted.
func Consolidate(rs *model.ResultSet) int {
	consumed := map[string]bool{}
	emitted := 0

	for _, pass := range passes {
		// Items consumed by earlier passes are out of the candidate pool;
		// within a pass, matching is greedy first-match and a consumed
		// right-hand item cannot corroborate a second left-hand item.
		lefts := rs.BucketFor(pass.left).High
		rights := rs.BucketFor(pass.right).High

		for _, left := range lefts {
			if consumed[left.ID] {
				continue
			}
			leftTokens := Tokens(left.Category)
			if len(leftTokens) == 0 {
				continue
			}
			for _, right := range rights {
				if consumed[right.ID] {
					continue
				}
				if !intersects(leftTokens, Tokens(right.Category)) {
					continue
				}

				cross := model.NewFinding(pass.cross, model.RiskHigh, left.Category, left.Subject)
				cross.Company = left.Company
				cross.Evidence = right.Evidence
				cross.Explanation = fmt.Sprintf(pass.format, rightEvidence(right))
				rs.Cross = append(rs.Cross, cross)

				consumed[left.ID] = true
				consumed[right.ID] = true
				emitted++
				break
			}
		}
	}

	// Removal is deferred to a single pass over the buckets, keyed by ID.
	rs.PruneHigh(consumed)

	if emitted > 0 {
		zap.L().Info("crossval: consolidated findings",
			zap.Int("cross", emitted),
			zap.Int("consumed", len(consumed)),
		)
	}
	return emitted
}

func rightEvidence(f model.Finding) string {
	if f.Evidence != "" {
		return f.Evidence
	}
	return f.Explanation
}
