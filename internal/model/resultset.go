package model

// Bucket partitions one detector's findings by risk level. Order within each
// level is emission order and is preserved through serialization.
type Bucket struct {
	High     []Finding `json:"high"`
	Moderate []Finding `json:"moderate"`
	Low      []Finding `json:"low"`
}

// Level returns the slice for the given risk level.
func (b *Bucket) Level(level RiskLevel) []Finding {
	switch level {
	case RiskHigh:
		return b.High
	case RiskModerate:
		return b.Moderate
	default:
		return b.Low
	}
}

// Add appends a finding to the slice for its risk level.
func (b *Bucket) Add(f Finding) {
	switch f.RiskLevel {
	case RiskHigh:
		b.High = append(b.High, f)
	case RiskModerate:
		b.Moderate = append(b.Moderate, f)
	default:
		b.Low = append(b.Low, f)
	}
}

// Len returns the total number of findings across all levels.
func (b *Bucket) Len() int {
	return len(b.High) + len(b.Moderate) + len(b.Low)
}

// ResultSet is the request-local container for one analysis run: one bucket
// per detector plus the unpartitioned cross-validation bucket. It is created
// empty, populated by the detectors, mutated once by the consolidator (High
// buckets only), then treated as immutable.
type ResultSet struct {
	BOM      Bucket    `json:"bom"`
	Image    Bucket    `json:"image"`
	Document Bucket    `json:"document"`
	Cross    []Finding `json:"cross_validation"`
}

// NewResultSet returns an empty result set.
func NewResultSet() *ResultSet {
	return &ResultSet{}
}

// BucketFor returns the standalone bucket for a detector type, or nil for
// cross-validation types.
func (rs *ResultSet) BucketFor(t FindingType) *Bucket {
	switch t {
	case TypeBOM:
		return &rs.BOM
	case TypeImage:
		return &rs.Image
	case TypeDocument:
		return &rs.Document
	default:
		return nil
	}
}

// Add routes a finding to its bucket. Cross-validation findings go to the
// cross bucket regardless of level.
func (rs *ResultSet) Add(f Finding) {
	if f.Type.Cross() {
		rs.Cross = append(rs.Cross, f)
		return
	}
	if b := rs.BucketFor(f.Type); b != nil {
		b.Add(f)
	}
}

// AddAll routes each finding in order.
func (rs *ResultSet) AddAll(findings []Finding) {
	for _, f := range findings {
		rs.Add(f)
	}
}

// Total returns the number of findings across all buckets.
func (rs *ResultSet) Total() int {
	return rs.BOM.Len() + rs.Image.Len() + rs.Document.Len() + len(rs.Cross)
}

// PruneHigh removes findings whose IDs appear in consumed from the standalone
// High buckets. Order of the survivors is preserved.
func (rs *ResultSet) PruneHigh(consumed map[string]bool) {
	rs.BOM.High = withoutIDs(rs.BOM.High, consumed)
	rs.Image.High = withoutIDs(rs.Image.High, consumed)
	rs.Document.High = withoutIDs(rs.Document.High, consumed)
}

func withoutIDs(findings []Finding, consumed map[string]bool) []Finding {
	if len(consumed) == 0 {
		return findings
	}
	kept := findings[:0:0]
	for _, f := range findings {
		if !consumed[f.ID] {
			kept = append(kept, f)
		}
	}
	return kept
}
