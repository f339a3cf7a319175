// Package model defines the finding and result types shared by the detectors,
// the consolidator, the store, and the report assembler.
package model

import "github.com/google/uuid"

// RiskLevel classifies the severity of a finding. Levels are totally ordered:
// High > Moderate > Low.
type RiskLevel string

const (
	RiskHigh     RiskLevel = "High"
	RiskModerate RiskLevel = "Moderate"
	RiskLow      RiskLevel = "Low"
)

// Rank returns the ordering rank of a level (higher is more severe).
func (r RiskLevel) Rank() int {
	switch r {
	case RiskHigh:
		return 3
	case RiskModerate:
		return 2
	case RiskLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether r is one of the three defined levels.
func (r RiskLevel) Valid() bool {
	return r.Rank() > 0
}

// FindingType identifies which detector (or detector pair) produced a finding.
type FindingType string

const (
	TypeBOM      FindingType = "bom"
	TypeImage    FindingType = "image"
	TypeDocument FindingType = "document"

	// Cross-validation types, produced only by the consolidator.
	TypeBOMImageCross      FindingType = "bom_image_cross"
	TypeBOMDocumentCross   FindingType = "bom_document_cross"
	TypeImageDocumentCross FindingType = "image_document_cross"
)

// Display returns the human-readable label used in reports.
func (t FindingType) Display() string {
	switch t {
	case TypeBOM:
		return "BOM"
	case TypeImage:
		return "Image"
	case TypeDocument:
		return "Document"
	case TypeBOMImageCross:
		return "BOM-Image Cross-Validation"
	case TypeBOMDocumentCross:
		return "BOM-Document Cross-Validation"
	case TypeImageDocumentCross:
		return "Image-Document Cross-Validation"
	default:
		return string(t)
	}
}

// Cross reports whether t is a cross-validation type.
func (t FindingType) Cross() bool {
	switch t {
	case TypeBOMImageCross, TypeBOMDocumentCross, TypeImageDocumentCross:
		return true
	}
	return false
}

// Finding is the unit of output from any detector. A finding is immutable once
// created; the consolidator removes consumed findings from their bucket by ID
// and appends new cross-type findings, it never mutates existing ones.
type Finding struct {
	// ID is assigned at creation and used by the consolidator to consume
	// findings without relying on value equality. It is process-local and
	// excluded from serialization so that identical runs serialize
	// identically.
	ID string `json:"-"`

	Type      FindingType `json:"type"`
	RiskLevel RiskLevel   `json:"risk_level"`

	// Category is the cross-validation join key: the BOM item's declared
	// category, the matched brand folder, or the matched reference document's
	// inferred category.
	Category string `json:"category"`

	// Subject is the item under evaluation: BOM product name, uploaded image
	// filename, or uploaded document identifier.
	Subject string `json:"subject"`

	// Company is the counterparty tied to the matched reference entry. May be
	// empty.
	Company string `json:"company,omitempty"`

	// Evidence names the matched reference entry (brand image file, reference
	// document id). Display only, like Explanation.
	Evidence string `json:"evidence,omitempty"`

	// Explanation is the display rationale. Never used for logic.
	Explanation string `json:"explanation"`
}

// NewFinding creates a finding with a fresh stable ID.
func NewFinding(t FindingType, level RiskLevel, category, subject string) Finding {
	return Finding{
		ID:        uuid.New().String(),
		Type:      t,
		RiskLevel: level,
		Category:  category,
		Subject:   subject,
	}
}
