package models

import (
	"time"
)

// DocumentType classifies a compliance document within the QMS.
type DocumentType string

const (
	TypeQualityManual      DocumentType = "Quality Manual"
	TypeRiskAnalysis       DocumentType = "Risk Analysis"
	TypeDesignControl      DocumentType = "Design Control"
	TypeSoftwareValidation DocumentType = "Software Validation"
	TypeUserManual         DocumentType = "User Manual"
	TypeTechnicalFile      DocumentType = "Technical File"
	TypeClinicalEvaluation DocumentType = "Clinical Evaluation"
	TypeCustom             DocumentType = "Custom Document"
)

// DocumentTypes lists every known type in display order.
var DocumentTypes = []DocumentType{
	TypeQualityManual,
	TypeRiskAnalysis,
	TypeDesignControl,
	TypeSoftwareValidation,
	TypeUserManual,
	TypeTechnicalFile,
	TypeClinicalEvaluation,
	TypeCustom,
}

// Valid returns true if t is one of the known document types.
func (t DocumentType) Valid() bool {
	for _, known := range DocumentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Document is a compliance artifact managed by the document store.
// WordCount is derived from Content on every write; UpdatedAt is refreshed
// on every content-affecting write. ID is immutable and unique in the store.
type Document struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Content   string       `json:"content"` // markdown
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Type      DocumentType `json:"type"`
	Version   string       `json:"version"`
	WordCount int          `json:"word_count"`
}
