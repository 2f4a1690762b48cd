package llm

import (
	"medidoc/internal/domain/models"
)

// typePreambles gives the model regulatory context for the document type
// being edited. Unknown types fall back to the generic preamble.
var typePreambles = map[models.DocumentType]string{
	models.TypeQualityManual: "The document is a Quality Manual for a medical device " +
		"Quality Management System. Follow ISO 13485:2016 structure and terminology.",
	models.TypeRiskAnalysis: "The document is a Risk Analysis report. Follow ISO 14971:2019 " +
		"risk management terminology: hazards, harms, severity, probability, risk controls.",
	models.TypeDesignControl: "The document is a Design Control document. Follow FDA 21 CFR 820.30 " +
		"and ISO 13485:2016 clause 7.3: design inputs, outputs, verification, validation, transfer.",
	models.TypeSoftwareValidation: "The document is a Software Validation document. Follow IEC 62304 " +
		"software life cycle terminology and keep validation activities traceable to requirements.",
	models.TypeUserManual: "The document is a User Manual (instructions for use) for a medical " +
		"device. Keep language clear for the intended user and include warnings where relevant.",
	models.TypeTechnicalFile: "The document is a Technical File for EU MDR conformity. Keep the " +
		"structure aligned with Annex II and III of Regulation (EU) 2017/745.",
	models.TypeClinicalEvaluation: "The document is a Clinical Evaluation report. Follow MEDDEV 2.7/1 " +
		"rev 4 structure for clinical evidence and literature evaluation.",
}

const genericPreamble = "The document is a regulatory compliance document for a medical device."

// preambleFor returns the type-specific context line.
func preambleFor(t models.DocumentType) string {
	if p, ok := typePreambles[t]; ok {
		return p
	}
	return genericPreamble
}
