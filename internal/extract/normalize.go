package extract

import (
	"strings"

	"casedesk/internal/domain"
)

// diplomaIdentifyingFields mark a document as a diploma when doc_type is missing.
var diplomaIdentifyingFields = []string{
	domain.FieldDiplomaSeries,
	domain.FieldDiplomaNumber,
	domain.FieldDiplomaRegNumber,
	domain.FieldDiplomaUniversityName,
}

// Normalize maps a decoded model object onto the canonical schema: alias
// resolution, doc_type inference and diploma number cleanup. The input is not
// modified. Keys no rule touches are carried over unchanged.
func Normalize(raw *domain.ExtractedData) *domain.ExtractedData {
	out := raw.Clone()

	applyAliases(raw, out)
	out.Set(domain.FieldDocType, domain.String(string(resolveDocType(out))))

	if DocTypeOf(out) == domain.DocTypeDiploma {
		normalizeDiploma(out)
	}
	return out
}

// applyAliases copies aliased values onto canonical keys that are not already
// present. Direct keys always win; among aliases the first one seen wins.
func applyAliases(raw, out *domain.ExtractedData) {
	raw.Range(func(key string, v domain.Value) bool {
		canonical, ok := fieldAliases[strings.TrimSpace(key)]
		if ok && !out.Has(canonical) {
			out.Set(canonical, v)
		}
		return true
	})
}

func resolveDocType(d *domain.ExtractedData) domain.DocType {
	label := ""
	if v, ok := d.Get(domain.FieldDocType); ok {
		label = strings.ToLower(strings.TrimSpace(v.Text()))
	}
	if label != "" && label != string(domain.DocTypeUnknown) {
		if dt, ok := docTypeLabels[label]; ok {
			return dt
		}
		return domain.DocType(label)
	}
	return inferDocType(d)
}

func inferDocType(d *domain.ExtractedData) domain.DocType {
	if truthy(d, domain.FieldSNILSNumber) {
		return domain.DocTypeSNILS
	}
	for _, f := range diplomaIdentifyingFields {
		if truthy(d, f) {
			return domain.DocTypeDiploma
		}
	}
	if truthy(d, domain.FieldCertRegNumber) || truthy(d, domain.FieldCertCenterName) {
		return domain.DocTypeCertificate
	}
	return domain.DocTypePassport
}

func truthy(d *domain.ExtractedData, key string) bool {
	v, ok := d.Get(key)
	return ok && v.Truthy()
}

// DocTypeOf returns the doc_type recorded in d, or "" when absent.
func DocTypeOf(d *domain.ExtractedData) domain.DocType {
	return domain.DocType(d.Text(domain.FieldDocType))
}
