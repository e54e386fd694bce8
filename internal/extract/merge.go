package extract

import (
	"casedesk/internal/domain"
)

// profileFamilies lists, per document type, the canonical fields that are
// promoted onto the client profile. Passport data other than the registration
// place and all SNILS data stay in the extracted map only.
var profileFamilies = map[domain.DocType][]string{
	domain.DocTypePassport: {
		domain.FieldRegistrationPlace,
	},
	domain.DocTypeDiploma: {
		domain.FieldDiplomaSeries,
		domain.FieldDiplomaNumber,
		domain.FieldDiplomaRegNumber,
		domain.FieldDiplomaUniversityName,
		domain.FieldDiplomaUniversityLocation,
		domain.FieldDiplomaSpecialty,
		domain.FieldDiplomaSpecialization,
		domain.FieldDiplomaQualification,
		domain.FieldDiplomaQualificationDate,
		domain.FieldDiplomaFormat,
	},
	domain.DocTypeCertificate: {
		domain.FieldCertRegNumber,
		domain.FieldCertIssueDate,
		domain.FieldCertExpiryDate,
		domain.FieldCertCenterName,
		domain.FieldCertCenterLocation,
	},
}

// fileURLFields names the profile column holding the source file per type.
var fileURLFields = map[domain.DocType]string{
	domain.DocTypeDiploma:     domain.FieldDiplomaFileURL,
	domain.DocTypeCertificate: domain.FieldCertFileURL,
}

// ProfileFields returns the profile-promoted fields for docType.
func ProfileFields(docType domain.DocType) []string {
	return profileFamilies[docType]
}

// Merge overlays fresh onto stored: every key of fresh wins, keys only in
// stored are kept. The returned patch carries the fields of docType's family
// that are present in fresh; an explicit null clears the column.
func Merge(stored, fresh *domain.ExtractedData, docType domain.DocType) (*domain.ExtractedData, domain.ProfilePatch) {
	merged := stored.Clone()
	fresh.Range(func(k string, v domain.Value) bool {
		merged.Set(k, v)
		return true
	})
	return merged, BuildPatch(fresh, docType)
}

// BuildPatch selects docType's profile family from data.
func BuildPatch(data *domain.ExtractedData, docType domain.DocType) domain.ProfilePatch {
	patch := domain.ProfilePatch{}
	for _, f := range profileFamilies[docType] {
		v, ok := data.Get(f)
		if !ok {
			continue
		}
		if v.IsNull() {
			patch[f] = nil
			continue
		}
		patch[f] = domain.StringPtr(v.Text())
	}
	return patch
}

// AttachFileURL records fileURL as the source document for docType when the
// profile has none yet. It reports whether the patch changed.
func AttachFileURL(patch domain.ProfilePatch, profile domain.Profile, docType domain.DocType, fileURL string) bool {
	field, ok := fileURLFields[docType]
	if !ok || fileURL == "" {
		return false
	}
	var current *string
	switch field {
	case domain.FieldDiplomaFileURL:
		current = profile.DiplomaFileURL
	case domain.FieldCertFileURL:
		current = profile.CertFileURL
	}
	if domain.Deref(current) != "" {
		return false
	}
	patch[field] = domain.StringPtr(fileURL)
	return true
}
