package extract

import "casedesk/internal/domain"

// fieldAliases maps localized or variant labels seen in model output onto
// canonical field names.
var fieldAliases = map[string]string{
	"место_регистрации":                  domain.FieldRegistrationPlace,
	"место регистрации":                  domain.FieldRegistrationPlace,
	"регистрационный_номер_диплома":      domain.FieldDiplomaRegNumber,
	"регистрационный номер диплома":      domain.FieldDiplomaRegNumber,
	"регистрационный номер":              domain.FieldDiplomaRegNumber,
	"регистрационныйномер":               domain.FieldDiplomaRegNumber,
	"регистрационный_номер":              domain.FieldDiplomaRegNumber,
	"серия_диплома":                      domain.FieldDiplomaSeries,
	"серия диплома":                      domain.FieldDiplomaSeries,
	"номер_диплома":                      domain.FieldDiplomaNumber,
	"номер диплома":                      domain.FieldDiplomaNumber,
	"учебное_заведение":                  domain.FieldDiplomaUniversityName,
	"наименование учебного заведения":    domain.FieldDiplomaUniversityName,
	"университет":                        domain.FieldDiplomaUniversityName,
	"местонахождение_учебного_заведения": domain.FieldDiplomaUniversityLocation,
	"местонахождение учебного заведения": domain.FieldDiplomaUniversityLocation,
	"город":                               domain.FieldDiplomaUniversityLocation,
	"специальность":                       domain.FieldDiplomaSpecialty,
	"направление подготовки":              domain.FieldDiplomaSpecialty,
	"специализация":                       domain.FieldDiplomaSpecialization,
	"квалификация":                        domain.FieldDiplomaQualification,
	"дата_присвоения_квалификации":        domain.FieldDiplomaQualificationDate,
	"дата присвоения квалификации":        domain.FieldDiplomaQualificationDate,
	"дата выдачи диплома":                 domain.FieldDiplomaQualificationDate,
	"регистрационный_номер_свидетельства": domain.FieldCertRegNumber,
	"дата_выдачи_свидетельства":           domain.FieldCertIssueDate,
	"дата_окончания_срока":                domain.FieldCertExpiryDate,
	"центр_оценки_квалификаций":           domain.FieldCertCenterName,
	"местонахождение_центра":              domain.FieldCertCenterLocation,
}

// docTypeLabels maps localized doc_type labels (lowercased) to the enum.
// Labels not listed pass through unchanged.
var docTypeLabels = map[string]domain.DocType{
	"паспорт":       domain.DocTypePassport,
	"snils":         domain.DocTypeSNILS,
	"снилс":         domain.DocTypeSNILS,
	"диплом":        domain.DocTypeDiploma,
	"certificate":   domain.DocTypeCertificate,
	"свидетельство": domain.DocTypeCertificate,
}

// CanonicalField returns the canonical name for an alias label.
func CanonicalField(label string) (string, bool) {
	f, ok := fieldAliases[label]
	return f, ok
}
