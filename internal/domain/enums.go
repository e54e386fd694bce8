package domain

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF: "application/pdf",
	FileTypeJPG: "image/jpeg",
	FileTypePNG: "image/png",
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}

// DocType discriminates the kind of recognized document.
type DocType string

const (
	DocTypePassport    DocType = "passport"
	DocTypeSNILS       DocType = "snils"
	DocTypeDiploma     DocType = "diploma"
	DocTypeCertificate DocType = "certificate"
	DocTypeUnknown     DocType = "unknown"
)

// DiplomaFormat records which historical diploma layout was recognized.
type DiplomaFormat string

const (
	DiplomaFormatOld DiplomaFormat = "old" // with a letter series
	DiplomaFormatNew DiplomaFormat = "new"
)

// ClientStatus is the case status. Values outside the known set are accepted.
type ClientStatus string

const (
	ClientStatusNew        ClientStatus = "new"
	ClientStatusInProgress ClientStatus = "in_progress"
	ClientStatusDone       ClientStatus = "done"
	ClientStatusRejected   ClientStatus = "rejected"
)

// UniqueField names a client attribute checked for uniqueness across clients.
type UniqueField string

const (
	UniquePassportNumber   UniqueField = "passport_number"
	UniqueDiplomaRegNumber UniqueField = "diploma_reg_number"
	UniqueCertRegNumber    UniqueField = "cert_reg_number"
)

// ParseUniqueField validates a field name from a request.
func ParseUniqueField(s string) (UniqueField, error) {
	switch f := UniqueField(s); f {
	case UniquePassportNumber, UniqueDiplomaRegNumber, UniqueCertRegNumber:
		return f, nil
	default:
		return "", ErrUnsupportedField
	}
}

// Canonical ExtractedData field names.
const (
	FieldDocType = "doc_type"

	FieldSurname    = "surname"
	FieldName       = "name"
	FieldPatronymic = "patronymic"
	FieldBirthDate  = "birth_date"

	FieldSeries            = "series"
	FieldNumber            = "number"
	FieldIssueDate         = "issue_date"
	FieldIssuer            = "issuer"
	FieldCode              = "code"
	FieldRegistrationPlace = "registration_place"

	FieldSNILSNumber = "snils_number"

	FieldDiplomaSeries             = "diploma_series"
	FieldDiplomaNumber             = "diploma_number"
	FieldDiplomaRegNumber          = "diploma_reg_number"
	FieldDiplomaUniversityName     = "diploma_university_name"
	FieldDiplomaUniversityLocation = "diploma_university_location"
	FieldDiplomaSpecialty          = "diploma_specialty"
	FieldDiplomaSpecialization     = "diploma_specialization"
	FieldDiplomaQualification      = "diploma_qualification"
	FieldDiplomaQualificationDate  = "diploma_qualification_date"
	FieldDiplomaFormat             = "diploma_format"
	FieldDiplomaFileURL            = "diploma_file_url"

	FieldCertRegNumber      = "cert_reg_number"
	FieldCertIssueDate      = "cert_issue_date"
	FieldCertExpiryDate     = "cert_expiry_date"
	FieldCertCenterName     = "cert_center_name"
	FieldCertCenterLocation = "cert_center_location"
	FieldCertFileURL        = "cert_file_url"
)
