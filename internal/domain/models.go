package domain

import (
	"time"

	"github.com/google/uuid"
)

// Client is a case record. Passport and SNILS data live only inside
// ExtractedData; diploma and certificate data are also promoted onto the
// client's own profile columns.
type Client struct {
	ID            uuid.UUID     `db:"id" json:"id"`
	FullName      string        `db:"full_name" json:"full_name"`
	Status        ClientStatus  `db:"status" json:"status"`
	ExtractedData ExtractedData `db:"extracted_data" json:"extracted_data"`
	Profile
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Profile holds the durable, flat profile attributes of a client.
type Profile struct {
	RegistrationPlace *string `db:"registration_place" json:"registration_place"`

	DiplomaSeries             *string `db:"diploma_series" json:"diploma_series"`
	DiplomaNumber             *string `db:"diploma_number" json:"diploma_number"`
	DiplomaRegNumber          *string `db:"diploma_reg_number" json:"diploma_reg_number"`
	DiplomaUniversityName     *string `db:"diploma_university_name" json:"diploma_university_name"`
	DiplomaUniversityLocation *string `db:"diploma_university_location" json:"diploma_university_location"`
	DiplomaSpecialty          *string `db:"diploma_specialty" json:"diploma_specialty"`
	DiplomaSpecialization     *string `db:"diploma_specialization" json:"diploma_specialization"`
	DiplomaQualification      *string `db:"diploma_qualification" json:"diploma_qualification"`
	DiplomaQualificationDate  *string `db:"diploma_qualification_date" json:"diploma_qualification_date"`
	DiplomaFormat             *string `db:"diploma_format" json:"diploma_format"`
	DiplomaFileURL            *string `db:"diploma_file_url" json:"diploma_file_url"`

	CertRegNumber      *string `db:"cert_reg_number" json:"cert_reg_number"`
	CertIssueDate      *string `db:"cert_issue_date" json:"cert_issue_date"`
	CertExpiryDate     *string `db:"cert_expiry_date" json:"cert_expiry_date"`
	CertCenterName     *string `db:"cert_center_name" json:"cert_center_name"`
	CertCenterLocation *string `db:"cert_center_location" json:"cert_center_location"`
	CertFileURL        *string `db:"cert_file_url" json:"cert_file_url"`
}

// Document is an uploaded file attached to a client.
type Document struct {
	ID           uuid.UUID `db:"id" json:"id"`
	ClientID     uuid.UUID `db:"client_id" json:"client_id"`
	OriginalName *string   `db:"original_name" json:"original_name"`
	FileURL      *string   `db:"file_url" json:"file_url"`
	MimeType     *string   `db:"mime_type" json:"mime_type"`
	Size         *int64    `db:"size" json:"size"`
	DocType      *DocType  `db:"doc_type" json:"doc_type"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ProfilePatch assigns profile columns by canonical field name. A nil value
// clears the column; a key that is absent leaves the column untouched.
type ProfilePatch map[string]*string

// ProfileColumns lists the profile attributes a patch may address.
var ProfileColumns = []string{
	FieldRegistrationPlace,
	FieldDiplomaSeries, FieldDiplomaNumber, FieldDiplomaRegNumber,
	FieldDiplomaUniversityName, FieldDiplomaUniversityLocation,
	FieldDiplomaSpecialty, FieldDiplomaSpecialization,
	FieldDiplomaQualification, FieldDiplomaQualificationDate,
	FieldDiplomaFormat, FieldDiplomaFileURL,
	FieldCertRegNumber, FieldCertIssueDate, FieldCertExpiryDate,
	FieldCertCenterName, FieldCertCenterLocation, FieldCertFileURL,
}

// IsProfileColumn reports whether name is a patchable profile attribute.
func IsProfileColumn(name string) bool {
	for _, c := range ProfileColumns {
		if c == name {
			return true
		}
	}
	return false
}
