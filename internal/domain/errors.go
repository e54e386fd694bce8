package domain

import "errors"

var (
	ErrNotFound                  = errors.New("resource not found")
	ErrUnauthorized              = errors.New("unauthorized")
	ErrClientNotFound            = errors.New("client not found")
	ErrDocumentNotFound          = errors.New("document not found")
	ErrInvalidInput              = errors.New("invalid input")
	ErrUnsupportedField          = errors.New("unsupported field")
	ErrUnsupportedFileType       = errors.New("unsupported file type")
	ErrFileTooLarge              = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed              = errors.New("file upload to storage failed")
	ErrFileFetch                 = errors.New("cannot fetch file for recognition")
	ErrDuplicatePassportNumber   = errors.New("duplicate passport number")
	ErrDuplicateDiplomaRegNumber = errors.New("duplicate diploma registration number")
	ErrDuplicateCertRegNumber    = errors.New("duplicate certificate registration number")
)
