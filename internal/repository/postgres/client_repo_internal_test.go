package postgres

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casedesk/internal/domain"
)

func TestBuildProfileUpdate(t *testing.T) {
	id := uuid.New()
	data := domain.ExtractedDataFromStrings("doc_type", "diploma")
	patch := domain.ProfilePatch{
		domain.FieldDiplomaSeries:    domain.StringPtr("АБ"),
		domain.FieldDiplomaRegNumber: nil,
	}

	query, args, err := buildProfileUpdate(id, data, patch)

	require.NoError(t, err)
	assert.Equal(t,
		"UPDATE clients SET updated_at = $1, extracted_data = $2, diploma_reg_number = $3, diploma_series = $4 WHERE id = $5",
		query)
	require.Len(t, args, 5)
	assert.Same(t, data, args[1])
	assert.Nil(t, args[2])
	assert.Equal(t, "АБ", *args[3].(*string))
	assert.Equal(t, id, args[4])
}

func TestBuildProfileUpdate_WithoutExtractedData(t *testing.T) {
	query, args, err := buildProfileUpdate(uuid.New(), nil, domain.ProfilePatch{
		domain.FieldCertFileURL: domain.StringPtr("clients/1/c.pdf"),
	})

	require.NoError(t, err)
	assert.Equal(t, "UPDATE clients SET updated_at = $1, cert_file_url = $2 WHERE id = $3", query)
	assert.Len(t, args, 3)
}

func TestBuildProfileUpdate_RejectsUnknownColumn(t *testing.T) {
	_, _, err := buildProfileUpdate(uuid.New(), nil, domain.ProfilePatch{"id = id; --": nil})

	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
