// src/security/validation/file_validation_test.go
package validation

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateClientContentType(t *testing.T) {
	for _, ok := range []string{"text/csv", "TEXT/CSV", "application/csv", "application/vnd.ms-excel", "text/plain"} {
		assert.NoError(t, ValidateClientContentType(ok), ok)
	}
	for _, bad := range []string{
		"application/pdf",
		"application/octet-stream",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"",
	} {
		assert.Error(t, ValidateClientContentType(bad), bad)
	}
}

func TestValidateFileContentCSVText(t *testing.T) {
	reader := bytes.NewReader([]byte("CODIGO_CONTABLE,TIPO,SALDO\n51,5,1000.00\n"))

	detected, err := ValidateFileContentByMagicBytes(reader)
	require.NoError(t, err)
	assert.Equal(t, "text/plain", detected)
}

func TestValidateFileContentResetsReader(t *testing.T) {
	content := []byte("CODIGO_CONTABLE,TIPO\n51,5\n")
	reader := bytes.NewReader(content)

	_, err := ValidateFileContentByMagicBytes(reader)
	require.NoError(t, err)

	// The parser that runs afterwards must see the file from the start.
	all, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, content, all)
}

func TestValidateFileContentRejectsBinary(t *testing.T) {
	reader := bytes.NewReader([]byte("PK\x03\x04\x00\x00binary payload"))

	detected, err := ValidateFileContentByMagicBytes(reader)
	assert.Error(t, err)
	assert.Equal(t, "application/octet-stream", detected)
}

func TestValidateFileContentRejectsInvalidUTF8(t *testing.T) {
	reader := bytes.NewReader([]byte{0xff, 0xfe, 0x41, 0x42})

	_, err := ValidateFileContentByMagicBytes(reader)
	assert.Error(t, err)
}

func TestValidateFileContentRejectsHTML(t *testing.T) {
	reader := bytes.NewReader([]byte("<html><body><p>not an extract</p></body></html>"))

	_, err := ValidateFileContentByMagicBytes(reader)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "text/html")
}

func TestValidateFileContentRejectsEmpty(t *testing.T) {
	reader := bytes.NewReader(nil)

	_, err := ValidateFileContentByMagicBytes(reader)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestValidateFileContentNilReader(t *testing.T) {
	_, err := ValidateFileContentByMagicBytes(nil)
	assert.Error(t, err)
}
