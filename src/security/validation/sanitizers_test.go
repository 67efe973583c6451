// src/security/validation/sanitizers_test.go
package validation

import (
	"os"
	"testing"

	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

func TestSanitizeForFormulaInjection(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"equals prefix", "=SUM(A1:A2)", "'=SUM(A1:A2)"},
		{"plus prefix", "+1234", "'+1234"},
		{"minus prefix", "-1234", "'-1234"},
		{"at prefix", "@cmd", "'@cmd"},
		{"tab prefix", "\tdata", "'\tdata"},
		{"leading spaces before trigger", "  =SUM(A1)", "'  =SUM(A1)"},
		{"plain text", "Octubre", "Octubre"},
		{"plain number", "1234.56", "1234.56"},
		{"empty", "", ""},
		{"only spaces", "   ", "   "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeForFormulaInjection(tt.in))
		})
	}
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "Enero", SanitizeText("<b>Enero</b>"))
	assert.Equal(t, "", SanitizeText("<script>alert(1)</script>"))
}

func TestStripUnprintable(t *testing.T) {
	assert.Equal(t, "Enero", StripUnprintable("En\x00er\x1bo"))
	// Common whitespace survives.
	assert.Equal(t, "a\tb\nc", StripUnprintable("a\tb\nc"))
}

func TestSanitizePeriodLabel(t *testing.T) {
	assert.Equal(t, "Enero", SanitizePeriodLabel("  Enero  "))
	assert.Equal(t, "Enero", SanitizePeriodLabel("<i>Enero</i>\x00"))
}

func TestValidatePeriodLabel(t *testing.T) {
	for _, ok := range []string{"Enero", "Enero 2024", "Periodo_1", "Año-2024", "Noviembre"} {
		assert.NoError(t, ValidatePeriodLabel(ok), ok)
	}
	for _, bad := range []string{"", "   ", "=SUM(A1)", "Enero;DROP TABLE", "Enero/2024", "a<b"} {
		err := ValidatePeriodLabel(bad)
		require.Error(t, err, bad)
		assert.ErrorIs(t, err, ErrValidationFailed)
	}
}

func TestValidatePeriodLabelLength(t *testing.T) {
	long := make([]byte, MaxPeriodLabelLength+1)
	for i := range long {
		long[i] = 'a'
	}
	assert.ErrorIs(t, ValidatePeriodLabel(string(long)), ErrValidationFailed)
}

func TestCheckFormulaInjection(t *testing.T) {
	assert.Error(t, CheckFormulaInjection("=SUM(A1)", "period", "test"))
	assert.Error(t, CheckFormulaInjection("  =SUM(A1)", "period", "test"))
	assert.NoError(t, CheckFormulaInjection("Enero", "period", "test"))
}

func TestCheckXSSPatterns(t *testing.T) {
	assert.Error(t, CheckXSSPatterns("<script>alert(1)</script>", "period", "test"))
	assert.Error(t, CheckXSSPatterns("javascript:alert(1)", "period", "test"))
	assert.NoError(t, CheckXSSPatterns("Enero 2024", "period", "test"))
}
