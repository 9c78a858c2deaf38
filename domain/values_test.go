package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProblem_Length(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "empty", raw: "", wantErr: true},
		{name: "whitespace only", raw: " \t\n ", wantErr: true},
		{name: "one below minimum", raw: strings.Repeat("a", ProblemMinLength-1), wantErr: true},
		{name: "minimum", raw: strings.Repeat("a", ProblemMinLength)},
		{name: "maximum", raw: strings.Repeat("a", ProblemMaxLength)},
		{name: "one above maximum", raw: strings.Repeat("a", ProblemMaxLength+1), wantErr: true},
		{name: "padding does not count", raw: "   " + strings.Repeat("b", ProblemMinLength) + "   "},
		{name: "padding cannot reach minimum", raw: strings.Repeat(" ", 10) + strings.Repeat("b", ProblemMinLength-1), wantErr: true},
		{name: "runes not bytes", raw: strings.Repeat("ж", ProblemMinLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, err := NewProblem(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsDomainError(err, ErrCodeInvalid))
				assert.True(t, p.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, strings.TrimSpace(tt.raw), p.String())
		})
	}
}

func TestNewPersonaAndStrategy(t *testing.T) {
	t.Parallel()

	_, err := NewPersona("  ")
	assert.Error(t, err)
	_, err = NewPersona(strings.Repeat("p", personaMaxLength+1))
	assert.Error(t, err)
	persona, err := NewPersona(" Busy parents ")
	require.NoError(t, err)
	assert.Equal(t, "Busy parents", persona.String())

	_, err = NewStrategy("")
	assert.Error(t, err)
	_, err = NewStrategy(strings.Repeat("s", strategyMaxLength+1))
	assert.Error(t, err)
	strategy, err := NewStrategy("Community events")
	require.NoError(t, err)
	assert.False(t, strategy.IsZero())
}

func TestParseEnums(t *testing.T) {
	t.Parallel()

	region, err := ParseRegion(" Europe ")
	require.NoError(t, err)
	assert.Equal(t, RegionEurope, region)

	stage, err := ParseStage("MVP")
	require.NoError(t, err)
	assert.Equal(t, StageMVP, stage)

	pt, err := ParseProductType("mobile_app")
	require.NoError(t, err)
	assert.Equal(t, ProductMobileApp, pt)

	status, err := ParseEvaluationStatus("requires_changes")
	require.NoError(t, err)
	assert.Equal(t, EvaluationRequiresChanges, status)

	_, err = ParseRegion("mars")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "region")
	assert.Equal(t, ErrCodeInvalid, CodeOf(err))
}
