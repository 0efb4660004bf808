package codegen

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMarker(t *testing.T) {
	m, err := ParseMarker("//nibel:external-entry type=fragment destination=nav.D result=R", token.Position{})
	require.NoError(t, err)
	assert.Equal(t, MarkerExternalEntry, m.Kind)
	assert.Equal(t, map[string]string{"type": "fragment", "destination": "nav.D", "result": "R"}, m.Args)
	assert.Equal(t, "//nibel:external-entry destination=nav.D result=R type=fragment", m.String())

	m, err = ParseMarker("//nibel:composable", token.Position{})
	require.NoError(t, err)
	assert.Equal(t, MarkerComposable, m.Kind)
	assert.False(t, m.Kind.Navigation())
}

func TestParseMarkerErrors(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"// nibel:entry", "not a nibel directive"},
		{"//nibel:", "empty"},
		{"//nibel:screen", "unknown directive"},
		{"//nibel:entry type", "malformed argument"},
		{"//nibel:entry type=", "malformed argument"},
		{"//nibel:entry destination=D", `unknown argument "destination"`},
		{"//nibel:legacy-entry type=fragment", `unknown argument "type"`},
		{"//nibel:entry type=composable type=fragment", "given twice"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			_, err := ParseMarker(tt.text, token.Position{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestMarkerKinds(t *testing.T) {
	assert.True(t, MarkerLegacyExternalEntry.External())
	assert.True(t, MarkerLegacyExternalEntry.Legacy())
	assert.False(t, MarkerEntry.External())
	assert.Equal(t, []string{"args", "result"}, MarkerEntry.TypeArgs())
	assert.Equal(t, []string{"destination", "result"}, MarkerExternalEntry.TypeArgs())
	assert.Nil(t, MarkerComposable.TypeArgs())
}
