package loader

import (
	"testing"

	"github.com/jonathan/portfolio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_BareAndEnvelopeAgree(t *testing.T) {
	bare := `[{"id":1,"title":"Portfolio","technologies":["Go"],"features":[]}]`
	wrapped := `{"success":true,"data":` + bare + `,"message":"ok"}`

	fromBare, err := Decode[[]types.Project]([]byte(bare))
	require.NoError(t, err)
	fromEnvelope, err := Decode[[]types.Project]([]byte(wrapped))
	require.NoError(t, err)

	assert.Equal(t, fromBare, fromEnvelope)
	require.Len(t, fromBare, 1)
	assert.Equal(t, "Portfolio", fromBare[0].Title)
}

func TestDecode_BareObject(t *testing.T) {
	info, err := Decode[types.PersonalInfo]([]byte(`{"name":"Jane","title":"Engineer"}`))
	require.NoError(t, err)
	assert.Equal(t, "Jane", info.Name)
}

func TestDecode_EnvelopeWithObject(t *testing.T) {
	info, err := Decode[types.PersonalInfo]([]byte(`{"success":true,"data":{"name":"Jane"}}`))
	require.NoError(t, err)
	assert.Equal(t, "Jane", info.Name)
}

func TestDecode_DataWithoutSuccessFlag(t *testing.T) {
	skills, err := Decode[[]types.Skill]([]byte(`{"data":[{"name":"Go","category":"Backend"}]}`))
	require.NoError(t, err)
	assert.Len(t, skills, 1)
}

func TestDecode_UnsuccessfulEnvelope(t *testing.T) {
	_, err := Decode[[]types.Skill]([]byte(`{"success":false,"message":"database unavailable"}`))

	var envErr *EnvelopeError
	require.ErrorAs(t, err, &envErr)
	assert.Equal(t, "database unavailable", err.Error())
}

func TestDecode_UnsuccessfulEnvelopeWithoutMessage(t *testing.T) {
	_, err := Decode[[]types.Skill]([]byte(`{"success":false}`))
	require.Error(t, err)
	assert.Equal(t, "request was not successful", err.Error())
}

func TestDecode_NullData(t *testing.T) {
	skills, err := Decode[[]types.Skill]([]byte(`{"success":true,"data":null}`))
	require.NoError(t, err)
	assert.Empty(t, skills)
}

func TestDecode_EmptyArrayIsNotError(t *testing.T) {
	skills, err := Decode[[]types.Skill]([]byte(`{"success":true,"data":[]}`))
	require.NoError(t, err)
	assert.NotNil(t, skills)
	assert.Empty(t, skills)
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"whitespace", "   "},
		{"malformed", `{"success":true,`},
		{"wrong shape", `{"success":true,"data":{"name":"not a list"}}`},
		{"html", `<html>502 Bad Gateway</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode[[]types.Skill]([]byte(tt.body))
			var decErr *DecodeError
			assert.ErrorAs(t, err, &decErr)
		})
	}
}
