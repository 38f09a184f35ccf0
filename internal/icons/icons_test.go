package icons

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		want Icon
	}{
		{"github", GitHub},
		{"  GitHub ", GitHub},
		{"FaGithub", GitHub},
		{"SiMongodb", Database},
		{"react", Code},
		{"aws", Cloud},
		{"", Unknown},
		{"no-such-icon", Unknown},
		{"fa", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Lookup(tt.name))
		})
	}
}

func TestIcon_NeverRendersNothing(t *testing.T) {
	for i := Unknown; i <= Certificate; i++ {
		assert.NotEmpty(t, i.Glyph(), i.String())
		assert.NotEmpty(t, i.String())
	}

	outOfRange := Icon(999)
	assert.Equal(t, "unknown", outOfRange.String())
	assert.Equal(t, Unknown.Glyph(), outOfRange.Glyph())
}
