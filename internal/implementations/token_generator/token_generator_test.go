package tokengenerator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodesAreUnique(t *testing.T) {
	g := NewGenerator()
	seen := make(map[string]struct{})
	for ix := 0; ix < 1000; ix++ {
		code := string(g.GenerateCode())
		_, duplicate := seen[code]
		assert.False(t, duplicate)
		seen[code] = struct{}{}
	}
}

func TestCodeIsUrlSafe(t *testing.T) {
	g := NewGenerator()
	code := string(g.GenerateCode())
	assert.NotEmpty(t, code)
	for _, r := range code {
		isUrlSafe := r == '-' || r == '_' ||
			(r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9')
		assert.True(t, isUrlSafe)
	}
}

func TestSessionTokensAreUnique(t *testing.T) {
	g := NewGenerator()
	first := g.GenerateSessionToken()
	second := g.GenerateSessionToken()
	assert.NotEqual(t, first, second)
}
