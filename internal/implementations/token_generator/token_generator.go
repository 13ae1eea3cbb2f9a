package tokengenerator

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"usuario/internal/core/domain/token"
	"usuario/internal/core/domain/user"
)

const CODE_BYTES = 24
const SESSION_TOKEN_BYTES = 32

// Generator produces unguessable confirmation codes and session
// tokens from the OS random source.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) GenerateCode() token.Code {
	return token.Code(randomString(CODE_BYTES))
}

func (g *Generator) GenerateSessionToken() user.SessionToken {
	return user.SessionToken(randomString(SESSION_TOKEN_BYTES))
}

func randomString(byteCount int) string {
	b := make([]byte, byteCount)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("could not read random bytes: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
