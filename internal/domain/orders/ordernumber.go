package orders

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NumberGenerator produces human-readable order references. The HMAC tag
// makes the reference unguessable without the secret while staying short
// enough to read over the phone.
type NumberGenerator struct {
	secret string
}

func NewNumberGenerator(secret string) *NumberGenerator {
	return &NumberGenerator{secret: secret}
}

func (g *NumberGenerator) Generate(sessionID string) string {
	nonce := uuid.NewString()

	mac := hmac.New(sha256.New, []byte(g.secret))
	mac.Write([]byte(fmt.Sprintf("sid:%s|nonce:%s", sessionID, nonce)))

	sum := mac.Sum(nil)
	tag := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(sum)

	return fmt.Sprintf(
		"PAW-%s-%s",
		strings.ToUpper(tag[:4]),
		strings.ToUpper(uuid.NewString()[:4]),
	)
}
