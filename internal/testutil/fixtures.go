package testutil

import (
	"sync"
	"time"

	"github.com/yigit/acetrack/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

// TestSecret signs tokens in tests
const TestSecret = "test-secret"

// FastHasher hashes with the minimum bcrypt cost
func FastHasher() *auth.BcryptHasher {
	return &auth.BcryptHasher{Cost: bcrypt.MinCost}
}

// NewJWT returns a token service with a one hour lifetime
func NewJWT() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:      TestSecret,
		AccessTokenExp: time.Hour,
		TokenIssuer:    "acetrack-test",
	})
}

// SequenceCodes hands out the given student codes in order and then falls
// back to random codes.
type SequenceCodes struct {
	mu    sync.Mutex
	codes []string
	Calls int
}

// NewSequenceCodes creates a SequenceCodes
func NewSequenceCodes(codes ...string) *SequenceCodes {
	return &SequenceCodes{codes: codes}
}

// Generate implements auth.CodeGenerator
func (g *SequenceCodes) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Calls++
	if len(g.codes) == 0 {
		return auth.GenerateStudentCode()
	}
	code := g.codes[0]
	g.codes = g.codes[1:]
	return code, nil
}

// FixedClock returns a clock function stuck at t
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
