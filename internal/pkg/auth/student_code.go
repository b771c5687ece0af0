package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// StudentCodePrefix starts every student code
	StudentCodePrefix = "ACE-"
	studentCodeLength = 6
	studentCodeChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// CodeGenerator produces student codes.
type CodeGenerator interface {
	Generate() (string, error)
}

// RandomCodeGenerator draws codes from crypto/rand.
type RandomCodeGenerator struct{}

// Generate returns a code such as ACE-7K2Q9D.
func (RandomCodeGenerator) Generate() (string, error) {
	return GenerateStudentCode()
}

// GenerateStudentCode returns "ACE-" followed by six uppercase alphanumerics.
func GenerateStudentCode() (string, error) {
	buf := make([]byte, studentCodeLength)
	max := big.NewInt(int64(len(studentCodeChars)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate student code: %w", err)
		}
		buf[i] = studentCodeChars[n.Int64()]
	}
	return StudentCodePrefix + string(buf), nil
}
