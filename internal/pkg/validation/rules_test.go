package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestPatterns(t *testing.T) {
	if !IsEmail("a@test.com") || IsEmail("A@Test.com") || IsEmail("not-an-email") {
		t.Fatalf("email pattern mismatch")
	}
	if !IsStudentCode("ACE-7K2Q9D") || IsStudentCode("ACE-7k2q9d") || IsStudentCode("ACE-123") {
		t.Fatalf("student code pattern mismatch")
	}
	if !IsDate("2025-02-28") || IsDate("2025-02-30") || IsDate("28/02/2025") {
		t.Fatalf("date check mismatch")
	}
}

func TestRegisterCustomTags(t *testing.T) {
	v := validator.New()
	if err := Register(v); err != nil {
		t.Fatalf("Register: %v", err)
	}

	type req struct {
		Start string `validate:"datestr"`
		Code  string `validate:"omitempty,studentcode"`
	}

	if err := v.Struct(req{Start: "2025-01-01", Code: "ACE-ZZZZZZ"}); err != nil {
		t.Fatalf("valid struct rejected: %v", err)
	}
	if err := v.Struct(req{Start: "2025-13-01"}); err == nil {
		t.Fatalf("invalid date accepted")
	}
}
