package validation

import (
	"regexp"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Email validation pattern, applied after trimming and lower-casing
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`

	// Student code pattern, e.g. ACE-7K2Q9D
	StudentCodePattern = `^ACE-[A-Z0-9]{6}$`

	// DateLayout is the calendar date format accepted by the API
	DateLayout = "2006-01-02"

	PasswordMinLength = 6

	NameMinLength = 1
	NameMaxLength = 255
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Email       *regexp.Regexp
	StudentCode *regexp.Regexp
}{
	Email:       regexp.MustCompile(EmailPattern),
	StudentCode: regexp.MustCompile(StudentCodePattern),
}

// IsEmail reports whether s is a normalized email address.
func IsEmail(s string) bool {
	return CompiledPatterns.Email.MatchString(s)
}

// IsStudentCode reports whether s is a well formed student code.
func IsStudentCode(s string) bool {
	return CompiledPatterns.StudentCode.MatchString(s)
}

// IsDate reports whether s is a YYYY-MM-DD calendar date.
func IsDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// RegisterCustomRules adds the project specific tags to gin's validator.
// It is safe to call more than once.
func RegisterCustomRules() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return Register(v)
}

// Register adds the custom tags to v.
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("datestr", func(fl validator.FieldLevel) bool {
		return IsDate(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("studentcode", func(fl validator.FieldLevel) bool {
		return IsStudentCode(fl.Field().String())
	})
}
