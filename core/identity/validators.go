package identity

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/elimuhub/elimu/core"
)

// password policy
var (
	pwdMinLen     = 8
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)

	pwdNoSpaceText   = "password must not contain whitespace"
	pwdNotAllNumText = "password cannot be entirely numeric"

	pwdMaxSim      = .7
	pwdAttrSimText = "password cannot be similar to account attributes"
)

// ValidatePassword applies the sign-up password policy:
// - minLen: 8
// - no whitespace
// - not all numeric
// - no similarity to name or email
func ValidatePassword(pwd string, attrs ...string) error {
	reportErr := func(text string) error {
		return core.NewValidationError(nil, core.FieldError{Field: "password", Error: text})
	}

	if len(pwd) < pwdMinLen {
		return reportErr(pwdMinLenText)
	}

	var digitCount int
	for _, char := range []rune(pwd) {
		if unicode.IsSpace(char) {
			return reportErr(pwdNoSpaceText)
		}
		if unicode.IsDigit(char) {
			digitCount++
		}
	}
	if digitCount == len(pwd) {
		return reportErr(pwdNotAllNumText)
	}

	getRatio := func(pass, attr string) float64 {
		if attr == "" {
			return 0
		}
		return difflib.NewMatcher(strings.Split(pass, ""), strings.Split(attr, "")).QuickRatio()
	}
	lpwd := strings.ToLower(pwd)
	for _, attr := range attrs {
		if getRatio(lpwd, strings.ToLower(attr)) >= pwdMaxSim {
			return reportErr(pwdAttrSimText)
		}
	}
	return nil
}
