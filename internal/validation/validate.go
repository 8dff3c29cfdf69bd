// Package validation checks the shape of a profile payload against a fixed,
// ordered rule set. Only the first violated rule is reported.
package validation

import (
	"regexp"
	"strings"

	"github.com/whoami1432/voosh-authentication/internal/models"
)

// Result is the outcome of validating a payload. Valid is true when every
// rule passed; otherwise Message holds the first violated rule's text.
type Result struct {
	Valid   bool
	Message string
}

// FallbackMessage is reported when a rule fails without a specific message.
const FallbackMessage = "Missing required Field"

var (
	bioPattern      = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	allowedTLDs     = map[string]bool{"com": true, "net": true}
	usernameMinLen  = 8
	usernameMaxLen  = 30
	passwordMinLen  = 6
	phoneMinValue   = int64(10)
	minDomainLabels = 2
)

func ok() Result {
	return Result{Valid: true}
}

func fail(msg string) Result {
	if msg == "" {
		msg = FallbackMessage
	}
	return Result{Message: msg}
}

// ValidateProfile runs the rule set in order: username, password,
// repeatPassword, bio, phone, email, photo, profileType.
func ValidateProfile(req *models.ProfileRequest) Result {
	if req == nil {
		return fail(FallbackMessage)
	}

	if req.Username == nil {
		return fail("Username is required")
	}
	if !isAlphanumeric(*req.Username) {
		return fail("Username must only contain alphanumeric characters")
	}
	if n := len(*req.Username); n < usernameMinLen || n > usernameMaxLen {
		return fail("Username must be between 8 and 30 characters")
	}

	if req.Password == nil {
		return fail("password is required")
	}
	if len(*req.Password) < passwordMinLen {
		return fail("Password length must be at least 6 characters")
	}

	if req.RepeatPassword == nil {
		return fail("Repeat password is required")
	}
	if *req.RepeatPassword != *req.Password {
		return fail("Passwords do not match")
	}

	if req.Bio == nil || !bioPattern.MatchString(*req.Bio) {
		return fail("Bio-Data is required")
	}

	if req.Phone == nil {
		return fail("Phone is required")
	}
	if *req.Phone < phoneMinValue {
		return fail("Phone must be greater than or equal to 10")
	}

	if req.Email == nil {
		return fail("Email is required")
	}
	if !isValidEmail(*req.Email) {
		return fail("Email must be a valid email")
	}

	if req.Photo == nil || *req.Photo == "" {
		return fail("Photo is required")
	}

	if req.ProfileType == nil || *req.ProfileType == "" {
		return fail("Profile type is required")
	}

	return ok()
}

func isAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}

// isValidEmail accepts addresses with a non-empty local part and a domain of
// at least two labels ending in an allowed top-level domain.
func isValidEmail(s string) bool {
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	local, domain := s[:at], s[at+1:]
	if strings.ContainsAny(local, " \t") {
		return false
	}
	labels := strings.Split(domain, ".")
	if len(labels) < minDomainLabels {
		return false
	}
	for _, l := range labels {
		if l == "" {
			return false
		}
	}
	return allowedTLDs[strings.ToLower(labels[len(labels)-1])]
}
