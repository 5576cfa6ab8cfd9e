package entity

import (
	"net/url"
	"regexp"
	"strings"
)

// MaxTargetURLLength is the maximum length of a target URL, in bytes.
const MaxTargetURLLength = 2048

var codePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,20}$`)

// ValidateCode checks the syntax of a short code.
func ValidateCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return NewError(ErrValidation, "code is required", nil)
	}
	if !codePattern.MatchString(code) {
		return NewError(ErrValidation, "code must match [a-zA-Z0-9_-]{3,20}", nil)
	}
	return nil
}

// NormalizeTargetURL validates raw as an absolute http or https URL and returns its canonical form.
// The scheme and host are lower-cased and a bare-host URL gets a trailing slash.
func NormalizeTargetURL(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", NewError(ErrValidation, "url is required", nil)
	}
	if len(raw) > MaxTargetURLLength {
		return "", NewError(ErrValidation, "url too long", nil)
	}

	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		return "", NewError(ErrValidation, "url must be absolute", err)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", NewError(ErrValidation, "only http/https are allowed", nil)
	}
	if u.Host == "" {
		return "", NewError(ErrValidation, "url must have a host", nil)
	}

	u.Host = strings.ToLower(u.Host)
	if u.Path == "" && u.RawPath == "" {
		u.Path = "/"
	}

	normalized := u.String()
	if len(normalized) > MaxTargetURLLength {
		return "", NewError(ErrValidation, "url too long", nil)
	}

	return normalized, nil
}
