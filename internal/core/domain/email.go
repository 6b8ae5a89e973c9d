package domain

import "strings"

const (
	maxEmailLength  = 254
	maxLocalLength  = 64
	maxDomainLength = 253
	minTLDLength    = 2
)

// ValidateEmail performs a syntactic check of an address. It does not resolve
// the domain. Returns ErrInvalidEmail on any violation.
func ValidateEmail(email string) error {
	if email == "" || len(email) > maxEmailLength {
		return ErrInvalidEmail
	}
	if strings.Count(email, "@") != 1 {
		return ErrInvalidEmail
	}
	if strings.Contains(email, "..") {
		return ErrInvalidEmail
	}

	local, host, _ := strings.Cut(email, "@")
	if !validLocalPart(local) || !validDomain(host) {
		return ErrInvalidEmail
	}
	return nil
}

func validLocalPart(local string) bool {
	if local == "" || len(local) > maxLocalLength {
		return false
	}
	if local[0] == '.' || local[len(local)-1] == '.' {
		return false
	}
	for _, r := range local {
		if isAlnum(r) || strings.ContainsRune(".!#$%&'*+/=?^_`{|}~-", r) {
			continue
		}
		return false
	}
	return true
}

func validDomain(host string) bool {
	if host == "" || len(host) > maxDomainLength {
		return false
	}
	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if label == "" || label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for _, r := range label {
			if !isAlnum(r) && r != '-' {
				return false
			}
		}
	}

	tld := labels[len(labels)-1]
	if len(tld) < minTLDLength {
		return false
	}
	for _, r := range tld {
		if !isLetter(r) {
			return false
		}
	}
	return true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isAlnum(r rune) bool {
	return isLetter(r) || (r >= '0' && r <= '9')
}
