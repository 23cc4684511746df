package bot

import "strings"

// Validation for the free-form steps. Name and transaction id are accepted
// unconditionally and have no validator.

func IsValidEmail(email, domain string) bool {
	return strings.HasSuffix(email, domain)
}

// IsValidPhoneNumber reports whether phone is exactly digits ASCII digits.
// No normalization: "+", spaces and separators all fail the check.
func IsValidPhoneNumber(phone string, digits int) bool {
	if len(phone) != digits {
		return false
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func IsValidPaymentMethod(method string, allowed []string) bool {
	for _, m := range allowed {
		if method == m {
			return true
		}
	}
	return false
}
