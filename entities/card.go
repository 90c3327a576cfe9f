package entities

import "strings"

const maskedCardPrefix = "**** **** **** "

// MaskCardNumber returns a display form that keeps only the last four digits.
// Anything shorter than a real card number is masked completely.
func MaskCardNumber(cardNumber string) string {
	var digits strings.Builder
	for _, r := range cardNumber {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	d := digits.String()
	switch {
	case d == "":
		return ""
	case len(d) < 12:
		return "****"
	default:
		return maskedCardPrefix + d[len(d)-4:]
	}
}
