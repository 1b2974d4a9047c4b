package utils

import (
	"fmt"
	"strings"
)

// FormatAccountNumber renders a sequence value as an account number:
// "EB" + zero-padded sequence + Luhn check digit. Because the input comes
// from a monotonic sequence the result is unique by construction, with no
// collision window under concurrent account creation.
func FormatAccountNumber(seq int64) string {
	body := fmt.Sprintf("%010d", seq)
	return "EB" + body + luhnCheckDigit(body)
}

// ValidateAccountNumber checks the shape and check digit of an account number.
func ValidateAccountNumber(accountNumber string) bool {
	if len(accountNumber) != 13 || !strings.HasPrefix(accountNumber, "EB") {
		return false
	}
	digits := accountNumber[2:12]
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return luhnCheckDigit(digits) == accountNumber[12:]
}

// luhnCheckDigit computes the Luhn check digit for a numeric string.
func luhnCheckDigit(digits string) string {
	sum := 0
	double := true
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return fmt.Sprintf("%d", (10-sum%10)%10)
}
