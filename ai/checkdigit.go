package ai

// ValidCheckDigit reports whether the last digit of s is the GS1 mod-10 check
// digit of the digits before it. It applies to GTIN, SSCC, GLN and GSRN keys.
func ValidCheckDigit(s string) bool {
	if len(s) < 2 || !isDigits(s) {
		return false
	}
	return CheckDigit(s[:len(s)-1]) == int(s[len(s)-1]-'0')
}

// CheckDigit computes the GS1 mod-10 check digit for a string of digits that
// does not include it. It returns -1 if s holds a non-digit.
func CheckDigit(s string) int {
	sum := 0
	for i := len(s) - 1; i >= 0; i -= 2 {
		d := int(s[i]) - '0'
		if d < 0 || d > 9 {
			return -1
		}
		sum += d
	}
	sum *= 3
	for i := len(s) - 2; i >= 0; i -= 2 {
		d := int(s[i]) - '0'
		if d < 0 || d > 9 {
			return -1
		}
		sum += d
	}
	return (1000 - sum) % 10
}
