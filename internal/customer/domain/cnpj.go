package domain

import "strings"

var cnpjWeights = [13]int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}

// NormalizeCNPJ strips formatting and validates the check digits. Returns
// the bare 14-digit form.
func NormalizeCNPJ(raw string) (string, error) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	cnpj := digits.String()
	if len(cnpj) != 14 {
		return "", ErrInvalidCNPJ
	}
	if allSame(cnpj) {
		return "", ErrInvalidCNPJ
	}
	if cnpj[12] != cnpjCheckDigit(cnpj, 12) || cnpj[13] != cnpjCheckDigit(cnpj, 13) {
		return "", ErrInvalidCNPJ
	}
	return cnpj, nil
}

func cnpjCheckDigit(cnpj string, position int) byte {
	sum := 0
	offset := 13 - position
	for i := 0; i < position; i++ {
		sum += int(cnpj[i]-'0') * cnpjWeights[i+offset]
	}
	rest := sum % 11
	if rest < 2 {
		return '0'
	}
	return byte('0' + 11 - rest)
}

func allSame(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}
