package forms

import (
	"fmt"
	"strings"
	"unicode"
)

// DigitsOnly strips everything that is not an ASCII digit.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatPhone formats a Brazilian mobile or landline number as
// "(dd) ddddd-dddd" / "(dd) dddd-dddd". Incomplete input is returned
// unchanged so the user can keep typing.
func FormatPhone(value string) string {
	digits := DigitsOnly(value)
	switch len(digits) {
	case 11:
		return fmt.Sprintf("(%s) %s-%s", digits[:2], digits[2:7], digits[7:])
	case 10:
		return fmt.Sprintf("(%s) %s-%s", digits[:2], digits[2:6], digits[6:])
	default:
		return value
	}
}

// FormatCEP formats an 8-digit postal code as "ddddd-ddd".
func FormatCEP(value string) string {
	digits := DigitsOnly(value)
	if len(digits) == 8 {
		return digits[:5] + "-" + digits[5:]
	}
	return value
}

// FormatCPF formats an 11-digit CPF as "ddd.ddd.ddd-dd".
func FormatCPF(value string) string {
	digits := DigitsOnly(value)
	if len(digits) == 11 {
		return fmt.Sprintf("%s.%s.%s-%s", digits[:3], digits[3:6], digits[6:9], digits[9:])
	}
	return value
}

// FormatCNPJ formats a 14-digit CNPJ as "dd.ddd.ddd/dddd-dd".
func FormatCNPJ(value string) string {
	digits := DigitsOnly(value)
	if len(digits) == 14 {
		return fmt.Sprintf("%s.%s.%s/%s-%s", digits[:2], digits[2:5], digits[5:8], digits[8:12], digits[12:])
	}
	return value
}

// FormatTaxID picks the CPF or CNPJ formatting based on digit count.
func FormatTaxID(value string) string {
	switch len(DigitsOnly(value)) {
	case 11:
		return FormatCPF(value)
	case 14:
		return FormatCNPJ(value)
	default:
		return value
	}
}
