package workflow

import "regexp"

var nonDigit = regexp.MustCompile(`\D`)

// NormalizeCPF remove tudo que não é dígito e exige exatamente 11 dígitos.
// O valor limpo volta mesmo quando inválido, para reexibir no formulário.
func NormalizeCPF(raw string) (string, bool) {
	digits := nonDigit.ReplaceAllString(raw, "")
	return digits, len(digits) == 11
}
