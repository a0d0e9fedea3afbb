// Package docbr valida y formatea documentos brasileños (CNPJ y CPF) por dígito verificador módulo 11.
package docbr

import (
	"fmt"
	"unicode"
)

var (
	cnpjWeights1 = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights2 = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// ValidateCNPJ valida un CNPJ con o sin máscara ("11.222.333/0001-81" o "11222333000181").
func ValidateCNPJ(cnpj string) error {
	digits := OnlyDigits(cnpj)
	if len(digits) != 14 {
		return fmt.Errorf("docbr: CNPJ deve ter 14 dígitos, encontrados %d", len(digits))
	}
	if repeated(digits) {
		return fmt.Errorf("docbr: CNPJ inválido")
	}
	d1 := checkDigit(digits[:12], cnpjWeights1)
	d2 := checkDigit(digits[:13], cnpjWeights2)
	if digits[12] != d1 || digits[13] != d2 {
		return fmt.Errorf("docbr: dígitos verificadores do CNPJ inválidos: esperado %c%c, recebido %c%c", d1, d2, digits[12], digits[13])
	}
	return nil
}

// ValidateCPF valida un CPF con o sin máscara.
func ValidateCPF(cpf string) error {
	digits := OnlyDigits(cpf)
	if len(digits) != 11 {
		return fmt.Errorf("docbr: CPF deve ter 11 dígitos, encontrados %d", len(digits))
	}
	if repeated(digits) {
		return fmt.Errorf("docbr: CPF inválido")
	}
	d1 := checkDigit(digits[:9], descending(10, 9))
	d2 := checkDigit(digits[:10], descending(11, 10))
	if digits[9] != d1 || digits[10] != d2 {
		return fmt.Errorf("docbr: dígitos verificadores do CPF inválidos: esperado %c%c, recebido %c%c", d1, d2, digits[9], digits[10])
	}
	return nil
}

// CheckCNPJFormat sólo exige 14 dígitos. Los datos de cadastro vienen del registro oficial y se
// aceptan aunque el dígito verificador no cierre.
func CheckCNPJFormat(cnpj string) error {
	if n := len(OnlyDigits(cnpj)); n != 14 {
		return fmt.Errorf("docbr: CNPJ deve ter 14 dígitos, encontrados %d", n)
	}
	return nil
}

// CheckCPFFormat sólo exige 11 dígitos.
func CheckCPFFormat(cpf string) error {
	if n := len(OnlyDigits(cpf)); n != 11 {
		return fmt.Errorf("docbr: CPF deve ter 11 dígitos, encontrados %d", n)
	}
	return nil
}

// ValidateCPFOrCNPJ acepta cualquiera de los dos según la cantidad de dígitos.
func ValidateCPFOrCNPJ(doc string) error {
	switch len(OnlyDigits(doc)) {
	case 11:
		return ValidateCPF(doc)
	case 14:
		return ValidateCNPJ(doc)
	}
	return fmt.Errorf("docbr: documento deve ser CPF (11 dígitos) ou CNPJ (14 dígitos)")
}

// FormatCNPJ aplica la máscara 00.000.000/0000-00; devuelve la entrada si no tiene 14 dígitos.
func FormatCNPJ(cnpj string) string {
	d := string(OnlyDigits(cnpj))
	if len(d) != 14 {
		return cnpj
	}
	return d[:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:]
}

// FormatCPF aplica la máscara 000.000.000-00.
func FormatCPF(cpf string) string {
	d := string(OnlyDigits(cpf))
	if len(d) != 11 {
		return cpf
	}
	return d[:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
}

// Normalize devuelve sólo los dígitos como string.
func Normalize(doc string) string {
	return string(OnlyDigits(doc))
}

// OnlyDigits extrae los dígitos ASCII.
func OnlyDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if r < 128 && unicode.IsDigit(r) {
			out = append(out, byte(r))
		}
	}
	return out
}

func checkDigit(base []byte, weights []int) byte {
	var sum int
	for i, d := range base {
		sum += int(d-'0') * weights[i]
	}
	remainder := sum % 11
	if remainder < 2 {
		return '0'
	}
	return byte('0' + (11 - remainder))
}

func descending(from, n int) []int {
	w := make([]int, n)
	for i := range w {
		w[i] = from - i
	}
	return w
}

func repeated(digits []byte) bool {
	for _, d := range digits[1:] {
		if d != digits[0] {
			return false
		}
	}
	return true
}
