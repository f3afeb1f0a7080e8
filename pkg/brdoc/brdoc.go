// Package brdoc valida y formatea documentos de identificación brasileños (CPF y CNPJ)
// con el algoritmo módulo 11 de la Receita Federal.
package brdoc

import (
	"fmt"

	"github.com/jhoicas/reparo-api/pkg/textnorm"
)

// Tipos de documento.
const (
	KindCPF  = "CPF"
	KindCNPJ = "CNPJ"
)

// pesos del CNPJ; el segundo dígito usa [6] + cnpjWeights.
var cnpjWeights = [12]int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}

// Kind devuelve CPF o CNPJ según la cantidad de dígitos; "" si no corresponde a ninguno.
func Kind(doc string) string {
	switch len(textnorm.OnlyDigits(doc)) {
	case 11:
		return KindCPF
	case 14:
		return KindCNPJ
	}
	return ""
}

// Validate valida un CPF (11 dígitos) o CNPJ (14 dígitos), con o sin máscara.
func Validate(doc string) error {
	digits := textnorm.OnlyDigits(doc)
	switch len(digits) {
	case 11:
		return ValidateCPF(digits)
	case 14:
		return ValidateCNPJ(digits)
	}
	return fmt.Errorf("brdoc: documento debe tener 11 (CPF) o 14 (CNPJ) dígitos, se encontraron %d", len(digits))
}

// ValidateCPF valida los dos dígitos verificadores del CPF.
// "123.456.789-09" y "12345678909" son equivalentes.
func ValidateCPF(cpf string) error {
	d := textnorm.OnlyDigits(cpf)
	if len(d) != 11 {
		return fmt.Errorf("brdoc: CPF debe tener 11 dígitos, se encontraron %d", len(d))
	}
	if allEqual(d) {
		return fmt.Errorf("brdoc: CPF con dígitos repetidos")
	}
	for n := 9; n <= 10; n++ {
		var sum int
		for i := 0; i < n; i++ {
			sum += int(d[i]-'0') * (n + 1 - i)
		}
		expected := byte('0' + (sum*10)%11%10)
		if d[n] != expected {
			return fmt.Errorf("brdoc: dígito verificador del CPF inválido: esperado %c, recibido %c", expected, d[n])
		}
	}
	return nil
}

// ValidateCNPJ valida los dos dígitos verificadores del CNPJ.
func ValidateCNPJ(cnpj string) error {
	d := textnorm.OnlyDigits(cnpj)
	if len(d) != 14 {
		return fmt.Errorf("brdoc: CNPJ debe tener 14 dígitos, se encontraron %d", len(d))
	}
	if allEqual(d) {
		return fmt.Errorf("brdoc: CNPJ con dígitos repetidos")
	}
	for n := 12; n <= 13; n++ {
		var sum int
		for i := 0; i < n; i++ {
			w := 6
			if n == 12 {
				w = cnpjWeights[i]
			} else if i > 0 {
				w = cnpjWeights[i-1]
			}
			sum += int(d[i]-'0') * w
		}
		expected := byte('0')
		if r := sum % 11; r >= 2 {
			expected = byte('0' + (11 - r))
		}
		if d[n] != expected {
			return fmt.Errorf("brdoc: dígito verificador del CNPJ inválido: esperado %c, recibido %c", expected, d[n])
		}
	}
	return nil
}

// Format aplica la máscara (000.000.000-00 o 00.000.000/0000-00). Si el largo no
// corresponde a ningún documento devuelve la entrada sin cambios.
func Format(doc string) string {
	d := textnorm.OnlyDigits(doc)
	switch len(d) {
	case 11:
		return d[:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
	case 14:
		return d[:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:]
	}
	return doc
}

func allEqual(d string) bool {
	for i := 1; i < len(d); i++ {
		if d[i] != d[0] {
			return false
		}
	}
	return true
}
