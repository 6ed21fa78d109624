package utils

import "math"

func RoundWithTwoDecimalPlace(f float64) float64 {
	if f == 0 {
		return 0
	}

	return math.Round(f*100) / 100
}

// RoundToWholeUnit arredonda um valor de vendas para a unidade inteira mais próxima
func RoundToWholeUnit(f float64) float64 {
	return math.Round(f)
}
