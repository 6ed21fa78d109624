package domain

import (
	"fmt"
	"time"
)

// SalesPoint representa o total de vendas agregado de um mês do calendário.
// A série de pontos é estritamente crescente em (ano, mês), sem períodos duplicados.
type SalesPoint struct {
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	TotalSales float64 `json:"total_sales"`
}

// MonthName retorna o nome do mês em inglês (ex: "January"), usado na exibição de gráficos
func (p SalesPoint) MonthName() string {
	return time.Month(p.Month).String()
}

// DateString retorna o primeiro dia do mês no formato yyyy-mm-dd
func (p SalesPoint) DateString() string {
	return fmt.Sprintf("%04d-%02d-01", p.Year, p.Month)
}

// NextPeriod retorna o período do calendário imediatamente após o ponto,
// com virada de dezembro para janeiro do ano seguinte
func (p SalesPoint) NextPeriod() (year, month int) {
	year = p.Year
	month = (p.Month % 12) + 1
	if p.Month == 12 {
		year++
	}
	return year, month
}

// NormalizedSeries é a série de vendas escalonada para [0,1] via min-max,
// junto com os parâmetros necessários para a desnormalização.
// Range é forçado para 1 quando todos os valores são iguais, evitando divisão por zero.
type NormalizedSeries struct {
	Values   []float64    `json:"values"`
	MinSales float64      `json:"min_sales"`
	MaxSales float64      `json:"max_sales"`
	Range    float64      `json:"range"`
	Points   []SalesPoint `json:"-"`
}

// Denormalize converte um valor normalizado de volta para a escala original de vendas
func (s *NormalizedSeries) Denormalize(value float64) float64 {
	return value*s.Range + s.MinSales
}

// LastPoint retorna o último ponto conhecido da janela de dados
func (s *NormalizedSeries) LastPoint() SalesPoint {
	return s.Points[len(s.Points)-1]
}

// HistoricalEntry representa uma linha do histórico retornado junto com a previsão,
// no formato esperado pelos gráficos do frontend
type HistoricalEntry struct {
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	MonthName  string  `json:"month_name"`
	TotalSales float64 `json:"total_sales"`
	Date       string  `json:"date"`
}

// HistoricalEntries converte a janela de pontos em linhas de exibição
func (s *NormalizedSeries) HistoricalEntries() []HistoricalEntry {
	entries := make([]HistoricalEntry, 0, len(s.Points))
	for _, p := range s.Points {
		entries = append(entries, HistoricalEntry{
			Year:       p.Year,
			Month:      p.Month,
			MonthName:  p.MonthName(),
			TotalSales: p.TotalSales,
			Date:       p.DateString(),
		})
	}
	return entries
}
