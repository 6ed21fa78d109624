package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSalesPoint_NextPeriod(t *testing.T) {
	tests := []struct {
		name      string
		point     SalesPoint
		wantYear  int
		wantMonth int
	}{
		{"Mês comum avança dentro do ano", SalesPoint{Year: 2024, Month: 5}, 2024, 6},
		{"Dezembro vira janeiro do ano seguinte", SalesPoint{Year: 2024, Month: 12}, 2025, 1},
		{"Novembro avança para dezembro", SalesPoint{Year: 2024, Month: 11}, 2024, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, month := tt.point.NextPeriod()
			assert.Equal(t, tt.wantYear, year)
			assert.Equal(t, tt.wantMonth, month)
		})
	}
}

func TestSalesPoint_Display(t *testing.T) {
	point := SalesPoint{Year: 2025, Month: 1, TotalSales: 1500}

	assert.Equal(t, "January", point.MonthName())
	assert.Equal(t, "2025-01-01", point.DateString())
}

func TestModelMetadata_Validate(t *testing.T) {
	valid := func() *ModelMetadata {
		return &ModelMetadata{
			DataPoints:    18,
			Range:         800,
			LastSalesDate: SalesDate{Year: 2024, Month: 6},
			ModelType:     ModelTypeElman,
		}
	}

	assert.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*ModelMetadata)
	}{
		{"Sem model_type", func(m *ModelMetadata) { m.ModelType = "" }},
		{"data_points abaixo do mínimo", func(m *ModelMetadata) { m.DataPoints = 1 }},
		{"range zerado", func(m *ModelMetadata) { m.Range = 0 }},
		{"range negativo", func(m *ModelMetadata) { m.Range = -10 }},
		{"last_sales_date sem ano", func(m *ModelMetadata) { m.LastSalesDate.Year = 0 }},
		{"last_sales_date com mês inválido", func(m *ModelMetadata) { m.LastSalesDate.Month = 13 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metadata := valid()
			tt.mutate(metadata)
			assert.Error(t, metadata.Validate())
		})
	}
}
