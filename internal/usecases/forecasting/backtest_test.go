package forecasting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/sales-forecast-api/internal/domain"
)

func TestBacktest(t *testing.T) {
	t.Run("Separa a cauda padrão e compara ponto a ponto", func(t *testing.T) {
		points := monthlyPoints(2023, 1, 24)
		series, err := BuildNormalizedSeries(points, 0)
		assert.NoError(t, err)

		network := NewNetwork(4, 42)
		report := Backtest(network, series, 12)

		assert.NotNil(t, report)
		assert.Len(t, report.Details, DefaultHoldoutSize)
		assert.GreaterOrEqual(t, report.MSE, 0.0)

		// A cauda corresponde aos últimos meses da janela
		first := report.Details[0]
		expected := points[len(points)-DefaultHoldoutSize]
		assert.Equal(t, expected.Year, first.Year)
		assert.Equal(t, expected.Month, first.Month)
		assert.Equal(t, expected.TotalSales, first.ActualSales)
	})

	t.Run("Holdout é limitado pelo horizonte solicitado", func(t *testing.T) {
		points := monthlyPoints(2023, 1, 24)
		series, err := BuildNormalizedSeries(points, 0)
		assert.NoError(t, err)

		report := Backtest(NewNetwork(4, 42), series, 2)

		assert.NotNil(t, report)
		assert.Len(t, report.Details, 2)
	})

	t.Run("Holdout é limitado para preservar dois pontos de prefixo", func(t *testing.T) {
		points := monthlyPoints(2024, 1, 5)
		series, err := BuildNormalizedSeries(points, 0)
		assert.NoError(t, err)

		report := Backtest(NewNetwork(4, 42), series, 12)

		assert.NotNil(t, report)
		assert.Len(t, report.Details, 3)
	})

	t.Run("Série curta demais não produz relatório", func(t *testing.T) {
		points := monthlyPoints(2024, 1, 2)
		series, err := BuildNormalizedSeries(points, 0)
		assert.NoError(t, err)

		assert.Nil(t, Backtest(NewNetwork(4, 42), series, 6))
	})

	t.Run("Pontos com valor real zero ficam fora do MAPE mas entram no MSE", func(t *testing.T) {
		// O mínimo da janela normaliza para exatamente zero
		points := monthlyPoints(2024, 1, 10, 500, 600, 700, 800, 900, 1000, 100, 650, 720, 810)
		series, err := BuildNormalizedSeries(points, 0)
		assert.NoError(t, err)
		assert.Zero(t, series.Values[6])

		report := Backtest(NewNetwork(4, 42), series, 6)
		assert.NotNil(t, report)
		assert.Len(t, report.Details, 6)

		// MAPE recalculado à mão sobre os pontos não-zero da cauda
		var sum float64
		var samples int
		for _, d := range report.Details {
			if d.Actual != 0 {
				diff := d.Predicted - d.Actual
				if diff < 0 {
					diff = -diff
				}
				sum += diff / d.Actual * 100
				samples++
			}
		}
		assert.Equal(t, 5, samples)
		assert.InDelta(t, sum/float64(samples), report.MAPE, 0.01)
	})

	t.Run("Série toda zerada deixa o MAPE indefinido em zero", func(t *testing.T) {
		points := monthlyPoints(2024, 1, 10, 300, 300, 300, 300, 300, 300, 300, 300, 300, 300)
		series, err := BuildNormalizedSeries(points, 0)
		assert.NoError(t, err)

		report := Backtest(NewNetwork(4, 42), series, 6)

		assert.NotNil(t, report)
		assert.Zero(t, report.MAPE)
		assert.GreaterOrEqual(t, report.MSE, 0.0)
	})
}

func TestIsModelValidFor(t *testing.T) {
	window := monthlyPoints(2024, 1, 6) // termina em junho de 2024

	tests := []struct {
		name     string
		lastSeen domain.SalesDate
		want     bool
	}{
		{"Modelo viu exatamente o último mês da janela", domain.SalesDate{Year: 2024, Month: 6}, true},
		{"Modelo viu além da janela", domain.SalesDate{Year: 2024, Month: 7}, true},
		{"Modelo de um ano posterior", domain.SalesDate{Year: 2025, Month: 1}, true},
		{"Modelo um mês atrás da janela", domain.SalesDate{Year: 2024, Month: 5}, false},
		{"Modelo de um ano anterior com mês maior", domain.SalesDate{Year: 2023, Month: 12}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metadata := &domain.ModelMetadata{LastSalesDate: tt.lastSeen}
			assert.Equal(t, tt.want, IsModelValidFor(metadata, window))
		})
	}

	t.Run("Metadados ou janela ausentes invalidam o modelo", func(t *testing.T) {
		assert.False(t, IsModelValidFor(nil, window))
		assert.False(t, IsModelValidFor(&domain.ModelMetadata{}, nil))
	})
}
