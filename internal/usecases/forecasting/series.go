package forecasting

import (
	"fmt"

	"github.com/vfg2006/sales-forecast-api/internal/domain"
	"github.com/vfg2006/sales-forecast-api/pkg/log"
)

// minWindowSize é o piso da janela de dados: mesmo que o chamador peça menos,
// nunca treinamos com menos de 12 meses quando o histórico os tem
const minWindowSize = 12

// BuildNormalizedSeries converte o histórico mensal de vendas em uma série
// normalizada via min-max para o intervalo [0,1].
//
// Quando maxDataPoints > 0, a janela é truncada para os N meses mais recentes,
// respeitando o piso de 12 meses. Quando todos os valores são iguais, o range
// é forçado para 1, deixando todos os valores normalizados em zero.
func BuildNormalizedSeries(points []domain.SalesPoint, maxDataPoints int) (*domain.NormalizedSeries, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: %d ponto(s) agregado(s)", ErrInsufficientData, len(points))
	}

	window := points
	if maxDataPoints > 0 && len(points) > maxDataPoints {
		size := maxDataPoints
		if size < minWindowSize {
			size = minWindowSize
		}
		if size < len(points) {
			window = points[len(points)-size:]
		}
	}

	warnIfNotContiguous(window)

	minSales := window[0].TotalSales
	maxSales := window[0].TotalSales
	for _, p := range window[1:] {
		if p.TotalSales < minSales {
			minSales = p.TotalSales
		}
		if p.TotalSales > maxSales {
			maxSales = p.TotalSales
		}
	}

	salesRange := maxSales - minSales
	if salesRange == 0 {
		// Série degenerada: todos os meses com o mesmo total
		salesRange = 1
	}

	values := make([]float64, len(window))
	for i, p := range window {
		values[i] = (p.TotalSales - minSales) / salesRange
	}

	return &domain.NormalizedSeries{
		Values:   values,
		MinSales: minSales,
		MaxSales: maxSales,
		Range:    salesRange,
		Points:   window,
	}, nil
}

// warnIfNotContiguous registra um aviso quando a janela tem meses ausentes.
// Meses sem vendas concluídas não chegam do repositório, o que comprime a
// série; a previsão continua a partir do último ponto conhecido do calendário.
func warnIfNotContiguous(window []domain.SalesPoint) {
	for i := 1; i < len(window); i++ {
		wantYear, wantMonth := window[i-1].NextPeriod()
		if window[i].Year != wantYear || window[i].Month != wantMonth {
			log.L.WithFields(log.Fields{
				"previous": fmt.Sprintf("%04d-%02d", window[i-1].Year, window[i-1].Month),
				"next":     fmt.Sprintf("%04d-%02d", window[i].Year, window[i].Month),
			}).Warn("series: janela de vendas com meses ausentes, série comprimida")
			return
		}
	}
}
