package forecasting

import (
	"math"

	"github.com/vfg2006/sales-forecast-api/internal/domain"
	"github.com/vfg2006/sales-forecast-api/pkg/utils"
)

// DefaultHoldoutSize é o tamanho padrão da cauda separada para validação
const DefaultHoldoutSize = 6

// Backtest executa a validação walk-forward: separa a cauda da série como se
// fosse desconhecida, prevê a partir do prefixo e compara com os valores
// reais. Retorna nil quando a série não é longa o suficiente para separar
// dados. Puramente diagnóstico: nunca bloqueia nem altera a previsão real.
//
// O holdout é min(DefaultHoldoutSize, horizonte solicitado), limitado para
// que o prefixo mantenha ao menos dois pontos.
func Backtest(network *Network, series *domain.NormalizedSeries, horizon int) *domain.ValidationReport {
	holdout := DefaultHoldoutSize
	if horizon < holdout {
		holdout = horizon
	}
	if max := len(series.Values) - 2; holdout > max {
		holdout = max
	}
	if holdout < 1 {
		return nil
	}

	split := len(series.Values) - holdout
	prefix := series.Values[:split]
	actuals := series.Values[split:]

	predictions := network.Forecast(prefix, holdout)

	var (
		sumSquared  float64
		sumAbsPct   float64
		mapeSamples int
	)

	details := make([]domain.ValidationDetail, 0, holdout)
	for i, actual := range actuals {
		predicted := predictions[i]
		diff := predicted - actual
		sumSquared += diff * diff

		// Pontos com valor real zero ficam fora do MAPE; incluí-los
		// exigiria dividir por zero
		if actual != 0 {
			sumAbsPct += math.Abs(diff/actual) * 100
			mapeSamples++
		}

		point := series.Points[split+i]
		details = append(details, domain.ValidationDetail{
			Year:           point.Year,
			Month:          point.Month,
			Actual:         actual,
			Predicted:      predicted,
			ActualSales:    point.TotalSales,
			PredictedSales: utils.RoundToWholeUnit(series.Denormalize(predicted)),
		})
	}

	report := &domain.ValidationReport{
		MSE:     sumSquared / float64(holdout),
		Details: details,
	}
	if mapeSamples > 0 {
		report.MAPE = utils.RoundWithTwoDecimalPlace(sumAbsPct / float64(mapeSamples))
	}

	return report
}
