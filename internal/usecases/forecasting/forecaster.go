package forecasting

import (
	"fmt"

	"github.com/vfg2006/sales-forecast-api/internal/domain"
	"github.com/vfg2006/sales-forecast-api/pkg/utils"
)

// Limites do horizonte de previsão
const (
	MinHorizon = 1
	MaxHorizon = 60
)

// ForecastSeries produz horizon pontos de previsão consecutivos, começando no
// mês seguinte ao último ponto conhecido da janela. O modelo é invocado uma
// única vez para o horizonte inteiro; a desnormalização e o avanço do
// calendário (dezembro vira janeiro do ano seguinte) são aplicados por ponto,
// em ordem estrita.
func ForecastSeries(network *Network, series *domain.NormalizedSeries, horizon int) ([]domain.ForecastPoint, error) {
	if horizon < MinHorizon || horizon > MaxHorizon {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHorizon, horizon)
	}

	normalized := network.Forecast(series.Values, horizon)

	points := make([]domain.ForecastPoint, 0, horizon)
	year := series.LastPoint().Year
	month := series.LastPoint().Month

	for _, prediction := range normalized {
		if month == 12 {
			year++
		}
		month = (month % 12) + 1

		point := domain.SalesPoint{Year: year, Month: month}
		points = append(points, domain.ForecastPoint{
			Year:                 year,
			Month:                month,
			MonthName:            point.MonthName(),
			Date:                 point.DateString(),
			NormalizedPrediction: prediction,
			PredictedSales:       utils.RoundToWholeUnit(series.Denormalize(prediction)),
		})
	}

	return points, nil
}
