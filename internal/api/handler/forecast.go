package handler

import (
	"net/http"
	"strconv"

	"github.com/vfg2006/sales-forecast-api/internal/usecases/forecasting"
	"github.com/vfg2006/sales-forecast-api/pkg/apiErrors"
	"github.com/vfg2006/sales-forecast-api/pkg/log"
)

// GetForecast produz a previsão de vendas como um stream de eventos de
// progresso. Parâmetros inválidos são rejeitados com HTTP 4xx antes da
// negociação do stream; depois dela, falhas viram um evento terminal error.
func GetForecast(engine forecasting.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		opts := forecasting.ForecastOptions{MonthsAhead: 1}

		if raw := r.URL.Query().Get("months_ahead"); raw != "" {
			value, err := strconv.Atoi(raw)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "months_ahead deve ser um número inteiro", nil)
				return
			}
			opts.MonthsAhead = value
		}

		if raw := r.URL.Query().Get("max_data_points"); raw != "" {
			value, err := strconv.Atoi(raw)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "max_data_points deve ser um número inteiro", nil)
				return
			}
			opts.MaxDataPoints = value
		}

		opts.ForceRetrain = r.URL.Query().Get("force_retrain") == "true"

		// Erros de validação são síncronos, antes da negociação do stream
		if err := opts.Validate(); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
			return
		}

		logger.WithFields(log.Fields{
			"months_ahead":    opts.MonthsAhead,
			"max_data_points": opts.MaxDataPoints,
			"force_retrain":   opts.ForceRetrain,
		}).Info("forecast: iniciando previsão de vendas")

		stream, err := newEventStream(w, r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, err.Error(), nil)
			return
		}

		if _, err := engine.Forecast(opts, stream.Send); err != nil {
			// O evento terminal de erro já foi entregue pelo motor
			logger.WithError(err).Error("forecast: previsão finalizada com erro")
			return
		}

		logger.Info("forecast: previsão concluída com sucesso")
	})
}
