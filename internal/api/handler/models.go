package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/sales-forecast-api/infrastructure/modelstore"
	"github.com/vfg2006/sales-forecast-api/internal/usecases/forecasting"
	"github.com/vfg2006/sales-forecast-api/pkg/apiErrors"
	"github.com/vfg2006/sales-forecast-api/pkg/log"
)

// ListModels retorna o resumo dos artefatos de modelo persistidos
func ListModels(engine forecasting.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		summaries, err := engine.ListModels()
		if err != nil {
			logger.WithError(err).Error("models: erro ao listar artefatos")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, err.Error(), nil)
			return
		}

		logger.WithField("total_models", len(summaries)).Info("models: artefatos listados com sucesso")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(summaries); err != nil {
			logger.WithError(err).Error("models: erro ao codificar resposta")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, err.Error(), nil)
		}
	})
}

// ForecastWithModel produz uma previsão síncrona com um artefato específico,
// já treinado. Artefato inexistente responde 404; corrompido responde 500.
func ForecastWithModel(engine forecasting.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		modelName := httprouter.ParamsFromContext(r.Context()).ByName("name")
		if modelName == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Nome do modelo não especificado", nil)
			return
		}

		monthsAhead := 1
		if raw := r.URL.Query().Get("months_ahead"); raw != "" {
			value, err := strconv.Atoi(raw)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "months_ahead deve ser um número inteiro", nil)
				return
			}
			monthsAhead = value
		}

		logger.WithFields(log.Fields{
			"model_name":   modelName,
			"months_ahead": monthsAhead,
		}).Info("models: previsão com modelo nomeado")

		result, err := engine.ForecastWithNamedModel(modelName, monthsAhead)
		if err != nil {
			logger.WithError(err).WithField("model_name", modelName).
				Error("models: erro na previsão com modelo nomeado")

			switch {
			case errors.Is(err, forecasting.ErrInvalidHorizon):
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
			case errors.Is(err, modelstore.ErrModelNotFound):
				apiErrors.WriteError(w, apiErrors.ErrModelNotFound, err.Error(), nil)
			case errors.Is(err, modelstore.ErrModelCorrupt):
				apiErrors.WriteError(w, apiErrors.ErrModelCorrupt, err.Error(), nil)
			case errors.Is(err, forecasting.ErrInsufficientData):
				apiErrors.WriteError(w, apiErrors.ErrInsufficientData, err.Error(), nil)
			default:
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, err.Error(), nil)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logger.WithError(err).Error("models: erro ao codificar resposta")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, err.Error(), nil)
		}
	})
}
