package handler

import (
	"net/http"
	"strconv"

	"github.com/vfg2006/sales-forecast-api/internal/usecases/forecasting"
	"github.com/vfg2006/sales-forecast-api/pkg/apiErrors"
	"github.com/vfg2006/sales-forecast-api/pkg/log"
)

// TrainModel executa um ciclo de treinamento sob demanda, com o progresso
// entregue como um stream de eventos. O treinamento ocupa o handler até o
// fim: não há cancelamento ao desconectar o cliente.
func TrainModel(engine forecasting.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var opts forecasting.TrainOptions

		// iterations=0 é válido (nenhuma iteração); ausente usa o padrão
		if raw := r.URL.Query().Get("iterations"); raw != "" {
			value, err := strconv.Atoi(raw)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "iterations deve ser um número inteiro", nil)
				return
			}
			opts.Iterations = &value
		}

		if raw := r.URL.Query().Get("error_threshold"); raw != "" {
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "error_threshold deve ser um número", nil)
				return
			}
			opts.ErrorThreshold = value
		}

		if raw := r.URL.Query().Get("max_data_points"); raw != "" {
			value, err := strconv.Atoi(raw)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "max_data_points deve ser um número inteiro", nil)
				return
			}
			opts.MaxDataPoints = value
		}

		if err := opts.Validate(); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
			return
		}

		logger.WithFields(log.Fields{
			"error_threshold": opts.ErrorThreshold,
			"max_data_points": opts.MaxDataPoints,
		}).Info("train: iniciando treinamento do modelo")

		stream, err := newEventStream(w, r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, err.Error(), nil)
			return
		}

		result, err := engine.Train(opts, stream.Send)
		if err != nil {
			logger.WithError(err).Error("train: treinamento finalizado com erro")
			return
		}

		logger.WithFields(log.Fields{
			"model_path":  result.ModelPath,
			"final_error": result.Metadata.TrainingParams.FinalError,
			"iterations":  result.Metadata.TrainingParams.ActualIterations,
		}).Info("train: treinamento concluído com sucesso")
	})
}
