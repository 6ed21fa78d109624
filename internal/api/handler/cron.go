package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-forecast-api/internal/scheduler"
	"github.com/vfg2006/sales-forecast-api/pkg/apiErrors"
)

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypeRetrain = "retrain"
)

// CronJobServices contém os serviços de cron necessários para executar manualmente
type CronJobServices struct {
	RetrainSyncService *scheduler.RetrainSyncService
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunCronJob")

		// Obter o tipo de cron job da URL
		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		switch cronType {
		case CronJobTypeRetrain:
			if services.RetrainSyncService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de retreinamento não disponível", nil)
				return
			}
			// O retreinamento é longo; a execução acontece em segundo plano e
			// o resultado fica disponível no endpoint de status
			go services.RetrainSyncService.RunNow()

		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: retrain", nil)
			return
		}

		response := map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		}
		json.NewEncoder(w).Encode(response)
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetCronStatus")

		status := map[string]any{
			"retrain": services.RetrainSyncService.Status(),
		}

		json.NewEncoder(w).Encode(status)
	}
}
