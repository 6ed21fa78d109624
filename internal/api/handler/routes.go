package handler

import (
	"net/http"

	"github.com/vfg2006/sales-forecast-api/internal/api/handler/router"
	"github.com/vfg2006/sales-forecast-api/internal/usecases/forecasting"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Forecasting(engine forecasting.Engine) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/forecast",
			Method:  http.MethodGet,
			Handler: GetForecast(engine),
		},
		{
			Path:    "/v1/forecast/train",
			Method:  http.MethodPost,
			Handler: TrainModel(engine),
		},
	}
}

func Models(engine forecasting.Engine) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/forecast/models",
			Method:  http.MethodGet,
			Handler: ListModels(engine),
		},
		{
			Path:    "/v1/forecast/models/:name",
			Method:  http.MethodGet,
			Handler: ForecastWithModel(engine),
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/cron/:type/run",
			Method:  http.MethodPost,
			Handler: RunCronJob(services),
		},
		{
			Path:    "/v1/cron/status",
			Method:  http.MethodGet,
			Handler: GetCronStatus(services),
		},
	}
}
