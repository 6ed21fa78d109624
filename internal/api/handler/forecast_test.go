package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/sales-forecast-api/infrastructure/modelstore"
	"github.com/vfg2006/sales-forecast-api/internal/api/handler/router"
	"github.com/vfg2006/sales-forecast-api/internal/domain"
	"github.com/vfg2006/sales-forecast-api/internal/usecases/forecasting"
	"github.com/vfg2006/sales-forecast-api/pkg/apiErrors"
	"github.com/vfg2006/sales-forecast-api/pkg/log"
)

func init() {
	log.SetupTestLogger()
}

// fakeEngine registra as opções recebidas e devolve respostas pré-definidas
type fakeEngine struct {
	trainOpts    *forecasting.TrainOptions
	forecastOpts *forecasting.ForecastOptions

	namedModel  string
	monthsAhead int

	forecastResult *domain.ForecastResult
	summaries      []domain.ModelSummary
	err            error
}

func (f *fakeEngine) Train(opts forecasting.TrainOptions, emit forecasting.EmitFunc) (*domain.TrainResult, error) {
	f.trainOpts = &opts
	if f.err != nil {
		if emit != nil {
			emit(forecasting.Event{Type: forecasting.EventError, Payload: forecasting.ErrorPayload{Message: f.err.Error()}})
		}
		return nil, f.err
	}

	emit(forecasting.Event{Type: forecasting.EventStart, Payload: forecasting.StartPayload{Message: "treinando", DataPoints: 18}})
	emit(forecasting.Event{Type: forecasting.EventProgress, Payload: forecasting.ProgressPayload{Iterations: 1, Error: 0.2}})

	result := &domain.TrainResult{ModelSaved: true, ModelPath: "model-x.json", Metadata: &domain.ModelMetadata{}}
	emit(forecasting.Event{Type: forecasting.EventComplete, Payload: result})
	return result, nil
}

func (f *fakeEngine) Forecast(opts forecasting.ForecastOptions, emit forecasting.EmitFunc) (*domain.ForecastResult, error) {
	f.forecastOpts = &opts
	if f.err != nil {
		if emit != nil {
			emit(forecasting.Event{Type: forecasting.EventError, Payload: forecasting.ErrorPayload{Message: f.err.Error()}})
		}
		return nil, f.err
	}

	emit(forecasting.Event{Type: forecasting.EventComplete, Payload: f.forecastResult})
	return f.forecastResult, nil
}

func (f *fakeEngine) ForecastWithNamedModel(modelName string, monthsAhead int) (*domain.ForecastResult, error) {
	f.namedModel = modelName
	f.monthsAhead = monthsAhead
	if f.err != nil {
		return nil, f.err
	}
	return f.forecastResult, nil
}

func (f *fakeEngine) ListModels() ([]domain.ModelSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.summaries, nil
}

func newTestRouter(engine forecasting.Engine) http.Handler {
	return router.New(
		router.WithRoutes(Forecasting(engine)...),
		router.WithRoutes(Models(engine)...),
	)
}

func TestGetForecast(t *testing.T) {
	t.Run("Parâmetro não numérico responde 400 antes do stream", func(t *testing.T) {
		rt := newTestRouter(&fakeEngine{})

		rec := httptest.NewRecorder()
		rt.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/forecast?months_ahead=abc", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), apiErrors.ErrInvalidFormat)
	})

	t.Run("Horizonte fora dos limites responde 400 antes do stream", func(t *testing.T) {
		rt := newTestRouter(&fakeEngine{})

		rec := httptest.NewRecorder()
		rt.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/forecast?months_ahead=61", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), apiErrors.ErrInvalidRequest)
	})

	t.Run("Requisição válida entrega eventos como SSE", func(t *testing.T) {
		engine := &fakeEngine{forecastResult: &domain.ForecastResult{}}
		rt := newTestRouter(engine)

		rec := httptest.NewRecorder()
		rt.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/forecast?months_ahead=3&force_retrain=true", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

		body := rec.Body.String()
		assert.True(t, strings.HasPrefix(body, "data: "))
		assert.Contains(t, body, `"type":"complete"`)

		assert.Equal(t, 3, engine.forecastOpts.MonthsAhead)
		assert.True(t, engine.forecastOpts.ForceRetrain)
	})

	t.Run("Erro após o stream vira evento terminal, não status HTTP", func(t *testing.T) {
		engine := &fakeEngine{err: forecasting.ErrInsufficientData}
		rt := newTestRouter(engine)

		rec := httptest.NewRecorder()
		rt.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/forecast?months_ahead=3", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"type":"error"`)
	})
}

func TestTrainModel(t *testing.T) {
	t.Run("iterations ausente fica nil; explícito vira ponteiro", func(t *testing.T) {
		engine := &fakeEngine{}
		rt := newTestRouter(engine)

		rec := httptest.NewRecorder()
		rt.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/forecast/train", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, engine.trainOpts.Iterations)

		rec = httptest.NewRecorder()
		rt.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/forecast/train?iterations=0", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotNil(t, engine.trainOpts.Iterations)
		assert.Equal(t, 0, *engine.trainOpts.Iterations)
	})

	t.Run("Iterações negativas respondem 400 antes do stream", func(t *testing.T) {
		rt := newTestRouter(&fakeEngine{})

		rec := httptest.NewRecorder()
		rt.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/forecast/train?iterations=-1", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), apiErrors.ErrInvalidRequest)
	})

	t.Run("Treinamento entrega a sequência de eventos no stream", func(t *testing.T) {
		rt := newTestRouter(&fakeEngine{})

		rec := httptest.NewRecorder()
		rt.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/forecast/train", nil))

		body := rec.Body.String()
		assert.Contains(t, body, `"type":"start"`)
		assert.Contains(t, body, `"type":"progress"`)
		assert.Contains(t, body, `"type":"complete"`)
	})
}

func TestForecastWithModel(t *testing.T) {
	t.Run("Repassa nome e horizonte ao motor", func(t *testing.T) {
		engine := &fakeEngine{forecastResult: &domain.ForecastResult{}}
		rt := newTestRouter(engine)

		rec := httptest.NewRecorder()
		rt.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/forecast/models/model-abc.json?months_ahead=4", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "model-abc.json", engine.namedModel)
		assert.Equal(t, 4, engine.monthsAhead)
	})

	t.Run("Horizonte ausente usa o padrão de um mês", func(t *testing.T) {
		engine := &fakeEngine{forecastResult: &domain.ForecastResult{}}
		rt := newTestRouter(engine)

		rec := httptest.NewRecorder()
		rt.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/forecast/models/model-abc.json", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, engine.monthsAhead)
	})

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"Artefato inexistente responde 404", modelstore.ErrModelNotFound, http.StatusNotFound, apiErrors.ErrModelNotFound},
		{"Artefato corrompido responde 500", modelstore.ErrModelCorrupt, http.StatusInternalServerError, apiErrors.ErrModelCorrupt},
		{"Horizonte inválido responde 400", forecasting.ErrInvalidHorizon, http.StatusBadRequest, apiErrors.ErrInvalidRequest},
		{"Histórico insuficiente responde 422", forecasting.ErrInsufficientData, http.StatusUnprocessableEntity, apiErrors.ErrInsufficientData},
		{"Erro desconhecido responde 500", errors.New("falha de banco"), http.StatusInternalServerError, apiErrors.ErrInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := newTestRouter(&fakeEngine{err: tt.err})

			rec := httptest.NewRecorder()
			rt.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/forecast/models/model-abc.json", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantCode)
		})
	}
}

func TestListModels(t *testing.T) {
	t.Run("Lista os artefatos como JSON", func(t *testing.T) {
		engine := &fakeEngine{summaries: []domain.ModelSummary{{Filename: "model-a.json"}}}
		rt := newTestRouter(engine)

		rec := httptest.NewRecorder()
		rt.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/forecast/models", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "model-a.json")
	})

	t.Run("Falha na listagem responde 500", func(t *testing.T) {
		rt := newTestRouter(&fakeEngine{err: errors.New("disco indisponível")})

		rec := httptest.NewRecorder()
		rt.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/forecast/models", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
