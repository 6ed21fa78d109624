package forecasting

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-forecast-api/infrastructure/modelstore"
	"github.com/vfg2006/sales-forecast-api/infrastructure/repository"
	"github.com/vfg2006/sales-forecast-api/internal/config"
	"github.com/vfg2006/sales-forecast-api/internal/domain"
)

// Service implementa a interface Engine sobre o repositório de vendas e o
// armazenamento de artefatos
type Service struct {
	cfg       *config.Config
	salesRepo repository.SalesHistoryRepository
	store     modelstore.Store
}

// NewService cria uma nova instância do motor de previsão
func NewService(
	cfg *config.Config,
	salesRepo repository.SalesHistoryRepository,
	store modelstore.Store,
) Engine {
	return &Service{
		cfg:       cfg,
		salesRepo: salesRepo,
		store:     store,
	}
}

// Train executa um ciclo completo de treinamento e persiste o artefato
func (s *Service) Train(opts TrainOptions, emit EmitFunc) (*domain.TrainResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if emit == nil {
		emit = discardEvents
	}

	series, err := s.loadSeries(opts.MaxDataPoints)
	if err != nil {
		return nil, s.emitError(emit, err)
	}

	emit(Event{Type: EventStart, Payload: StartPayload{
		Message:    "Iniciando treinamento do modelo de previsão de vendas",
		DataPoints: len(series.Values),
	}})

	network, params, err := s.trainModel(series, opts.Iterations, opts.ErrorThreshold, emit)
	if err != nil {
		return nil, s.emitError(emit, fmt.Errorf("%w: %v", ErrTrainingFailure, err))
	}

	metadata := buildMetadata(series, params)
	path, err := s.saveArtifact(network, metadata)
	if err != nil {
		return nil, s.emitError(emit, err)
	}

	result := &domain.TrainResult{
		ModelSaved: true,
		ModelPath:  path,
		Metadata:   metadata,
	}

	emit(Event{Type: EventComplete, Payload: result})
	return result, nil
}

// Forecast produz uma previsão multi-passo, reaproveitando o último modelo
// salvo quando a política de validade autoriza
func (s *Service) Forecast(opts ForecastOptions, emit EmitFunc) (*domain.ForecastResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if emit == nil {
		emit = discardEvents
	}

	maxPoints := opts.MaxDataPoints
	if maxPoints == 0 {
		maxPoints = s.cfg.Forecast.MaxDataPoints
	}

	series, err := s.loadSeries(maxPoints)
	if err != nil {
		return nil, s.emitError(emit, err)
	}

	network, modelInfo, series, err := s.acquireModel(series, opts.ForceRetrain, emit)
	if err != nil {
		return nil, s.emitError(emit, err)
	}

	// Validação walk-forward antes da previsão real; apenas diagnóstica
	if report := Backtest(network, series, opts.MonthsAhead); report != nil {
		emit(Event{Type: EventValidation, Payload: report})
	}

	predictions, err := ForecastSeries(network, series, opts.MonthsAhead)
	if err != nil {
		return nil, s.emitError(emit, err)
	}

	result := &domain.ForecastResult{
		Predictions: predictions,
		Normalization: domain.Normalization{
			Min:   series.MinSales,
			Max:   series.MaxSales,
			Range: series.Range,
		},
		ModelInfo:      modelInfo,
		RawData:        series.HistoricalEntries(),
		NormalizedData: series.Values,
	}

	emit(Event{Type: EventComplete, Payload: result})
	return result, nil
}

// ForecastWithNamedModel produz uma previsão síncrona com um artefato
// específico. Artefato ausente ou corrompido é retornado diretamente ao
// chamador, sem fallback para treinamento.
func (s *Service) ForecastWithNamedModel(modelName string, monthsAhead int) (*domain.ForecastResult, error) {
	if monthsAhead < MinHorizon || monthsAhead > MaxHorizon {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHorizon, monthsAhead)
	}

	artifact, err := s.store.Load(modelName)
	if err != nil {
		return nil, err
	}

	network := &Network{}
	if err := json.Unmarshal(artifact.Model, network); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", modelstore.ErrModelCorrupt, artifact.Name, err)
	}

	points, err := s.salesRepo.GetMonthlySalesTotals()
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar histórico de vendas: %w", err)
	}

	// A janela e a escala de normalização são as do treinamento do artefato
	series, err := BuildNormalizedSeries(points, artifact.Metadata.DataPoints)
	if err != nil {
		return nil, err
	}
	series = reframeSeries(series.Points, &artifact.Metadata)

	predictions, err := ForecastSeries(network, series, monthsAhead)
	if err != nil {
		return nil, err
	}

	return &domain.ForecastResult{
		Predictions: predictions,
		Normalization: domain.Normalization{
			Min:   series.MinSales,
			Max:   series.MaxSales,
			Range: series.Range,
		},
		ModelInfo: domain.ModelInfo{
			Source:     domain.ModelSourceLoaded,
			FinalError: artifact.Metadata.TrainingParams.FinalError,
			Iterations: artifact.Metadata.TrainingParams.ActualIterations,
		},
		RawData:        series.HistoricalEntries(),
		NormalizedData: series.Values,
	}, nil
}

// ListModels retorna o resumo dos artefatos persistidos
func (s *Service) ListModels() ([]domain.ModelSummary, error) {
	return s.store.List()
}

// acquireModel decide entre reaproveitar o último artefato salvo e treinar
// um modelo novo. Falhas de carga no caminho padrão são recuperáveis: caem
// para o treinamento. Retorna a série na escala de normalização do modelo.
func (s *Service) acquireModel(
	series *domain.NormalizedSeries,
	forceRetrain bool,
	emit EmitFunc,
) (*Network, domain.ModelInfo, *domain.NormalizedSeries, error) {
	if !forceRetrain {
		artifact, err := s.store.Load(modelstore.LatestAlias)
		if err != nil {
			logrus.WithError(err).Warn("forecasting: não foi possível carregar o último modelo, treinando um novo")
		} else if IsModelValidFor(&artifact.Metadata, series.Points) {
			network := &Network{}
			if err := json.Unmarshal(artifact.Model, network); err != nil {
				logrus.WithError(err).WithField("artifact", artifact.Name).
					Warn("forecasting: artefato com estado de rede ilegível, treinando um novo modelo")
			} else {
				emit(Event{Type: EventModelLoaded, Payload: ModelLoadedPayload{
					ModelName:  artifact.Name,
					DataPoints: artifact.Metadata.DataPoints,
					FinalError: artifact.Metadata.TrainingParams.FinalError,
				}})

				info := domain.ModelInfo{
					Source:     domain.ModelSourceLoaded,
					FinalError: artifact.Metadata.TrainingParams.FinalError,
					Iterations: artifact.Metadata.TrainingParams.ActualIterations,
				}

				return network, info, reframeSeries(series.Points, &artifact.Metadata), nil
			}
		} else {
			logrus.WithFields(logrus.Fields{
				"artifact":        artifact.Name,
				"last_sales_date": fmt.Sprintf("%04d-%02d", artifact.Metadata.LastSalesDate.Year, artifact.Metadata.LastSalesDate.Month),
			}).Info("forecasting: modelo salvo está obsoleto para a janela atual, retreinando")
		}
	}

	emit(Event{Type: EventStart, Payload: StartPayload{
		Message:    "Treinando modelo de previsão de vendas",
		DataPoints: len(series.Values),
	}})

	network, params, err := s.trainModel(series, nil, 0, emit)
	if err != nil {
		return nil, domain.ModelInfo{}, nil, fmt.Errorf("%w: %v", ErrTrainingFailure, err)
	}

	// O salvamento é oportunista no caminho de previsão: uma falha de
	// persistência não invalida a previsão já treinada
	if _, err := s.saveArtifact(network, buildMetadata(series, params)); err != nil {
		logrus.WithError(err).Error("forecasting: erro ao salvar artefato após o treinamento")
	}

	info := domain.ModelInfo{
		Source:     domain.ModelSourceTrained,
		FinalError: params.FinalError,
		Iterations: params.ActualIterations,
	}

	return network, info, series, nil
}

// trainModel roda o treinamento com a configuração efetiva, repassando o
// progresso como eventos
func (s *Service) trainModel(
	series *domain.NormalizedSeries,
	iterations *int,
	errorThreshold float64,
	emit EmitFunc,
) (*Network, domain.TrainingParams, error) {
	cfg := TrainingConfig{
		Iterations:     s.cfg.Forecast.Iterations,
		ErrorThreshold: s.cfg.Forecast.ErrorThreshold,
		LearningRate:   s.cfg.Forecast.LearningRate,
		HiddenSize:     s.cfg.Forecast.HiddenSize,
		ProgressEvery:  s.cfg.Forecast.ProgressEvery,
	}
	// Configuração sem teto usa o padrão do pacote; um teto explícito na
	// requisição (inclusive zero) prevalece sobre ambos
	if cfg.Iterations <= 0 {
		cfg.Iterations = DefaultIterations
	}
	if iterations != nil {
		cfg.Iterations = *iterations
	}
	if errorThreshold > 0 {
		cfg.ErrorThreshold = errorThreshold
	}

	progress := func(it int, trainError float64) {
		emit(Event{Type: EventProgress, Payload: ProgressPayload{
			Iterations: it,
			Error:      trainError,
		}})

		logrus.WithFields(logrus.Fields{
			"iterations": it,
			"error":      trainError,
		}).Debug("forecasting: progresso do treinamento")
	}

	return TrainNetwork(series.Values, cfg, progress)
}

// loadSeries busca o histórico de vendas e o converte em série normalizada
func (s *Service) loadSeries(maxDataPoints int) (*domain.NormalizedSeries, error) {
	points, err := s.salesRepo.GetMonthlySalesTotals()
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar histórico de vendas: %w", err)
	}

	return BuildNormalizedSeries(points, maxDataPoints)
}

// saveArtifact serializa a rede e grava o artefato com seus metadados
func (s *Service) saveArtifact(network *Network, metadata *domain.ModelMetadata) (string, error) {
	raw, err := json.Marshal(network)
	if err != nil {
		return "", fmt.Errorf("erro ao serializar estado do modelo: %w", err)
	}

	return s.store.Save(raw, metadata)
}

// emitError classifica o erro, entrega o evento terminal e devolve o erro
// classificado ao chamador
func (s *Service) emitError(emit EmitFunc, err error) error {
	ferr := AsForecastError(err)

	logrus.WithError(ferr).WithField("code", ferr.Code).
		Error("forecasting: requisição finalizada com erro")

	emit(Event{Type: EventError, Payload: ErrorPayload{
		Code:    ferr.Code,
		Message: ferr.Error(),
	}})

	return ferr
}

// buildMetadata monta os metadados do artefato a partir da série e do
// resultado do treinamento
func buildMetadata(series *domain.NormalizedSeries, params domain.TrainingParams) *domain.ModelMetadata {
	last := series.LastPoint()

	return &domain.ModelMetadata{
		DataPoints:     len(series.Values),
		MinSales:       series.MinSales,
		MaxSales:       series.MaxSales,
		Range:          series.Range,
		TrainingParams: params,
		LastSalesDate:  domain.SalesDate{Year: last.Year, Month: last.Month},
		CreatedAt:      time.Now().UTC(),
		ModelType:      domain.ModelTypeElman,
	}
}

// reframeSeries reaplica a escala de normalização registrada nos metadados
// de um artefato sobre a janela atual de pontos
func reframeSeries(points []domain.SalesPoint, metadata *domain.ModelMetadata) *domain.NormalizedSeries {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = (p.TotalSales - metadata.MinSales) / metadata.Range
	}

	return &domain.NormalizedSeries{
		Values:   values,
		MinSales: metadata.MinSales,
		MaxSales: metadata.MaxSales,
		Range:    metadata.Range,
		Points:   points,
	}
}
