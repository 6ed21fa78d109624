package forecasting

import (
	"github.com/vfg2006/sales-forecast-api/internal/domain"
)

// TrainOptions são os parâmetros de uma requisição de treinamento.
// Iterations é um ponteiro para distinguir "não informado" (usa o padrão
// configurado) de um teto explícito de zero iterações.
type TrainOptions struct {
	Iterations     *int
	ErrorThreshold float64 // 0 usa o padrão configurado
	MaxDataPoints  int     // 0 usa o histórico inteiro
}

// Validate rejeita parâmetros inválidos antes da negociação do stream
func (o TrainOptions) Validate() error {
	if o.Iterations != nil && *o.Iterations < 0 {
		return ErrInvalidIterations
	}
	if o.MaxDataPoints != 0 && o.MaxDataPoints < minWindowSize {
		return ErrInvalidMaxDataPoints
	}
	return nil
}

// ForecastOptions são os parâmetros de uma requisição de previsão
type ForecastOptions struct {
	MonthsAhead   int
	MaxDataPoints int  // 0 usa o padrão configurado
	ForceRetrain  bool // ignora a política de validade e retreina sempre
}

// Validate rejeita parâmetros inválidos antes da negociação do stream
func (o ForecastOptions) Validate() error {
	if o.MonthsAhead < MinHorizon || o.MonthsAhead > MaxHorizon {
		return ErrInvalidHorizon
	}
	if o.MaxDataPoints != 0 && o.MaxDataPoints < minWindowSize {
		return ErrInvalidMaxDataPoints
	}
	return nil
}

// Engine é o motor de previsão de vendas: treina o modelo recorrente sobre o
// histórico mensal, valida via backtesting e produz previsões multi-passo,
// reportando o ciclo de vida por eventos tipados
type Engine interface {
	// Train executa um ciclo completo de treinamento e persiste o artefato.
	// Os eventos de progresso são entregues via emit.
	Train(opts TrainOptions, emit EmitFunc) (*domain.TrainResult, error)

	// Forecast produz uma previsão multi-passo, reaproveitando o último
	// modelo salvo quando a política de validade autoriza
	Forecast(opts ForecastOptions, emit EmitFunc) (*domain.ForecastResult, error)

	// ForecastWithNamedModel produz uma previsão síncrona com um artefato
	// específico, sem treinar. Falhas de carga são retornadas diretamente.
	ForecastWithNamedModel(modelName string, monthsAhead int) (*domain.ForecastResult, error)

	// ListModels retorna o resumo dos artefatos persistidos
	ListModels() ([]domain.ModelSummary, error)
}
