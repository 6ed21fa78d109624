package forecasting

import (
	"fmt"
	"time"

	"github.com/vfg2006/sales-forecast-api/internal/domain"
)

// Valores padrão de treinamento
const (
	DefaultIterations     = 20000
	DefaultErrorThreshold = 0.005
	DefaultLearningRate   = 0.05
	DefaultHiddenSize     = 8
	DefaultProgressEvery  = 1000
)

// TrainingConfig é a configuração de um treinamento
type TrainingConfig struct {
	Iterations     int     // teto de iterações
	ErrorThreshold float64 // o treinamento para no primeiro limite atingido
	LearningRate   float64
	HiddenSize     int
	ProgressEvery  int   // cadência do callback de progresso
	Seed           int64 // 0 usa o relógio; valores fixos dão treinos reprodutíveis
}

// WithDefaults preenche os campos não informados com os valores padrão
func (c TrainingConfig) WithDefaults() TrainingConfig {
	if c.Iterations < 0 {
		c.Iterations = 0
	}
	if c.ErrorThreshold <= 0 {
		c.ErrorThreshold = DefaultErrorThreshold
	}
	if c.LearningRate <= 0 {
		c.LearningRate = DefaultLearningRate
	}
	if c.HiddenSize <= 0 {
		c.HiddenSize = DefaultHiddenSize
	}
	if c.ProgressEvery <= 0 {
		c.ProgressEvery = DefaultProgressEvery
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	return c
}

// ProgressFunc recebe o progresso do treinamento. É chamada de forma
// síncrona na primeira iteração e a cada ProgressEvery iterações; o laço de
// treinamento fica bloqueado até o retorno.
type ProgressFunc func(iterations int, trainError float64)

// TrainNetwork treina uma rede recorrente na série normalizada. O laço para
// no teto de iterações ou quando o erro cai abaixo do limiar, o que vier
// primeiro. Sempre retorna um modelo utilizável, mesmo que o limiar nunca
// tenha sido atingido; o chamador julga a qualidade pelo FinalError.
func TrainNetwork(series []float64, cfg TrainingConfig, progress ProgressFunc) (*Network, domain.TrainingParams, error) {
	if len(series) < 2 {
		return nil, domain.TrainingParams{}, fmt.Errorf("%w: %d ponto(s)", ErrInsufficientData, len(series))
	}

	cfg = cfg.WithDefaults()
	network := NewNetwork(cfg.HiddenSize, cfg.Seed)

	var (
		finalError = network.Evaluate(series)
		iterations = 0
	)

	for i := 1; i <= cfg.Iterations; i++ {
		finalError = network.TrainEpoch(series, cfg.LearningRate)
		iterations = i

		if progress != nil && (i == 1 || i%cfg.ProgressEvery == 0) {
			progress(i, finalError)
		}

		if finalError <= cfg.ErrorThreshold {
			break
		}
	}

	params := domain.TrainingParams{
		Iterations:       cfg.Iterations,
		ErrorThreshold:   cfg.ErrorThreshold,
		LearningRate:     cfg.LearningRate,
		FinalError:       finalError,
		ActualIterations: iterations,
	}

	return network, params, nil
}
