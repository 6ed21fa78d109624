package forecasting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrainNetwork(t *testing.T) {
	series := []float64{0.1, 0.3, 0.5, 0.7, 0.9, 0.7, 0.5, 0.3, 0.1, 0.3, 0.5, 0.7}

	t.Run("Callback é chamado na primeira iteração e depois na cadência", func(t *testing.T) {
		var calls []int
		cfg := TrainingConfig{
			Iterations:     2500,
			ErrorThreshold: 1e-12, // nunca atingido: o laço vai até o teto
			ProgressEvery:  1000,
			Seed:           42,
		}

		_, params, err := TrainNetwork(series, cfg, func(iterations int, trainError float64) {
			calls = append(calls, iterations)
		})

		assert.NoError(t, err)
		assert.Equal(t, []int{1, 1000, 2000}, calls)
		assert.Equal(t, 2500, params.ActualIterations)
	})

	t.Run("Iterações do callback são estritamente crescentes", func(t *testing.T) {
		last := 0
		cfg := TrainingConfig{Iterations: 5000, ErrorThreshold: 1e-12, Seed: 42}

		_, _, err := TrainNetwork(series, cfg, func(iterations int, trainError float64) {
			assert.Greater(t, iterations, last)
			last = iterations
		})

		assert.NoError(t, err)
	})

	t.Run("Treinamento para ao atingir o limiar de erro", func(t *testing.T) {
		cfg := TrainingConfig{
			Iterations:     100000,
			ErrorThreshold: 0.2, // alto o suficiente para parar cedo
			Seed:           42,
		}

		_, params, err := TrainNetwork(series, cfg, nil)

		assert.NoError(t, err)
		assert.Less(t, params.ActualIterations, cfg.Iterations)
		assert.LessOrEqual(t, params.FinalError, 0.2)
	})

	t.Run("Teto explícito de zero iterações ainda produz um modelo", func(t *testing.T) {
		cfg := TrainingConfig{Iterations: 0, ErrorThreshold: 1e-12, Seed: 42}

		network, params, err := TrainNetwork(series, cfg, nil)

		assert.NoError(t, err)
		assert.NotNil(t, network)
		assert.Equal(t, 0, params.ActualIterations)
		// FinalError vem da avaliação da rede recém-inicializada
		assert.Greater(t, params.FinalError, 0.0)
	})

	t.Run("Série insuficiente é rejeitada", func(t *testing.T) {
		_, _, err := TrainNetwork([]float64{0.5}, TrainingConfig{}, nil)
		assert.ErrorIs(t, err, ErrInsufficientData)
	})

	t.Run("Campos não informados recebem os valores padrão", func(t *testing.T) {
		cfg := TrainingConfig{}.WithDefaults()

		assert.Equal(t, DefaultErrorThreshold, cfg.ErrorThreshold)
		assert.Equal(t, DefaultLearningRate, cfg.LearningRate)
		assert.Equal(t, DefaultHiddenSize, cfg.HiddenSize)
		assert.Equal(t, DefaultProgressEvery, cfg.ProgressEvery)
		assert.NotZero(t, cfg.Seed)
	})
}
