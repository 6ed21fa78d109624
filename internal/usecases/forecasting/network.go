package forecasting

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
)

// Network é uma rede recorrente de Elman que prevê o próximo valor de uma
// série univariada normalizada: entrada escalar, camada oculta tanh com
// estado realimentado e saída sigmoide (a série vive em [0,1]).
//
// O volume de dados é pequeno (dezenas de meses), então a série inteira é
// apresentada como um único exemplo de treinamento e o gradiente é propagado
// por toda a sequência (BPTT completo) a cada iteração.
type Network struct {
	hiddenSize int
	wxh        []float64   // entrada → oculta
	whh        [][]float64 // oculta → oculta (recorrência)
	bh         []float64
	why        []float64 // oculta → saída
	by         float64
}

// gradientes são limitados a essa magnitude para estabilizar o BPTT
const gradientClip = 5.0

// NewNetwork cria uma rede com pesos iniciais aleatórios uniformes.
// O seed permite treinamentos reprodutíveis em teste.
func NewNetwork(hiddenSize int, seed int64) *Network {
	rng := rand.New(rand.NewSource(seed))

	n := &Network{
		hiddenSize: hiddenSize,
		wxh:        make([]float64, hiddenSize),
		whh:        make([][]float64, hiddenSize),
		bh:         make([]float64, hiddenSize),
		why:        make([]float64, hiddenSize),
	}

	for i := 0; i < hiddenSize; i++ {
		n.wxh[i] = rng.Float64() - 0.5
		n.why[i] = rng.Float64() - 0.5
		n.whh[i] = make([]float64, hiddenSize)
		for j := 0; j < hiddenSize; j++ {
			n.whh[i][j] = (rng.Float64() - 0.5) * 0.5
		}
	}

	return n
}

// step avança a rede um passo: consome uma entrada e devolve o novo estado
// oculto e a saída prevista
func (n *Network) step(x float64, hPrev []float64) (h []float64, y float64) {
	h = make([]float64, n.hiddenSize)
	for i := 0; i < n.hiddenSize; i++ {
		sum := n.wxh[i]*x + n.bh[i]
		for j := 0; j < n.hiddenSize; j++ {
			sum += n.whh[i][j] * hPrev[j]
		}
		h[i] = math.Tanh(sum)
	}

	out := n.by
	for i := 0; i < n.hiddenSize; i++ {
		out += n.why[i] * h[i]
	}

	return h, sigmoid(out)
}

// TrainEpoch apresenta a série inteira como um exemplo, faz o BPTT completo
// e aplica uma atualização de gradiente. Retorna o erro quadrático médio da
// passada. A série precisa de ao menos 2 pontos (entrada e alvo).
func (n *Network) TrainEpoch(series []float64, learningRate float64) float64 {
	steps := len(series) - 1
	if steps < 1 {
		return 0
	}

	// Passada para frente, guardando estados para o backprop
	hs := make([][]float64, steps)
	ys := make([]float64, steps)
	hPrev := make([]float64, n.hiddenSize)

	mse := 0.0
	for t := 0; t < steps; t++ {
		h, y := n.step(series[t], hPrev)
		hs[t] = h
		ys[t] = y
		hPrev = h

		diff := y - series[t+1]
		mse += diff * diff
	}
	mse /= float64(steps)

	// Backpropagation through time
	dwxh := make([]float64, n.hiddenSize)
	dwhh := make([][]float64, n.hiddenSize)
	dbh := make([]float64, n.hiddenSize)
	dwhy := make([]float64, n.hiddenSize)
	dby := 0.0
	for i := range dwhh {
		dwhh[i] = make([]float64, n.hiddenSize)
	}

	dhNext := make([]float64, n.hiddenSize)
	for t := steps - 1; t >= 0; t-- {
		y := ys[t]
		// derivada do MSE composta com a sigmoide da saída
		do := (2.0 / float64(steps)) * (y - series[t+1]) * y * (1 - y)

		dby += do
		dh := make([]float64, n.hiddenSize)
		for i := 0; i < n.hiddenSize; i++ {
			dwhy[i] += do * hs[t][i]
			dh[i] = n.why[i]*do + dhNext[i]
		}

		var hBefore []float64
		if t > 0 {
			hBefore = hs[t-1]
		} else {
			hBefore = make([]float64, n.hiddenSize)
		}

		da := make([]float64, n.hiddenSize)
		for i := 0; i < n.hiddenSize; i++ {
			da[i] = dh[i] * (1 - hs[t][i]*hs[t][i])
			dwxh[i] += da[i] * series[t]
			dbh[i] += da[i]
			for j := 0; j < n.hiddenSize; j++ {
				dwhh[i][j] += da[i] * hBefore[j]
			}
		}

		for j := 0; j < n.hiddenSize; j++ {
			sum := 0.0
			for i := 0; i < n.hiddenSize; i++ {
				sum += n.whh[i][j] * da[i]
			}
			dhNext[j] = sum
		}
	}

	// Atualização com gradiente limitado
	n.by -= learningRate * clip(dby)
	for i := 0; i < n.hiddenSize; i++ {
		n.wxh[i] -= learningRate * clip(dwxh[i])
		n.bh[i] -= learningRate * clip(dbh[i])
		n.why[i] -= learningRate * clip(dwhy[i])
		for j := 0; j < n.hiddenSize; j++ {
			n.whh[i][j] -= learningRate * clip(dwhh[i][j])
		}
	}

	return mse
}

// Evaluate calcula o erro quadrático médio da série sem atualizar os pesos
func (n *Network) Evaluate(series []float64) float64 {
	steps := len(series) - 1
	if steps < 1 {
		return 0
	}

	hPrev := make([]float64, n.hiddenSize)
	mse := 0.0
	for t := 0; t < steps; t++ {
		h, y := n.step(series[t], hPrev)
		hPrev = h

		diff := y - series[t+1]
		mse += diff * diff
	}

	return mse / float64(steps)
}

// Forecast produz horizon previsões consecutivas: a rede é preparada com a
// série conhecida e, a partir daí, cada saída realimenta a entrada seguinte
// (previsão autoregressiva multi-passo embutida no modelo)
func (n *Network) Forecast(series []float64, horizon int) []float64 {
	if horizon < 1 || len(series) == 0 {
		return nil
	}

	hPrev := make([]float64, n.hiddenSize)
	var y float64
	for _, x := range series {
		hPrev, y = n.step(x, hPrev)
	}

	predictions := make([]float64, horizon)
	predictions[0] = y
	for i := 1; i < horizon; i++ {
		hPrev, y = n.step(predictions[i-1], hPrev)
		predictions[i] = y
	}

	return predictions
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func clip(g float64) float64 {
	if g > gradientClip {
		return gradientClip
	}
	if g < -gradientClip {
		return -gradientClip
	}
	return g
}

// networkState é o formato serializado dos pesos, persistido no artefato
type networkState struct {
	HiddenSize int         `json:"hidden_size"`
	Wxh        []float64   `json:"wxh"`
	Whh        [][]float64 `json:"whh"`
	Bh         []float64   `json:"bh"`
	Why        []float64   `json:"why"`
	By         float64     `json:"by"`
}

// MarshalJSON serializa os pesos da rede
func (n *Network) MarshalJSON() ([]byte, error) {
	return json.Marshal(networkState{
		HiddenSize: n.hiddenSize,
		Wxh:        n.wxh,
		Whh:        n.whh,
		Bh:         n.bh,
		Why:        n.why,
		By:         n.by,
	})
}

// UnmarshalJSON restaura os pesos de uma rede serializada, validando as
// dimensões para que um artefato truncado não produza uma rede inconsistente
func (n *Network) UnmarshalJSON(data []byte) error {
	var state networkState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}

	if state.HiddenSize < 1 {
		return fmt.Errorf("estado de rede com hidden_size inválido: %d", state.HiddenSize)
	}
	if len(state.Wxh) != state.HiddenSize ||
		len(state.Bh) != state.HiddenSize ||
		len(state.Why) != state.HiddenSize ||
		len(state.Whh) != state.HiddenSize {
		return fmt.Errorf("estado de rede com dimensões inconsistentes")
	}
	for _, row := range state.Whh {
		if len(row) != state.HiddenSize {
			return fmt.Errorf("estado de rede com dimensões inconsistentes")
		}
	}

	n.hiddenSize = state.HiddenSize
	n.wxh = state.Wxh
	n.whh = state.Whh
	n.bh = state.Bh
	n.why = state.Why
	n.by = state.By

	return nil
}
