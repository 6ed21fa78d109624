package domain

// Origem do modelo usado em uma previsão
const (
	ModelSourceTrained = "trained"
	ModelSourceLoaded  = "loaded"
)

// ForecastPoint é um ponto previsto para um mês futuro do calendário
type ForecastPoint struct {
	Year                 int     `json:"year"`
	Month                int     `json:"month"`
	MonthName            string  `json:"month_name"`
	Date                 string  `json:"date"`
	NormalizedPrediction float64 `json:"normalized_prediction"`
	PredictedSales       float64 `json:"predicted_sales"`
}

// Normalization expõe os parâmetros de escala usados na previsão
type Normalization struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Range float64 `json:"range"`
}

// ModelInfo descreve a proveniência do modelo usado em uma previsão
type ModelInfo struct {
	Source     string  `json:"source"` // trained ou loaded
	FinalError float64 `json:"final_error"`
	Iterations int     `json:"iterations"`
}

// ValidationDetail é a comparação de um ponto do holdout com o valor previsto
type ValidationDetail struct {
	Year           int     `json:"year"`
	Month          int     `json:"month"`
	Actual         float64 `json:"actual"`
	Predicted      float64 `json:"predicted"`
	ActualSales    float64 `json:"actual_sales"`
	PredictedSales float64 `json:"predicted_sales"`
}

// ValidationReport é o resultado da validação walk-forward (backtesting).
// MAPE considera apenas pontos com valor real diferente de zero.
type ValidationReport struct {
	MSE     float64            `json:"mse"`
	MAPE    float64            `json:"mape"`
	Details []ValidationDetail `json:"details"`
}

// ForecastResult é o payload terminal de uma previsão
type ForecastResult struct {
	Predictions    []ForecastPoint   `json:"predictions"`
	Normalization  Normalization     `json:"normalization"`
	ModelInfo      ModelInfo         `json:"model_info"`
	RawData        []HistoricalEntry `json:"raw_data"`
	NormalizedData []float64         `json:"normalized_data"`
}

// TrainResult é o payload terminal de um treinamento
type TrainResult struct {
	ModelSaved bool           `json:"modelSaved"`
	ModelPath  string         `json:"modelPath"`
	Metadata   *ModelMetadata `json:"metadata"`
}
