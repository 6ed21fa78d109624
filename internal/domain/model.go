package domain

import (
	"fmt"
	"time"
)

// ModelTypeElman identifica o tipo de modelo recorrente treinado pelo serviço
const ModelTypeElman = "elman-rnn"

// TrainingParams registra a configuração e o resultado de um treinamento
type TrainingParams struct {
	Iterations       int     `json:"iterations"`
	ErrorThreshold   float64 `json:"error_threshold"`
	LearningRate     float64 `json:"learning_rate"`
	FinalError       float64 `json:"final_error"`
	ActualIterations int     `json:"actual_iterations"`
}

// SalesDate identifica um período (ano, mês) do calendário
type SalesDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// AtOrAfter indica se a data é igual ou posterior a outra, comparando
// primeiro o ano e depois o mês
func (d SalesDate) AtOrAfter(other SalesDate) bool {
	if d.Year != other.Year {
		return d.Year > other.Year
	}
	return d.Month >= other.Month
}

// ModelMetadata descreve um artefato de modelo persistido. Os campos de
// normalização permitem reaplicar a mesma escala do treinamento em novas previsões.
type ModelMetadata struct {
	DataPoints     int            `json:"data_points"`
	MinSales       float64        `json:"min_sales"`
	MaxSales       float64        `json:"max_sales"`
	Range          float64        `json:"range"`
	TrainingParams TrainingParams `json:"training_params"`
	LastSalesDate  SalesDate      `json:"last_sales_date"`
	CreatedAt      time.Time      `json:"created_at"`
	ModelType      string         `json:"model_type"`
}

// Validate verifica se os metadados carregados de um artefato têm um formato
// minimamente coerente. Um artefato com metadados inválidos é tratado como corrompido.
func (m *ModelMetadata) Validate() error {
	if m.ModelType == "" {
		return fmt.Errorf("metadados sem model_type")
	}
	if m.DataPoints < 2 {
		return fmt.Errorf("metadados com data_points inválido: %d", m.DataPoints)
	}
	if m.Range <= 0 {
		return fmt.Errorf("metadados com range inválido: %f", m.Range)
	}
	if m.LastSalesDate.Year == 0 || m.LastSalesDate.Month < 1 || m.LastSalesDate.Month > 12 {
		return fmt.Errorf("metadados com last_sales_date inválido: %+v", m.LastSalesDate)
	}
	return nil
}

// ModelSummary é uma linha da listagem de artefatos para visibilidade do operador.
// Artefatos ilegíveis aparecem com ParseError preenchido em vez de derrubar a listagem.
type ModelSummary struct {
	Filename   string         `json:"filename"`
	Size       int64          `json:"size"`
	CreatedAt  time.Time      `json:"created_at"`
	Metadata   *ModelMetadata `json:"metadata,omitempty"`
	ParseError string         `json:"parse_error,omitempty"`
}
