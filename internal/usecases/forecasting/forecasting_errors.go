package forecasting

import (
	"errors"
	"fmt"

	"github.com/vfg2006/sales-forecast-api/pkg/apiErrors"
)

// Erros específicos para o contexto de previsão de vendas
var (
	// Erros de validação de parâmetros
	ErrInvalidHorizon       = errors.New("months_ahead deve estar entre 1 e 60")
	ErrInvalidMaxDataPoints = errors.New("max_data_points deve ser no mínimo 12")
	ErrInvalidIterations    = errors.New("iterations não pode ser negativo")

	// Erros de dados
	ErrInsufficientData = errors.New("histórico de vendas insuficiente para treinar o modelo")

	// Erros de treinamento
	ErrTrainingFailure = errors.New("falha inesperada durante o treinamento")
)

// ForecastError é um erro com contexto adicional para o fluxo de previsão
type ForecastError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	Details string // Detalhes adicionais
}

// Error implementa a interface error
func (e *ForecastError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *ForecastError) Unwrap() error {
	return e.Err
}

// NewForecastError cria um novo ForecastError
func NewForecastError(err error, code string, details string) *ForecastError {
	return &ForecastError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

// IsValidationError indica se o erro é de validação de parâmetros,
// rejeitável antes da negociação do stream
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidHorizon) ||
		errors.Is(err, ErrInvalidMaxDataPoints) ||
		errors.Is(err, ErrInvalidIterations)
}

// AsForecastError classifica um erro do fluxo de previsão com o código de
// API correspondente, preservando o erro original via Unwrap. Erros já
// classificados passam intactos.
func AsForecastError(err error) *ForecastError {
	var ferr *ForecastError
	if errors.As(err, &ferr) {
		return ferr
	}

	code := apiErrors.ErrInternalServer
	switch {
	case IsValidationError(err):
		code = apiErrors.ErrInvalidRequest
	case errors.Is(err, ErrInsufficientData):
		code = apiErrors.ErrInsufficientData
	case errors.Is(err, ErrTrainingFailure):
		code = apiErrors.ErrTraining
	}

	return NewForecastError(err, code, "")
}
