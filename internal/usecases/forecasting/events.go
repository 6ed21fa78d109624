package forecasting

// EventType identifica um evento do ciclo de vida de uma requisição de
// treinamento/previsão. A sequência válida por requisição é:
//
//	start → progress* → validation? → (complete | error)
//
// ou, quando um modelo persistido é reaproveitado:
//
//	model-loaded → validation? → (complete | error)
type EventType string

const (
	EventStart       EventType = "start"
	EventProgress    EventType = "progress"
	EventModelLoaded EventType = "model-loaded"
	EventValidation  EventType = "validation"
	EventComplete    EventType = "complete"
	EventError       EventType = "error"
)

// Event é um evento tipado do ciclo de vida, independente do transporte.
// O adaptador da camada HTTP decide como serializar cada evento no fio.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// EmitFunc entrega um evento ao consumidor do stream. A entrega é síncrona:
// o fluxo de treinamento fica bloqueado até o evento ser escrito.
type EmitFunc func(Event)

// StartPayload acompanha o evento start
type StartPayload struct {
	Message    string `json:"message"`
	DataPoints int    `json:"data_points"`
}

// ProgressPayload acompanha o evento progress; Iterations é estritamente
// crescente dentro de uma mesma requisição
type ProgressPayload struct {
	Iterations int     `json:"iterations"`
	Error      float64 `json:"error"`
}

// ModelLoadedPayload acompanha o evento model-loaded
type ModelLoadedPayload struct {
	ModelName  string  `json:"model_name"`
	DataPoints int     `json:"data_points"`
	FinalError float64 `json:"final_error"`
}

// ErrorPayload acompanha o evento terminal error. Code segue os códigos de
// pkg/apiErrors, para o cliente tratar o stream e as respostas síncronas
// com a mesma tabela.
type ErrorPayload struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// discardEvents é um EmitFunc que ignora os eventos. Usado pelo agendador
// de retreinamento, que reporta progresso apenas via log.
func discardEvents(Event) {}
