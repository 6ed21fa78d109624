package handler

import (
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/sales-forecast-api/internal/usecases/forecasting"
	"github.com/vfg2006/sales-forecast-api/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// eventStream adapta os eventos tipados do motor de previsão para o fio,
// como Server-Sent Events: um objeto JSON por frame, entrega síncrona com
// flush imediato. O stream é unidirecional; a conexão é encerrada pelo
// servidor após o evento terminal.
type eventStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
	logger  log.Logger
}

// newEventStream negocia o stream: define os cabeçalhos de SSE e valida que
// o writer suporta flush. Depois deste ponto, erros viram eventos terminais
// em vez de respostas HTTP.
func newEventStream(w http.ResponseWriter, r *http.Request) (*eventStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming não suportado pelo writer da resposta")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	return &eventStream{
		w:       w,
		flusher: flusher,
		logger:  log.ForContext(r.Context()),
	}, nil
}

// Send escreve um evento no stream. A assinatura casa com forecasting.EmitFunc.
func (s *eventStream) Send(event forecasting.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.WithError(err).WithField("event_type", event.Type).
			Error("stream: erro ao serializar evento")
		return
	}

	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		// Cliente desconectado: o treinamento em andamento não é
		// interrompido, apenas paramos de conseguir escrever
		s.logger.WithError(err).Warn("stream: erro ao escrever evento, cliente possivelmente desconectado")
		return
	}

	s.flusher.Flush()
}
