package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-forecast-api/internal/config"
	"github.com/vfg2006/sales-forecast-api/internal/usecases/forecasting"
)

// RetrainSyncConfig representa a configuração do agendador de retreinamento
type RetrainSyncConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// RetrainSyncService agenda retreinamentos periódicos do modelo de previsão,
// mantendo o artefato "latest" atualizado com o histórico mais recente. O
// progresso é reportado apenas via log; não há stream de cliente envolvido.
type RetrainSyncService struct {
	scheduler *gocron.Scheduler
	config    RetrainSyncConfig
	engine    forecasting.Engine

	// syncMutex protege todo o estado de execução abaixo; Status() é
	// chamado pelo endpoint de operação enquanto RunNow roda em goroutine
	syncMutex           sync.Mutex
	syncRunning         bool
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSyncError       string
}

// NewRetrainSyncService cria uma nova instância do serviço de retreinamento agendado
func NewRetrainSyncService(
	engine forecasting.Engine,
	appConfig *config.Config,
) *RetrainSyncService {
	syncConfig := RetrainSyncConfig{
		CronSchedule: appConfig.RetrainSync.CronSchedule,
		SyncEnabled:  appConfig.RetrainSync.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
		"sync_enabled":  syncConfig.SyncEnabled,
	}).Info("Configuração do agendador de retreinamento carregada")

	return &RetrainSyncService{
		scheduler:   scheduler,
		config:      syncConfig,
		engine:      engine,
		syncRunning: false,
	}
}

// Start inicia o agendador
func (s *RetrainSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Retreinamento agendado desabilitado por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de retreinamento do modelo")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.RunNow()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar retreinamento do modelo: %w", err)
	}

	// Executar o agendador em uma goroutine separada
	s.scheduler.StartAsync()

	// Configurar o cancelamento do agendador quando o contexto for cancelado
	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de retreinamento do modelo")
		s.scheduler.Stop()
	}()

	return nil
}

// RunNow executa um ciclo de retreinamento imediatamente. Execuções
// sobrepostas são ignoradas: o treinamento é uma operação longa e não deve
// rodar em paralelo consigo mesmo.
func (s *RetrainSyncService) RunNow() {
	startTime := time.Now()

	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Retreinamento já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.lastSyncStartedAt = startTime
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	logrus.Info("Iniciando retreinamento agendado do modelo de previsão")

	result, err := s.engine.Train(forecasting.TrainOptions{}, nil)

	s.syncMutex.Lock()
	if err != nil {
		s.lastSyncError = err.Error()
	} else {
		s.lastSyncCompletedAt = time.Now()
		s.lastSyncError = ""
	}
	s.syncMutex.Unlock()

	if err != nil {
		logrus.WithError(err).Error("Erro no retreinamento agendado do modelo")
		return
	}

	logrus.WithFields(logrus.Fields{
		"model_path":  result.ModelPath,
		"final_error": result.Metadata.TrainingParams.FinalError,
		"iterations":  result.Metadata.TrainingParams.ActualIterations,
		"duration":    time.Since(startTime).String(),
	}).Info("Retreinamento agendado concluído com sucesso")
}

// Status retorna o estado atual do agendador para o endpoint de operação
func (s *RetrainSyncService) Status() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	status := map[string]any{
		"enabled":       s.config.SyncEnabled,
		"cron_schedule": s.config.CronSchedule,
		"running":       s.syncRunning,
	}

	if !s.lastSyncStartedAt.IsZero() {
		status["last_started_at"] = s.lastSyncStartedAt
	}
	if !s.lastSyncCompletedAt.IsZero() {
		status["last_completed_at"] = s.lastSyncCompletedAt
	}
	if s.lastSyncError != "" {
		status["last_error"] = s.lastSyncError
	}

	return status
}
