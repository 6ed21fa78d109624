package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-forecast-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-forecast-api/infrastructure/modelstore"
	"github.com/vfg2006/sales-forecast-api/infrastructure/repository"
	"github.com/vfg2006/sales-forecast-api/internal/api"
	"github.com/vfg2006/sales-forecast-api/internal/config"
	"github.com/vfg2006/sales-forecast-api/internal/scheduler"
	"github.com/vfg2006/sales-forecast-api/internal/usecases/forecasting"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	salesHistoryRepo := repository.NewSalesHistoryRepository(pgConn)

	store, err := modelstore.New(cfg.Forecast.ModelsDir)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao inicializar o armazenamento de modelos")
	}

	engine := forecasting.NewService(cfg, salesHistoryRepo, store)

	retrainSyncService := scheduler.NewRetrainSyncService(engine, cfg)

	if err := retrainSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de retreinamento do modelo")
	} else {
		logrus.Info("Agendador de retreinamento do modelo iniciado com sucesso")
	}

	server, err := api.New(cfg, engine, retrainSyncService)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
