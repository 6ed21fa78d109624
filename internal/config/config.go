package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App         App         `mapstructure:",squash"`
	Server      Server      `mapstructure:",squash"`
	Database    Database    `mapstructure:",squash"`
	Forecast    Forecast    `mapstructure:",squash"`
	RetrainSync RetrainSync `mapstructure:",squash"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

// Forecast é a configuração do motor de previsão de vendas
type Forecast struct {
	ModelsDir      string  `mapstructure:"forecast_models_dir"`
	Iterations     int     `mapstructure:"forecast_iterations"`
	ErrorThreshold float64 `mapstructure:"forecast_error_threshold"`
	LearningRate   float64 `mapstructure:"forecast_learning_rate"`
	HiddenSize     int     `mapstructure:"forecast_hidden_size"`
	ProgressEvery  int     `mapstructure:"forecast_progress_every"`
	MaxDataPoints  int     `mapstructure:"forecast_max_data_points"`
}

// RetrainSync é a configuração do agendador de retreinamento
type RetrainSync struct {
	CronSchedule string `mapstructure:"retrain_sync_cron"`
	Enabled      bool   `mapstructure:"retrain_sync_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/sales")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	// Defaults do motor de previsão
	viper.SetDefault("FORECAST_MODELS_DIR", "./models")
	viper.SetDefault("FORECAST_ITERATIONS", 20000)
	viper.SetDefault("FORECAST_ERROR_THRESHOLD", 0.005)
	viper.SetDefault("FORECAST_LEARNING_RATE", 0.05)
	viper.SetDefault("FORECAST_HIDDEN_SIZE", 8)
	viper.SetDefault("FORECAST_PROGRESS_EVERY", 1000)  // cadência do callback de progresso
	viper.SetDefault("FORECAST_MAX_DATA_POINTS", 24)   // janela padrão de 24 meses

	// Defaults do agendador de retreinamento
	viper.SetDefault("RETRAIN_SYNC_CRON", "0 5 1 * *") // No primeiro dia de cada mês às 5h da manhã
	viper.SetDefault("RETRAIN_SYNC_ENABLED", false)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	// Configurar valores padrão
	SetDefaults()

	// Configurar o Viper
	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv() // Isso permite que o Viper leia variáveis de ambiente

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	// Obter diretório atual
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../.env"),            // Diretório acima
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
