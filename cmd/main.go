package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	qhttp "attorneypredict/http"
	"attorneypredict/logging"
	"attorneypredict/ml"
)

type Config struct {
	Http struct {
		Port           int           `yaml:"port"`
		Timeout        time.Duration `yaml:"timeout"`
		MaxBodyBytes   int64         `yaml:"max_body_bytes"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
	} `yaml:"http"`
	Log   logging.Config `yaml:"log"`
	Model struct {
		Type           string `yaml:"type"`
		Path           string `yaml:"path"`
		OnMissingField string `yaml:"on_missing_field"`
		CacheSize      int    `yaml:"cache_size"`
		Watch          bool   `yaml:"watch"`
	} `yaml:"model"`
}

func main() {
	// Look for config in root even if run from cmd/
	configPath := "config.yaml"
	baseDir := "."
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		configPath = filepath.Join("..", "config.yaml")
		baseDir = ".."
	}

	// 1. Load config
	config, err := loadConfig(configPath)
	if err != nil {
		zap.NewExample().Fatal("failed to load config", zap.String("path", configPath), zap.Error(err))
	}
	resolvePaths(config, baseDir)

	logger, err := logging.New(config.Log)
	if err != nil {
		zap.NewExample().Fatal("failed to build logger", zap.Error(err))
	}
	defer logger.Sync()
	qhttp.SetLogger(logger)

	// 2. Load the model artifact; the service cannot run without it
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := initializeServices(ctx, config, logger); err != nil {
		logger.Fatal("failed to initialize model", zap.String("path", config.Model.Path), zap.Error(err))
	}

	// 3. Start HTTP server
	server := qhttp.NewServer(serverConfig(config))
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 4. Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	if err := server.Stop(); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("exiting")
}

func loadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, err
	}
	applyDefaults(&config)
	return &config, nil
}

func applyDefaults(config *Config) {
	defaults := qhttp.DefaultServerConfig()
	if config.Http.Port == 0 {
		config.Http.Port = defaults.Port
	}
	if config.Http.Timeout == 0 {
		config.Http.Timeout = defaults.Timeout
	}
	if config.Http.MaxBodyBytes == 0 {
		config.Http.MaxBodyBytes = defaults.MaxBodyBytes
	}
	if len(config.Http.AllowedOrigins) == 0 {
		config.Http.AllowedOrigins = defaults.AllowedOrigins
	}
	if config.Model.Type == "" {
		config.Model.Type = ml.ModelTypeRandomForest
	}
	if config.Model.Path == "" {
		config.Model.Path = "models/attorney_rf.json"
	}
}

// resolvePaths rebases relative file paths onto the directory holding
// config.yaml.
func resolvePaths(config *Config, baseDir string) {
	if !filepath.IsAbs(config.Model.Path) {
		config.Model.Path = filepath.Join(baseDir, config.Model.Path)
	}
	if config.Log.File != "" && !filepath.IsAbs(config.Log.File) {
		config.Log.File = filepath.Join(baseDir, config.Log.File)
	}
}

func serverConfig(config *Config) qhttp.ServerConfig {
	return qhttp.ServerConfig{
		Port:           config.Http.Port,
		Timeout:        config.Http.Timeout,
		MaxBodyBytes:   config.Http.MaxBodyBytes,
		AllowedOrigins: config.Http.AllowedOrigins,
	}
}

func initializeServices(ctx context.Context, config *Config, logger *zap.Logger) error {
	policy, err := ml.ParseMissingPolicy(config.Model.OnMissingField)
	if err != nil {
		return err
	}

	handle := ml.NewModelHandle(config.Model.Type, config.Model.Path)
	model, err := handle.Get()
	if err != nil {
		return err
	}

	predictor, err := ml.NewPredictor(model, policy).WithCache(config.Model.CacheSize)
	if err != nil {
		return err
	}
	qhttp.SetModelProvider(predictor)
	qhttp.SetModelInfo(qhttp.ModelInfo{
		ModelType:      config.Model.Type,
		Path:           handle.Path(),
		FeatureNames:   predictor.Model().FeatureNames(),
		Classes:        predictor.Model().Classes(),
		OnMissingField: string(predictor.Policy()),
	})
	logger.Info("model loaded",
		zap.String("type", config.Model.Type),
		zap.String("path", handle.Path()),
		zap.Strings("features", predictor.Model().FeatureNames()),
		zap.String("on_missing_field", string(predictor.Policy())),
		zap.Int("cache_size", config.Model.CacheSize))

	if config.Model.Watch {
		if err := ml.WatchArtifact(ctx, handle.Path(), logger); err != nil {
			logger.Warn("artifact watcher disabled", zap.Error(err))
		}
	}
	return nil
}
