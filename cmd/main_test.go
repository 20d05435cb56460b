package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	qhttp "attorneypredict/http"
	"attorneypredict/ml"
)

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model:\n  on_missing_field: reject\n"), 0o600))

	config, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, config.Http.Port)
	assert.Equal(t, 30*time.Second, config.Http.Timeout)
	assert.Equal(t, "random_forest", config.Model.Type)
	assert.Equal(t, "models/attorney_rf.json", config.Model.Path)
	assert.Equal(t, "reject", config.Model.OnMissingField)
}

func TestLoadConfigRepositoryFile(t *testing.T) {
	config, err := loadConfig(filepath.Join("..", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "default_zero", config.Model.OnMissingField)
	assert.Equal(t, 1024, config.Model.CacheSize)
	assert.True(t, config.Model.Watch)
}

func TestResolvePaths(t *testing.T) {
	config := &Config{}
	config.Model.Path = "models/attorney_rf.json"
	config.Log.File = "logs/attorneypredict.log"
	resolvePaths(config, "..")
	assert.Equal(t, filepath.Join("..", "models", "attorney_rf.json"), config.Model.Path)
	assert.Equal(t, filepath.Join("..", "logs", "attorneypredict.log"), config.Log.File)

	abs := filepath.Join(t.TempDir(), "service.log")
	config = &Config{}
	config.Model.Path = "/srv/model.json"
	config.Log.File = abs
	resolvePaths(config, "..")
	assert.Equal(t, "/srv/model.json", config.Model.Path)
	assert.Equal(t, abs, config.Log.File)

	// stderr only
	config = &Config{}
	resolvePaths(config, "..")
	assert.Empty(t, config.Log.File)
}

func testConfig(path string) *Config {
	config := &Config{}
	config.Model.Path = path
	applyDefaults(config)
	return config
}

func resetServices(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		qhttp.SetModelProvider(nil)
		qhttp.SetModelInfo(qhttp.ModelInfo{})
	})
}

func TestInitializeServicesMissingArtifact(t *testing.T) {
	resetServices(t)
	config := testConfig(filepath.Join(t.TempDir(), "absent.json"))

	err := initializeServices(context.Background(), config, zap.NewNop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ml.ErrArtifact), err.Error())
}

func TestInitializeServicesUnknownPolicy(t *testing.T) {
	resetServices(t)
	config := testConfig(filepath.Join("..", "models", "attorney_rf.json"))
	config.Model.OnMissingField = "ignore"

	err := initializeServices(context.Background(), config, zap.NewNop())
	assert.Error(t, err)
}

func TestInitializeServicesLoadsModel(t *testing.T) {
	resetServices(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config := testConfig(filepath.Join("..", "models", "attorney_rf.json"))
	config.Model.CacheSize = 16
	config.Model.Watch = true
	require.NoError(t, initializeServices(ctx, config, zap.NewNop()))

	handler := qhttp.NewHandler(serverConfig(config))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/model", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var info qhttp.ModelInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &info))
	assert.Equal(t, "random_forest", info.ModelType)
	assert.Equal(t, "default_zero", info.OnMissingField)
	assert.Len(t, info.FeatureNames, 12)
	assert.Equal(t, []int{0, 1}, info.Classes)
}
