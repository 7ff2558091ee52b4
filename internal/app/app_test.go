package app_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"employee-directory/internal/app"
	"employee-directory/internal/core/config"
	"employee-directory/internal/domain"
)

func TestNewBootstrapsStorage(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	cfg.DB.DSN = filepath.Join(t.TempDir(), "app.db")

	a, err := app.New(cfg, zap.NewNop(), prometheus.NewRegistry())
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Service.Ping(context.Background()))
	e, err := a.Service.Create(context.Background(), domain.EmployeeFields{
		Name: "Ann", Email: "ann@example.com", Position: "QA", Phone: "1234567890",
	})
	require.NoError(t, err)
	assert.Positive(t, e.ID)
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	cfg.DB.Driver = "oracle"

	_, err = app.New(cfg, zap.NewNop(), nil)
	assert.Error(t, err)
}
