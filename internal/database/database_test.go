package database_test

import (
	"bytes"
	"testing"

	"todoapp/internal/config"
	"todoapp/internal/database"
	"todoapp/internal/models"
	"todoapp/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestOpen_RoutesGormLogsThroughLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{
		DatabaseDriver:       "sqlite",
		DatabaseDSN:          "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		DatabaseMaxOpenConns: 1,
	}

	db, err := database.Open(cfg, logger.New("info", &buf))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(db))
	buf.Reset()

	var user models.User
	err = db.First(&user, "username = ?", "nobody").Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String(), "missing rows are not logged")

	// Invalid SQL is a real failure and reaches the structured logger.
	_ = db.Exec("SELECT * FROM no_such_table").Error
	assert.Contains(t, buf.String(), `"level":"info"`)
	assert.Contains(t, buf.String(), "no_such_table")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := database.Open(&config.Config{DatabaseDriver: "mysql"}, logger.New("info", &bytes.Buffer{}))
	assert.Error(t, err)
}
