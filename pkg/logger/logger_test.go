package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/finanzas-api/pkg/logger"
)

func TestNew_JSONConNivelYComponente(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "warn", Service: "finanzas-api", Out: &buf})

	l.Info().Msg("descartado")
	assert.Zero(t, buf.Len(), "info por debajo de warn")

	c := l.Component("ledger")
	c.Warn().Str("owner_id", "u1").Msg("aviso")

	var ev map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &ev))
	assert.Equal(t, "warn", ev["level"])
	assert.Equal(t, "ledger", ev["component"])
	assert.Equal(t, "finanzas-api", ev["service"])
	assert.Equal(t, "u1", ev["owner_id"])
}
