package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults only",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "json", cfg.Upload.DefaultFormat)
				assert.Equal(t, int64(DefaultMaxUploadBytes), cfg.Upload.MaxBytes)
				assert.Equal(t, DefaultColumnAliases(), cfg.Columns)
				assert.Equal(t, "prometheus", cfg.Telemetry.MetricExporter)
			},
		},
		{
			name: "yaml file overrides defaults",
			file: `
server:
  port: 9090
  read_timeout: 5s
logging:
  level: debug
columns:
  price: ["Preco Unitario"]
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, []string{"Preco Unitario"}, cfg.Columns.Price)
				assert.Equal(t, DefaultColumnAliases().Description, cfg.Columns.Description)
			},
		},
		{
			name: "environment overrides file",
			file: "server:\n  port: 9090\n",
			env: map[string]string{
				"SKUCHECK_SERVER_PORT":         "7070",
				"SKUCHECK_COLUMNS_DESCRIPTION": "Nome Produto,Descricao",
				"SKUCHECK_UPLOAD_MAX_BYTES":    "1024",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, []string{"Nome Produto", "Descricao"}, cfg.Columns.Description)
				assert.Equal(t, int64(1024), cfg.Upload.MaxBytes)
			},
		},
		{
			name:    "invalid port",
			env:     map[string]string{"SKUCHECK_SERVER_PORT": "70000"},
			wantErr: true,
		},
		{
			name:    "invalid log level",
			file:    "logging:\n  level: verbose\n",
			wantErr: true,
		},
		{
			name:    "empty required alias list",
			file:    "columns:\n  category: []\n",
			wantErr: true,
		},
		{
			name:    "unknown trace exporter",
			env:     map[string]string{"SKUCHECK_TELEMETRY_TRACE_EXPORTER": "jaeger"},
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			file:    "server: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			t.Setenv("SKUCHECK_CONFIG", "")

			path := ""
			if tt.file != "" {
				path = writeConfig(t, tt.file)
			}

			cfg, err := Load(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidateWebSocketTimings(t *testing.T) {
	cfg := Default()
	cfg.WebSocket.PongWait = cfg.WebSocket.PingPeriod / 2
	assert.Error(t, cfg.Validate())
}

func TestDefaultColumnAliases(t *testing.T) {
	aliases := DefaultColumnAliases()
	assert.Equal(t, []string{"Descripcion", "PROD_NOMBRE_ORIGINAL", "Nome SKU"}, aliases.Description)
	assert.Equal(t, []string{"Contenido", "Qtd Conteúdo SKU"}, aliases.DeclaredContent)
	assert.Equal(t, []string{"Precio KG/LT", "Preço convertido kg/lt R$", "Preço kg/lt"}, aliases.Price)
	assert.Equal(t, []string{"Est Mer 7 (Subcategoria)", "NIVEL1"}, aliases.Category)
	assert.Equal(t, []string{"Imp Vta (Ult.24 Meses)", "Vendas em volume"}, aliases.SalesVolume)
}
