package config

import "time"

// Application constants
const (
	AppName   = "skucheck"
	EnvPrefix = "SKUCHECK"

	// DefaultExportName is used when an export has no input name to derive from
	DefaultExportName = "dados_processados"
	// ExportSuffix is appended to the input base name for CLI exports
	ExportSuffix = "_processado"

	DefaultMaxUploadBytes = 64 << 20

	DefaultHTTPTimeout  = 30 * time.Second
	WebSocketPingPeriod = 30 * time.Second
	WebSocketPongWait   = 60 * time.Second

	DefaultDataDir    = "data"
	DefaultExportsDir = "data/exports"
	DefaultLogsDir    = "logs"
)
