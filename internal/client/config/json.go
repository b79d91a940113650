package config

import (
	"encoding/json"
	"os"
	"time"

	"medai/internal/flagx"
	"medai/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the timeout either as a string like
// "60s" or as integer nanoseconds.
type JsonConfig struct {
	Mode           string         `json:"mode"`
	ServerAddr     string         `json:"server_addr"`
	PredictionAddr string         `json:"prediction_addr"`
	DatabasePath   string         `json:"database_path"`
	PredictTimeout timex.Duration `json:"predict_timeout"`
	HistoryLimit   int            `json:"history_limit"`
}

// parseJson overlays Config with values loaded from a JSON file located via
// the -c/-config flags. Absent file means no overlay; read or unmarshal
// errors panic (caller should recover if desired). Zero values in the file
// leave the corresponding Config fields untouched.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.Mode != "" {
		cfg.Mode = jc.Mode
	}
	if jc.ServerAddr != "" {
		cfg.ServerAddr = jc.ServerAddr
	}
	if jc.PredictionAddr != "" {
		cfg.PredictionAddr = jc.PredictionAddr
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.PredictTimeout.Duration > 0 {
		cfg.PredictTimeout = time.Duration(jc.PredictTimeout.Duration)
	}
	if jc.HistoryLimit > 0 {
		cfg.HistoryLimit = jc.HistoryLimit
	}
}
