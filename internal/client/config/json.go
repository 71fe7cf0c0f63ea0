package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/passvault-io/passvault/internal/flagx"
	"github.com/passvault-io/passvault/internal/timex"
)

// JsonConfig is the DTO for reading JSON configuration files. Interval
// fields accept both duration strings ("15s") and integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
	ClipboardTTL       timex.Duration `json:"clipboard_ttl"`
}

// parseJson loads configuration values from the JSON file named by the -c
// or -config flags. When neither is set, nothing is loaded. An unreadable
// or malformed file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.ServerEndpointAddr = c.ServerEndpointAddr
	config.RequestTimeout = time.Duration(c.RequestTimeout.Duration)
	config.ClipboardTTL = time.Duration(c.ClipboardTTL.Duration)
}
