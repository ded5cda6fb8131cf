package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/astdirectory/internal/flagx"
)

// JsonConfig is the on-disk form of Config. Timeout is a duration string.
type JsonConfig struct {
	ServerEndpointAddr string `json:"server_endpoint_addr"`
	Timeout            string `json:"timeout"`
}

// parseJson overlays cfg with the JSON file named by -c or -config. Read,
// decode and duration errors panic.
func parseJson(cfg *Config, args []string) {
	jsonConfigFile := flagx.ConfigPath(args)
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

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.Timeout != "" {
		d, err := time.ParseDuration(jc.Timeout)
		if err != nil {
			panic(err)
		}
		cfg.Timeout = d
	}
}
