package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/astdirectory/internal/flagx"
)

// JsonConfig mirrors Config for JSON files. Absent keys leave the current
// value untouched.
type JsonConfig struct {
	EndpointAddrGRPC   string `json:"endpoint_addr_grpc"`
	MetricsAddr        string `json:"metrics_addr"`
	StoreBackend       string `json:"store_backend"`
	ProviderTable      string `json:"provider_table"`
	CourseTable        string `json:"course_table"`
	DatabaseDSN        string `json:"database_dsn"`
	AWSRegion          string `json:"aws_region"`
	AWSAccessKeyID     string `json:"aws_access_key_id"`
	AWSSecretAccessKey string `json:"aws_secret_access_key"`
	DynamoDBEndpoint   string `json:"dynamodb_endpoint"`
	LogLevel           string `json:"log_level"`
}

// parseJson overlays config with the JSON file named by -c or -config. Without
// either flag nothing is loaded. Read and decode errors panic.
func parseJson(config *Config) {

	jsonConfigFile := flagx.ConfigPath(os.Args[1:])

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	overlay(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	overlay(&config.MetricsAddr, c.MetricsAddr)
	overlay(&config.StoreBackend, c.StoreBackend)
	overlay(&config.ProviderTable, c.ProviderTable)
	overlay(&config.CourseTable, c.CourseTable)
	overlay(&config.DatabaseDSN, c.DatabaseDSN)
	overlay(&config.AWSRegion, c.AWSRegion)
	overlay(&config.AWSAccessKeyID, c.AWSAccessKeyID)
	overlay(&config.AWSSecretAccessKey, c.AWSSecretAccessKey)
	overlay(&config.DynamoDBEndpoint, c.DynamoDBEndpoint)
	overlay(&config.LogLevel, c.LogLevel)
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
