package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/astdirectory/internal/flagx"
)

const defaultEnvFile = ".env"

// envBindings maps environment variables onto Config fields.
var envBindings = []struct {
	name  string
	field func(*Config) *string
}{
	{"AST_GRPC_ADDR", func(c *Config) *string { return &c.EndpointAddrGRPC }},
	{"AST_METRICS_ADDR", func(c *Config) *string { return &c.MetricsAddr }},
	{"AST_STORE_BACKEND", func(c *Config) *string { return &c.StoreBackend }},
	{"AST_PROVIDER_TABLE", func(c *Config) *string { return &c.ProviderTable }},
	{"AST_COURSE_TABLE", func(c *Config) *string { return &c.CourseTable }},
	{"AST_DATABASE_DSN", func(c *Config) *string { return &c.DatabaseDSN }},
	{"AST_DYNAMODB_ENDPOINT", func(c *Config) *string { return &c.DynamoDBEndpoint }},
	{"AST_LOG_LEVEL", func(c *Config) *string { return &c.LogLevel }},
	{"AWS_REGION", func(c *Config) *string { return &c.AWSRegion }},
	{"AWS_ACCESS_KEY_ID", func(c *Config) *string { return &c.AWSAccessKeyID }},
	{"AWS_SECRET_ACCESS_KEY", func(c *Config) *string { return &c.AWSSecretAccessKey }},
}

// parseEnv overlays config with environment variables. Values from a dotenv
// file (-env, or ./.env when present) are used for variables the process
// environment does not set.
func parseEnv(config *Config) {
	path := flagx.EnvFilePath(os.Args[1:])
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}

	file, err := godotenv.Read(path)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
		file = map[string]string{}
	}

	applyEnv(config, func(name string) (string, bool) {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			return v, true
		}
		v, ok := file[name]
		return v, ok
	})
}

func applyEnv(config *Config, lookup func(string) (string, bool)) {
	for _, b := range envBindings {
		if v, ok := lookup(b.name); ok && v != "" {
			*b.field(config) = v
		}
	}
}
