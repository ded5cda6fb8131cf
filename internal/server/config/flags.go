package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/astdirectory/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string                gRPC bind address (e.g., ":50051")
//	-m string                metrics bind address (e.g., ":9090")
//	-b string                store backend: dynamodb, postgres or memory
//	-provider-table string   provider table name
//	-course-table string     course table name
//	-d string                PostgreSQL DSN
//	-g string                AWS region
//	-e string                DynamoDB endpoint override
//	-u string                AWS access key id
//	-s string                AWS secret access key
//	-l string                log level
//
// os.Args is filtered with flagx.FilterArgs first, so -c, -config and -env
// do not trip the parser.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:],
		"-a", "-m", "-b", "-provider-table", "-course-table", "-d", "-g", "-e", "-u", "-s", "-l")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "address and port to serve metrics")
	fs.StringVar(&config.StoreBackend, "b", config.StoreBackend, "store backend (dynamodb, postgres, memory)")
	fs.StringVar(&config.ProviderTable, "provider-table", config.ProviderTable, "provider table name")
	fs.StringVar(&config.CourseTable, "course-table", config.CourseTable, "course table name")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.AWSRegion, "g", config.AWSRegion, "AWS region")
	fs.StringVar(&config.DynamoDBEndpoint, "e", config.DynamoDBEndpoint, "DynamoDB endpoint")
	fs.StringVar(&config.AWSAccessKeyID, "u", config.AWSAccessKeyID, "AWS access key id")
	fs.StringVar(&config.AWSSecretAccessKey, "s", config.AWSSecretAccessKey, "AWS secret access key")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
