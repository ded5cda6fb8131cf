package config

import (
	"flag"

	"github.com/dmitrijs2005/astdirectory/internal/flagx"
)

// parseFlags populates Config fields from -a and -t. Other arguments, such as
// the command and its operands, are left to the CLI.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, "-a", "-t")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.DurationVar(&cfg.Timeout, "t", cfg.Timeout, "per-call timeout")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
