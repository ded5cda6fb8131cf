package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/astdirectory/internal/async"
	"github.com/dmitrijs2005/astdirectory/internal/client/client"
	"github.com/dmitrijs2005/astdirectory/internal/client/config"
)

// ErrUsage is returned for unknown commands and wrong operand counts.
var ErrUsage = errors.New("usage")

type App struct {
	config *config.Config
	client client.Client
	in     io.Reader
	out    io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewDirectoryClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}
	return &App{config: c, client: apiClient, in: os.Stdin, out: os.Stdout}, nil
}

func (a *App) Close() error {
	return a.client.Close()
}

// Operands strips the global flags from args and returns the command with its
// operands.
func Operands(args []string) ([]string, error) {
	fs := flag.NewFlagSet("astcli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.String("a", "", "")
	fs.String("c", "", "")
	fs.String("config", "", "")
	fs.String("t", "", "")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return fs.Args(), nil
}

// command describes one CLI verb. operands names the positional arguments;
// run receives them in the same order.
type command struct {
	operands []string
	help     string
	run      func(a *App, ctx context.Context, args []string) (any, error)
}

// Run executes one command. args[0] is the command name.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" {
		a.printHelp()
		return nil
	}

	cmd, ok := commands[args[0]]
	if !ok {
		a.printHelp()
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	if len(args)-1 != len(cmd.operands) {
		return fmt.Errorf("%w: %s %v", ErrUsage, args[0], cmd.operands)
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	// Await gives up at the deadline even when the call does not honour ctx.
	result, err := async.Go(ctx, func(ctx context.Context) (any, error) {
		return cmd.run(a, ctx, args[1:])
	}).Await(ctx)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	return a.print(result)
}

func (a *App) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readPayload decodes the JSON in path, or standard input for "-", into out.
func (a *App) readPayload(path string, out any) error {
	var r io.Reader = a.in
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("read payload %s: %w", path, err)
	}
	return nil
}
