package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/dmitrijs2005/astdirectory/internal/client/cli"
	"github.com/dmitrijs2005/astdirectory/internal/client/config"
)

func main() {

	cfg := config.LoadConfig(os.Args[1:])

	args, err := cli.Operands(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	err = app.Run(context.Background(), args)
	_ = app.Close()

	if err != nil {
		if errors.Is(err, cli.ErrUsage) {
			log.Printf("%v", err)
			os.Exit(2)
		}
		log.Fatalf("%v", err)
	}

}
