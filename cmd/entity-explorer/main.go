package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/seitarof/entity-explorer/internal/cli"
	"github.com/seitarof/entity-explorer/internal/parser"
)

var version = "dev"

func main() {
	cfg, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	if cfg.ShowVersion {
		fmt.Println(version)
		return
	}

	p := parser.New(cfg.ParserOptions()...)
	runner := cli.NewRunner(p, cli.NewFileSink())

	if !cfg.Watch {
		if err := runner.Run(cfg); err != nil {
			log.Fatal(err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := runner.Watch(ctx, cfg); err != nil {
		log.Fatal(err)
	}
}
