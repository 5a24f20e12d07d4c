package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/borud/broker"

	"github.com/perbu/scpl/pkg/stream"
)

const (
	linesTopic   = "/lines"
	matchesTopic = "/matches"
)

func runWatch(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("watch", flag.ContinueOnError)
	flags.SetOutput(stderr)
	typesFile := flags.String("types", "", "path to a variable-type environment YAML file")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	if flags.NArg() != 1 || *typesFile == "" {
		fmt.Fprintln(stderr, "usage: scpl watch <expr> --types vars.yaml")
		return 1
	}
	expr := flags.Arg(0)

	env, err := loadEnv(*typesFile)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	atoms, _, err := compile(expr, env)
	if err != nil {
		reportError(stderr, expr, err)
		return 1
	}
	if len(atoms) != 1 {
		fmt.Fprintln(stderr, "error: watch requires a single predicate expression")
		return 1
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))

	b := broker.New(broker.Config{
		DownStreamChanLen:  64,
		PublishChanLen:     64,
		SubscribeChanLen:   64,
		UnsubscribeChanLen: 64,
		DeliveryTimeout:    time.Second,
	})

	if err := stream.Subscribe(b, matchesTopic, logger, func(m stream.Match) {
		fmt.Fprintf(stdout, "%d: %s\n", m.Line, m.Result.String())
	}); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	watcher := stream.New(b, atoms[0], env, linesTopic, matchesTopic, logger)
	if err := watcher.Start(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	if err := stream.Pump(ctx, b, linesTopic, os.Stdin); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
