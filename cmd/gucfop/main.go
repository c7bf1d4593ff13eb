// gucfop - time-series and document store toolkit
//
// gucfop validates time-series records against a schema and writes them to
// InfluxDB in bounded chunks, streams records from MQTT, runs Flux queries,
// administers buckets, reads AWS Secrets Manager secrets, and performs
// simple MongoDB document operations.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run builds the command tree and executes it with args.
// Separated from main for testability.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := newApp(stdout)
	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}
