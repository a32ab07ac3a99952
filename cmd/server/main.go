package main

import (
	"context"
	"os"

	"soufra_admin/internal/cli"
	"soufra_admin/internal/config"
)

var version = "dev"

func main() {
	deps := cli.Dependencies{
		LoadConfig: config.Load,
		Version:    version,
	}

	exitCode := cli.Execute(context.Background(), os.Args[1:], deps, os.Stdout, os.Stderr)
	os.Exit(exitCode)
}
