package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/livefir/widgetdemo/cmd/widgetdemo/commands"
)

// Version information (can be overridden at build time with -ldflags)
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error

	switch command {
	case "serve":
		err = commands.Serve(args)
	case "panels":
		err = commands.Panels(args, os.Stdout)
	case "pick":
		err = commands.Pick(args, os.Stdout)
	case "config":
		err = commands.Config(args, os.Stdout)
	case "version", "--version", "-v":
		printVersion()
		return
	case "help", "--help", "-h":
		printUsage()
		return
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("widgetdemo version %s\n", version)

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	revision := commit
	modified := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if revision == "unknown" {
				revision = setting.Value
			}
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if revision != "unknown" {
		if len(revision) > 12 {
			revision = revision[:12]
		}
		fmt.Printf("commit: %s\n", revision)
	}
	if modified {
		fmt.Println("modified: true (uncommitted changes)")
	}
	fmt.Printf("go: %s\n", info.GoVersion)
}

func printUsage() {
	fmt.Println("Widget Showcase")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  widgetdemo serve [--config <file>] [--addr :8080] [--dev]   Start the showcase server")
	fmt.Println("  widgetdemo panels [--config <file>]                         List the panels")
	fmt.Println("  widgetdemo pick [--config <file>]                           Choose the expanded panels")
	fmt.Println("  widgetdemo config init|show [--config <file>]               Manage the config file")
	fmt.Println("  widgetdemo version                                          Show version information")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  WIDGETDEMO_ADDR, PORT, WIDGETDEMO_DEV override the config file; a .env file is read too.")
}
