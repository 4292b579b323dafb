package main

import (
	"fmt"
	"os"
	"strings"
)

const version = "0.0.1-dev"

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 {
		return runBuild(os.Args[1:])
	}

	switch os.Args[1] {
	case "build":
		return runBuild(os.Args[2:])
	case "--version", "-v":
		fmt.Println("modgraft", version)
		return 0
	case "--help", "-h":
		printUsage()
		return 0
	default:
		if strings.HasPrefix(os.Args[1], "-") {
			return runBuild(os.Args[1:])
		}
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		return 1
	}
}

func printUsage() {
	fmt.Println("modgraft - rewrites URL-runtime TypeScript modules into a package-manager-runtime output package")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  modgraft [flags]              Transform project (default)")
	fmt.Println("  modgraft build [flags]        Transform project")
	fmt.Println()
	fmt.Println("Global Flags:")
	fmt.Println("  --version, -v          Print version and exit")
	fmt.Println("  --help, -h             Print this help message")
	fmt.Println()
	fmt.Println("Build Flags:")
	fmt.Println("  --config <path>        Path to modgraft.config.ts/.json (default: auto-discover)")
	fmt.Println("  --out <dir>            Output directory (default: ./npm)")
	fmt.Println("  --cache <dir>          HTTP cache directory for remote specifiers (default: in-memory)")
	fmt.Println("  --reload               Bypass the HTTP and incremental-rebuild caches")
	fmt.Println("  --debug                Print internal/trace pipeline chatter to stderr")
	fmt.Println("  --quiet                Suppress warning diagnostics")
	fmt.Println("  --strict               Treat warning diagnostics as errors")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  modgraft")
	fmt.Println("  modgraft build --config modgraft.config.json")
	fmt.Println("  modgraft build --out dist --cache .cache/modgraft")
	fmt.Println()
}
