// Command stratagc is the storage garbage-collection reconciler for a
// strata warehouse deployment. It compares physical storage artifacts
// against live metadata and reports or deletes the unreferenced ones.
package main

import (
	"fmt"
	"os"
)

var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-version") {
		fmt.Printf("stratagc version %s (built %s)\n", version, buildTime)
		os.Exit(0)
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "reconcile":
		runReconcile(os.Args[2:])
	case "version":
		fmt.Printf("stratagc version %s (built %s, commit %s)\n", version, buildTime, gitCommit)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Usage: stratagc <command> [options]

Commands:
  reconcile   Identify unreferenced storage artifacts and report or delete them
  version     Print version information

Run 'stratagc <command> --help' for more information on a command.`)
}
