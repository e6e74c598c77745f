// Command flyc is the Firefly JVM back end's host process: it reads a
// CompilationUnit document, emits JVM class files, and offers a couple of
// small inspection tools for troubleshooting what got emitted.
package main

import (
	"fmt"
	"os"

	"github.com/firefly-oss/firefly-lang-sub000/cmd/flyc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
