package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "flyc",
	Short: "Firefly JVM code generation back end",
	Long: `flyc turns a Firefly CompilationUnit document into JVM class files.

It is the back end half of the Firefly compiler: a front end produces a
CompilationUnit (as a YAML document) and flyc lowers it straight to real
class file version 52 (Java 8) bytecode, with no intermediate VM of its
own.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
