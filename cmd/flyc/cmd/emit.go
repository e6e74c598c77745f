package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/firefly-oss/firefly-lang-sub000/internal/astio"
	"github.com/firefly-oss/firefly-lang-sub000/internal/classpath"
	"github.com/firefly-oss/firefly-lang-sub000/internal/diagnostic"
	"github.com/firefly-oss/firefly-lang-sub000/internal/emit"
)

var (
	emitOutputDir string
	emitVerbose   bool
)

var emitCmd = &cobra.Command{
	Use:   "emit [file]",
	Short: "Emit JVM class files from a CompilationUnit document",
	Long: `Read a CompilationUnit document (YAML) and lower it to JVM class files.

One .class file is written per emitted class, under --output, mirroring
the class's internal (slash-separated) name.

Examples:
  flyc emit unit.yaml
  flyc emit unit.yaml -o build/classes`,
	Args: cobra.ExactArgs(1),
	RunE: emitUnit,
}

func init() {
	rootCmd.AddCommand(emitCmd)

	emitCmd.Flags().StringVarP(&emitOutputDir, "output", "o", "build/classes", "output directory for emitted class files")
	emitCmd.Flags().BoolVarP(&emitVerbose, "verbose", "v", false, "verbose output")
}

func emitUnit(_ *cobra.Command, args []string) error {
	filename := args[0]

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	tree, err := astio.DecodeBytes(data)
	if err != nil {
		return fmt.Errorf("failed to decode compilation unit: %w", err)
	}

	if emitVerbose {
		fmt.Fprintf(os.Stderr, "Emitting module %q (%d declaration(s))...\n", tree.Module, len(tree.Decls))
	}

	idx := classpath.Load()
	unit := emit.NewUnit(tree, idx)

	if err := unit.Emit(); err != nil {
		if bag, ok := err.(*diagnostic.Bag); ok {
			fmt.Fprint(os.Stderr, diagnostic.FormatAll(bag.All(), true))
			fmt.Fprintln(os.Stderr)
		}
		return fmt.Errorf("emission failed")
	}

	if err := os.MkdirAll(emitOutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", emitOutputDir, err)
	}

	for internalName, bytes := range unit.Classes {
		outPath := filepath.Join(emitOutputDir, internalName+".class")
		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", outPath, err)
		}
		if err := os.WriteFile(outPath, bytes, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}
		if emitVerbose {
			fmt.Fprintf(os.Stderr, "  wrote %s (%d bytes)\n", outPath, len(bytes))
		}
	}

	fmt.Printf("Emitted %d class(es) to %s\n", len(unit.Classes), emitOutputDir)
	return nil
}
