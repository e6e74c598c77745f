package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/firefly-oss/firefly-lang-sub000/internal/classfile"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm [file.class]",
	Short: "Disassemble a class file emitted by flyc",
	Long: `Print a human-readable rendering of every method's code array in a
.class file previously written by "flyc emit".

Examples:
  flyc disasm build/classes/com/firefly/Example.class`,
	Args: cobra.ExactArgs(1),
	RunE: disasmClass,
}

func init() {
	rootCmd.AddCommand(disasmCmd)
}

func disasmClass(_ *cobra.Command, args []string) error {
	filename := args[0]

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	class, err := classfile.ReadClass(data)
	if err != nil {
		return fmt.Errorf("failed to parse class file %s: %w", filename, err)
	}

	fmt.Printf("class %s extends %s\n", class.ThisClass, class.SuperClass)
	for _, m := range class.Methods {
		fmt.Printf("\n  %s%s\n", m.Name, m.Descriptor)
		if m.Code == nil {
			fmt.Println("    (no Code attribute)")
			continue
		}
		classfile.NewDisassembler(m.Code, os.Stdout).Disassemble()
	}

	return nil
}
