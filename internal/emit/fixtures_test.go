package emit

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/firefly-oss/firefly-lang-sub000/internal/astio"
	"github.com/firefly-oss/firefly-lang-sub000/internal/classfile"
	"github.com/firefly-oss/firefly-lang-sub000/internal/classpath"
)

// renderUnit lowers a fixture end to end and renders every emitted class's
// methods as disassembled bytecode, the same "flyc emit | flyc disasm"
// pipeline a user would run, for golden-snapshot comparison (grounded on
// internal/classfile/disasm_test.go's go-snaps convention).
func renderUnit(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	tree, err := astio.DecodeBytes(data)
	if err != nil {
		t.Fatalf("decoding fixture: %v", err)
	}

	idx := classpath.Load()
	unit := NewUnit(tree, idx)
	if err := unit.Emit(); err != nil {
		t.Fatalf("emission failed: %v", err)
	}

	names := make([]string, 0, len(unit.Classes))
	for name := range unit.Classes {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		class, err := classfile.ReadClass(unit.Classes[name])
		if err != nil {
			t.Fatalf("reading back emitted class %s: %v", name, err)
		}
		fmt.Fprintf(&sb, "class %s extends %s\n", class.ThisClass, class.SuperClass)
		for _, m := range class.Methods {
			fmt.Fprintf(&sb, "\n  %s%s\n", m.Name, m.Descriptor)
			if m.Code == nil {
				sb.WriteString("    (no Code attribute)\n")
				continue
			}
			classfile.NewDisassembler(m.Code, &sb).Disassemble()
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func TestFixtureScenarios(t *testing.T) {
	fixtures, err := filepath.Glob("../../testdata/fixtures/*.yaml")
	if err != nil {
		t.Fatalf("globbing fixtures: %v", err)
	}
	if len(fixtures) == 0 {
		t.Fatal("expected at least one fixture under testdata/fixtures")
	}

	for _, path := range fixtures {
		name := strings.TrimSuffix(filepath.Base(path), ".yaml")
		t.Run(name, func(t *testing.T) {
			out := renderUnit(t, path)
			snaps.MatchSnapshot(t, name, out)
		})
	}
}
