package classpath

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed jdk8.json
var embeddedSnapshot []byte

// ClasspathIndex is the loaded, queryable form of the embedded reflection
// snapshot. There is no live JVM to reflect against at build time, so this
// stands in for java.lang.Class lookups: both the JDK8 standard-library
// subset the generated code is allowed to call into, and the
// com.firefly.runtime.* helper classes the emitter targets for async,
// persistent-collection and actor lowering.
type ClasspathIndex struct {
	classes map[string]*ReflectedClass // keyed by dotted FQN
}

// Load parses the embedded jdk8.json snapshot once. Construction panics on
// malformed embedded data since that indicates a build-time defect, not a
// runtime one.
func Load() *ClasspathIndex {
	var raw map[string]*ReflectedClass
	if err := json.Unmarshal(embeddedSnapshot, &raw); err != nil {
		panic(fmt.Sprintf("classpath: malformed embedded snapshot: %v", err))
	}
	return &ClasspathIndex{classes: raw}
}

// ClassByFQN returns the reflected class for a dotted fully-qualified name,
// e.g. "java.lang.String".
func (idx *ClasspathIndex) ClassByFQN(fqn string) (*ReflectedClass, bool) {
	c, ok := idx.classes[fqn]
	return c, ok
}

// All returns every class FQN in the snapshot, in no particular order.
func (idx *ClasspathIndex) All() []string {
	out := make([]string, 0, len(idx.classes))
	for fqn := range idx.classes {
		out = append(out, fqn)
	}
	return out
}
