// Package provider implements front ends that read declarations and convert
// them to the intermediate representation consumed by the emitters.
//
// Two providers are available: HCLProvider reads declaration files written
// in HCL, and SourceProvider maps exported Go types onto the nominal model.
package provider

import (
	"strings"

	"github.com/broady/nominal"
	"github.com/broady/nominal/nominalgen/ir"
)

// DefaultEntryType is the simple name of the class that receives a
// package-level Main function.
const DefaultEntryType = "Program"

// EntryMethodName is the method name that designates an entry point.
const EntryMethodName = "Main"

// newDocumentation splits documentation text into summary and body.
// The summary is the first non-empty line.
func newDocumentation(text string) ir.Documentation {
	body := strings.TrimSpace(text)
	if body == "" {
		return ir.Documentation{}
	}
	var summary string
	for _, line := range strings.Split(body, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			summary = trimmed
			break
		}
	}
	return ir.Documentation{Summary: summary, Body: body}
}

// intrinsicRef returns a reference to the host type standing for kind, or
// to the root object when the default table does not map it.
func intrinsicRef(kind nominal.IntrinsicKind) *ir.ReferenceDescriptor {
	if in, ok := nominal.DefaultIntrinsics()[kind]; ok && in.Name != "" {
		return ir.Ref(in.Name)
	}
	return ir.Ref(nominal.ObjectName)
}

// qualify joins a namespace and a simple name.
func qualify(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}
