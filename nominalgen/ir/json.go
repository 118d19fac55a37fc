package ir

import (
	"encoding/json"
	"fmt"
)

// JSON serialization support for IR types.
// All descriptors include a "kind" field for type discrimination.

// MarshalJSON implements json.Marshaler for ClassDescriptor.
func (d *ClassDescriptor) MarshalJSON() ([]byte, error) {
	type Alias ClassDescriptor
	return json.Marshal(&struct {
		Kind string `json:"kind"`
		*Alias
	}{
		Kind:  "class",
		Alias: (*Alias)(d),
	})
}

// MarshalJSON implements json.Marshaler for InterfaceDescriptor.
func (d *InterfaceDescriptor) MarshalJSON() ([]byte, error) {
	type Alias InterfaceDescriptor
	return json.Marshal(&struct {
		Kind string `json:"kind"`
		*Alias
	}{
		Kind:  "interface",
		Alias: (*Alias)(d),
	})
}

// MarshalJSON implements json.Marshaler for EnumDescriptor.
func (d *EnumDescriptor) MarshalJSON() ([]byte, error) {
	type Alias EnumDescriptor
	return json.Marshal(&struct {
		Kind string `json:"kind"`
		*Alias
	}{
		Kind:  "enum",
		Alias: (*Alias)(d),
	})
}

// MarshalJSON implements json.Marshaler for ReferenceDescriptor.
func (d *ReferenceDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind   string           `json:"kind"`
		Target string           `json:"target"`
		Args   []TypeDescriptor `json:"args,omitempty"`
	}{
		Kind:   "reference",
		Target: d.Target,
		Args:   d.Args,
	})
}

// MarshalJSON implements json.Marshaler for TypeParameterDescriptor.
func (d *TypeParameterDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind      string `json:"kind"`
		ParamName string `json:"paramName,omitempty"`
		Index     int    `json:"index"`
	}{
		Kind:      "typeParameter",
		ParamName: d.ParamName,
		Index:     d.Index,
	})
}

// MarshalJSON implements json.Marshaler for MethodDescriptor.
func (m MethodDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name       string                `json:"name"`
		Static     bool                  `json:"static,omitempty"`
		Parameters []ParameterDescriptor `json:"parameters,omitempty"`
		InlineCode string                `json:"inlineCode,omitempty"`
	}{
		Name:       m.Name,
		Static:     m.Static,
		Parameters: m.Parameters,
		InlineCode: m.InlineCode,
	})
}

// MarshalJSON implements json.Marshaler for ParameterDescriptor.
func (p ParameterDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name string         `json:"name"`
		Type TypeDescriptor `json:"type,omitempty"`
	}{
		Name: p.Name,
		Type: p.Type,
	})
}

// MarshalJSON implements json.Marshaler for EnumMember.
func (m EnumMember) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name  string `json:"name"`
		Value int64  `json:"value"`
		Doc   string `json:"doc,omitempty"`
	}{
		Name:  m.Name,
		Value: m.Value,
		Doc:   m.Documentation.Summary,
	})
}

// MarshalJSON implements json.Marshaler for Program.
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Module     string           `json:"module,omitempty"`
		Types      []TypeDescriptor `json:"types"`
		Imported   []string         `json:"imported,omitempty"`
		EntryPoint *EntryPoint      `json:"entryPoint,omitempty"`
	}{
		Module:     p.Module,
		Types:      p.Types,
		Imported:   p.Imported,
		EntryPoint: p.EntryPoint,
	})
}

// MarshalText implements encoding.TextMarshaler for Severity.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for Severity.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	default:
		return fmt.Errorf("unknown severity %q", text)
	}
	return nil
}
