package ir

import "fmt"

// Severity classifies a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic codes reported during emission.
const (
	// CodeEntryPointParameters reports an entry point that takes parameters.
	CodeEntryPointParameters = 7800

	// CodeEntryPointInlineCode reports an entry point implemented by an
	// inline code template.
	CodeEntryPointInlineCode = 7801
)

var messages = map[int]string{
	CodeEntryPointParameters: "The method %s cannot be used as an entry point because it has parameters",
	CodeEntryPointInlineCode: "The method %s cannot be used as an entry point because it is implemented as inline code",
}

// Diagnostic is a user-reportable problem with a stable numeric code and an
// ordered argument list. Diagnostics never abort emission.
type Diagnostic struct {
	Code     int      `json:"code"`
	Severity Severity `json:"severity"`
	Args     []string `json:"args,omitempty"`
	Source   *Source  `json:"source,omitempty"`
}

// Message formats the diagnostic from the message table.
func (d Diagnostic) Message() string {
	format, ok := messages[d.Code]
	if !ok {
		return fmt.Sprintf("diagnostic %d %v", d.Code, d.Args)
	}
	args := make([]any, len(d.Args))
	for i, a := range d.Args {
		args[i] = a
	}
	return fmt.Sprintf(format, args...)
}

// String formats the diagnostic as "[source: ]severity CODE: message".
func (d Diagnostic) String() string {
	msg := fmt.Sprintf("%s NM%d: %s", d.Severity, d.Code, d.Message())
	if d.Source != nil && !d.Source.IsZero() {
		return d.Source.String() + ": " + msg
	}
	return msg
}
