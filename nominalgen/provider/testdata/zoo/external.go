package zoo

import "strings"

// Buffered embeds a type from a package that is not loaded.
type Buffered struct {
	strings.Builder
}
