package javascript

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/schema"
)

var optionDecoder = schema.NewDecoder()

func init() {
	optionDecoder.IgnoreUnknownKeys(false)
}

// ParseOptions applies key=value options to a copy of base. Keys are the
// schema tags of GeneratorConfig (e.g. "registry=$rt", "indent_style=tab",
// "strict=false").
func ParseOptions(base GeneratorConfig, options []string) (GeneratorConfig, error) {
	values := url.Values{}
	for _, opt := range options {
		key, value, ok := strings.Cut(opt, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return base, fmt.Errorf("invalid option %q: expected key=value", opt)
		}
		values.Set(key, strings.TrimSpace(value))
	}
	cfg := base
	if err := optionDecoder.Decode(&cfg, values); err != nil {
		return base, fmt.Errorf("invalid options: %w", err)
	}
	return cfg, nil
}
