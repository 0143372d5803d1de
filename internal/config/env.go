package config

import (
	"encoding/json"
	"os"
	"regexp"
	"strings"
)

var envPlaceholder = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandEnv replaces every ${NAME} placeholder in raw config text with the
// value of the environment variable NAME. Values substituted inside a JSON
// string literal are escaped, so quotes and newlines in a value keep the
// document valid. Placeholders naming unset variables are left verbatim and
// are not reported by validation; a literal "${OPENAI_API_KEY}" key
// surfaces later as an authentication error from the provider.
func ExpandEnv(raw string) string {
	matches := envPlaceholder.FindAllStringSubmatchIndex(raw, -1)
	if len(matches) == 0 {
		return raw
	}

	var (
		b        strings.Builder
		last     int
		inString bool
		escaped  bool
	)
	for _, loc := range matches {
		between := raw[last:loc[0]]
		for i := 0; i < len(between); i++ {
			switch c := between[i]; {
			case escaped:
				escaped = false
			case inString && c == '\\':
				escaped = true
			case c == '"':
				inString = !inString
			}
		}
		b.WriteString(between)

		value, ok := os.LookupEnv(raw[loc[2]:loc[3]])
		switch {
		case !ok:
			b.WriteString(raw[loc[0]:loc[1]])
		case inString:
			b.WriteString(escapeJSONString(value))
		default:
			b.WriteString(value)
		}
		last = loc[1]
	}
	b.WriteString(raw[last:])
	return b.String()
}

// escapeJSONString returns v encoded as the body of a JSON string literal.
func escapeJSONString(v string) string {
	quoted, err := json.Marshal(v)
	if err != nil {
		return v
	}
	return string(quoted[1 : len(quoted)-1])
}
