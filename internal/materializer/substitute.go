package materializer

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

// placeholderPattern matches {{KEY}} and ${KEY}.
var placeholderPattern = regexp.MustCompile(`\{\{([A-Za-z0-9_.-]+)\}\}|\$\{([A-Za-z0-9_.-]+)\}`)

// Substitute replaces {{KEY}} and ${KEY} placeholders with values from vars
// in a single pass. Placeholders without a value are left verbatim, and
// substituted values are never rescanned.
func Substitute(content string, vars map[string]string) string {
	return substitute(content, vars, func(v string) string { return v })
}

// SubstituteJSON is Substitute for an encoded JSON document. Placeholders
// only occur inside string literals there, so each value is inserted with
// JSON string escaping and the document stays valid.
func SubstituteJSON(content string, vars map[string]string) string {
	return substitute(content, vars, escapeJSONString)
}

func substitute(content string, vars map[string]string, encode func(string) string) string {
	if len(vars) == 0 {
		return content
	}
	return placeholderPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := placeholderPattern.FindStringSubmatch(match)
		key := groups[1]
		if key == "" {
			key = groups[2]
		}
		if value, ok := vars[key]; ok {
			return encode(value)
		}
		return match
	})
}

// escapeJSONString returns s encoded as the body of a JSON string, with the
// same HTML escaping setting as the generated documents.
func escapeJSONString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s) // encoding a string cannot fail
	quoted := strings.TrimSuffix(buf.String(), "\n")
	return quoted[1 : len(quoted)-1]
}
