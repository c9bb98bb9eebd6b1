package forge

import (
	"fmt"
	"strings"
)

// ForgeSource prepends one `1{p;-p}1.` choice per proposition to source, so
// every stable model of the result decides each proposition either way. The
// source follows unchanged. An empty vocabulary leaves source as is.
func ForgeSource(vocab []string, source string) string {
	if len(vocab) == 0 {
		return source
	}
	var sb strings.Builder
	sb.WriteByte('\n')
	for _, p := range vocab {
		fmt.Fprintf(&sb, "1{%s;-%s}1.\n", p, p)
	}
	sb.WriteString(source)
	return sb.String()
}
