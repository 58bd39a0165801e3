package runner

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// ExpandVars substitutes $VAR and ${VAR} in template from vars, falling
// back to the environment. Variables defined nowhere are reported rather
// than silently expanded to "", which would turn "$SRC/x.go" into "/x.go".
func ExpandVars(template string, vars map[string]string) (string, error) {
	var missing []string
	out := os.Expand(template, func(key string) string {
		if v, ok := vars[key]; ok {
			return v
		}
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		missing = append(missing, key)
		return ""
	})
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", fmt.Errorf("undefined variable(s) %s in %q", strings.Join(missing, ", "), template)
	}
	return out, nil
}
