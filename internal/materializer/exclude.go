package materializer

import (
	"path"
	"strings"
)

// IsExcluded reports whether outputPath matches any exclude entry. An entry
// matches when it equals the path, names one of its parent directories
// ("rules" or "rules/"), or is a path.Match glob matching it.
func IsExcluded(outputPath string, exclude []string) bool {
	for _, entry := range exclude {
		if matchesExclude(outputPath, entry) {
			return true
		}
	}
	return false
}

func matchesExclude(outputPath, entry string) bool {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return false
	}
	entry = strings.TrimPrefix(entry, "./")

	if entry == outputPath {
		return true
	}
	dir := strings.TrimSuffix(entry, "/")
	if dir != "" && strings.HasPrefix(outputPath, dir+"/") {
		return true
	}
	if ok, err := path.Match(entry, outputPath); err == nil && ok {
		return true
	}
	return false
}
