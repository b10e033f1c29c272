package validation

import (
	"path/filepath"
	"strconv"
	"strings"
)

// ParseCluster extracts the cluster number from a pose file name of the
// form model.<coefficient>.<cluster>.<ext>. ok is false when the name does
// not follow that shape.
func ParseCluster(name string) (cluster int, ok bool) {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	parts := strings.Split(base, ".")
	if len(parts) < 3 {
		return 0, false
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, false
	}
	return n, true
}

// TargetName is the name of the directory holding a pose file.
func TargetName(posePath string) string {
	return filepath.Base(filepath.Dir(posePath))
}
