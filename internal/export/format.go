package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var Formats = []Format{FormatCSV, FormatJSON, FormatYAML}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// DefaultPath returns dir/focusflow-export-<date>.<ext>.
func DefaultPath(dir string, f Format, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("focusflow-export-%s.%s", now.Format("2006-01-02"), f))
}

// Write exports d to path in format f.
func Write(f Format, d Data, path string) error {
	switch f {
	case FormatCSV:
		return ToCSV(d.Sessions, d.taskIndex(), path)
	case FormatJSON:
		return ToJSON(d, path)
	case FormatYAML:
		return ToYAML(d, path)
	}
	return fmt.Errorf("unknown export format %q", f)
}
