package dataset

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/couchcryptid/plate-kinematics-etl/internal/domain"
)

// ParseGMT reads an OGR/GMT ASCII file into features. Field names come from
// the "# @N" header declaration; each ">" segment may carry a "# @D"
// attribute row whose values are matched positionally to the names.
func ParseGMT(r io.Reader) ([]Feature, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		fieldNames []string
		features   []Feature
		current    *Feature
		lineNo     int
	)

	flush := func() {
		if current != nil && len(current.Points) > 0 {
			features = append(features, *current)
		}
		current = nil
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "# @N"):
			fieldNames = splitGMTValues(line[len("# @N"):])

		case strings.HasPrefix(line, "# @D"):
			if current == nil {
				current = &Feature{}
			}
			current.Fields = zipFields(fieldNames, splitGMTValues(line[len("# @D"):]))

		case strings.HasPrefix(line, "#"):
			// Header or type declaration, no geometry content.

		case strings.HasPrefix(line, ">"):
			flush()
			current = &Feature{}

		default:
			cols := strings.Fields(line)
			if len(cols) < 2 {
				return nil, fmt.Errorf("gmt: line %d: expected \"lon lat\", got %q", lineNo, line)
			}
			lon, err := strconv.ParseFloat(cols[0], 64)
			if err != nil {
				return nil, fmt.Errorf("gmt: line %d: bad longitude %q", lineNo, cols[0])
			}
			lat, err := strconv.ParseFloat(cols[1], 64)
			if err != nil {
				return nil, fmt.Errorf("gmt: line %d: bad latitude %q", lineNo, cols[1])
			}
			if current == nil {
				current = &Feature{}
			}
			current.Points = append(current.Points, domain.Point{Lon: lon, Lat: lat})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("gmt: read: %w", err)
	}
	flush()

	return features, nil
}

// splitGMTValues splits a pipe-separated attribute list, trimming whitespace
// and surrounding double quotes.
func splitGMTValues(s string) []string {
	parts := strings.Split(s, "|")
	for i, p := range parts {
		parts[i] = strings.Trim(strings.TrimSpace(p), `"`)
	}
	return parts
}

// zipFields pairs names with values positionally. Surplus values get
// synthetic field_N names so no data is dropped.
func zipFields(names, values []string) map[string]string {
	fields := make(map[string]string, len(values))
	for i, v := range values {
		if i < len(names) && names[i] != "" {
			fields[names[i]] = v
		} else {
			fields[fmt.Sprintf("field_%d", i)] = v
		}
	}
	return fields
}
