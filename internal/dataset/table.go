package dataset

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// readRows reads a whitespace-delimited table, skipping the first skip lines
// and any line starting with the comment marker.
func readRows(r io.Reader, skip int, comment string) ([][]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var rows [][]string
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo <= skip {
			continue
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || (comment != "" && strings.HasPrefix(line, comment)) {
			continue
		}
		rows = append(rows, strings.Fields(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("table: read: %w", err)
	}
	return rows, nil
}

// parseSeamountAges parses the Pacific seamount age compilation. Columns:
// Long Lat Average_Age_Ma Average_Age_Error_Ma Tag SeamountName SeamountChain.
// Lines starting with "#" are comments.
func parseSeamountAges(r io.Reader) ([]SeamountAge, error) {
	rows, err := readRows(r, 0, "#")
	if err != nil {
		return nil, err
	}

	records := make([]SeamountAge, 0, len(rows))
	for i, row := range rows {
		if len(row) < len(SeamountAgeColumns) {
			return nil, fmt.Errorf("seamount ages: row %d: want %d columns, got %d", i+1, len(SeamountAgeColumns), len(row))
		}
		vals, err := parseFloats(row[:4])
		if err != nil {
			return nil, fmt.Errorf("seamount ages: row %d: %w", i+1, err)
		}
		records = append(records, SeamountAge{
			Lon:               vals[0],
			Lat:               vals[1],
			AverageAgeMa:      vals[2],
			AverageAgeErrorMa: vals[3],
			Tag:               row[4],
			SeamountName:      row[5],
			SeamountChain:     row[6],
		})
	}
	return records, nil
}

// parseSeamountCensus parses the Kim & Wessel census. The file opens with 17
// header lines; ">" lines are segment markers. Columns:
// Long Lat Azimuth Major Minor Height FAA VGG Depth CrustAge ID.
func parseSeamountCensus(r io.Reader) ([]CensusSeamount, error) {
	rows, err := readRows(r, 17, ">")
	if err != nil {
		return nil, err
	}

	records := make([]CensusSeamount, 0, len(rows))
	for i, row := range rows {
		if len(row) < len(CensusColumns) {
			return nil, fmt.Errorf("seamount census: row %d: want %d columns, got %d", i+1, len(CensusColumns), len(row))
		}
		vals, err := parseFloats(row[:10])
		if err != nil {
			return nil, fmt.Errorf("seamount census: row %d: %w", i+1, err)
		}
		records = append(records, CensusSeamount{
			Lon:      vals[0],
			Lat:      vals[1],
			Azimuth:  vals[2],
			Major:    vals[3],
			Minor:    vals[4],
			Height:   vals[5],
			FAA:      vals[6],
			VGG:      vals[7],
			Depth:    vals[8],
			CrustAge: vals[9],
			ID:       row[10],
		})
	}
	return records, nil
}

func parseFloats(cols []string) ([]float64, error) {
	vals := make([]float64, len(cols))
	for i, c := range cols {
		v, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return nil, fmt.Errorf("bad numeric column %q", c)
		}
		vals[i] = v
	}
	return vals, nil
}
