package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// readTable reads a whitespace-separated table of per-taxon
// estimates with three columns: taxon id, log-ratio difference and
// its variance. Blank lines and lines starting with # are skipped.
func readTable(r io.Reader) (taxa []string, obs, v []float64, err error) {
	scanner := bufio.NewScanner(r)
	ln := 0
	for scanner.Scan() {
		ln++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, nil, nil, fmt.Errorf("line %d: expected three columns", ln)
		}
		d, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("line %d: %v", ln, err)
		}
		vv, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("line %d: %v", ln, err)
		}
		if vv <= 0 {
			return nil, nil, nil, fmt.Errorf("line %d: non-positive variance", ln)
		}
		taxa = append(taxa, fields[0])
		obs = append(obs, d)
		v = append(v, vv)
	}
	return taxa, obs, v, scanner.Err()
}
