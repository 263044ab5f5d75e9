package commands

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

type labRange struct {
	from int
	to   int
}

// parseLabs parses a lab range of the form '10-12' (or '7' for a single lab).
func parseLabs(s string) (*labRange, error) {
	match := regexp.MustCompile(`^\s*([0-9]+)\s*(?:-\s*([0-9]+)\s*)?$`).FindStringSubmatch(s)
	if len(match) < 3 {
		return nil, fmt.Errorf("invalid lab range '%v' - expected something like '1-9'", s)
	}

	from, _ := strconv.Atoi(match[1])
	to := from

	if match[2] != "" {
		to, _ = strconv.Atoi(match[2])
	}

	if to < from {
		return nil, fmt.Errorf("invalid lab range '%v' - 'from' is after 'to'", s)
	}

	return &labRange{from: from, to: to}, nil
}

func (l labRange) contains(n int) bool {
	return n >= l.from && n <= l.to
}

// parseColumns converts a list of 1-based column numbers (or column letters) to 0-based column
// indices, e.g. '1,3,9' or 'A,C,I'.
func parseColumns(s string) ([]int, error) {
	columns := []int{}

	for _, token := range strings.Split(s, ",") {
		token = strings.ToUpper(strings.TrimSpace(token))

		if n, err := strconv.Atoi(token); err == nil && n > 0 {
			columns = append(columns, n-1)
		} else if regexp.MustCompile(`^[A-Z]+$`).MatchString(token) {
			columns = append(columns, columnIndex(token))
		} else {
			return nil, fmt.Errorf("invalid column '%v'", token)
		}
	}

	return lo.Uniq(columns), nil
}

// labNumber returns the lab number for a worksheet title of the form '<prefix><number>', ignoring
// spaces and case e.g. 'Lab 10' or 'lab07 - pipes'.
func labNumber(title, prefix string) (int, bool) {
	re := regexp.MustCompile(`^(?i:` + regexp.QuoteMeta(normalise(prefix)) + `)([0-9]+)`)

	match := re.FindStringSubmatch(strings.ReplaceAll(title, " ", ""))
	if len(match) < 2 {
		return 0, false
	}

	n, err := strconv.Atoi(match[1])

	return n, err == nil
}

func gradesHeader(columns []int) []string {
	header := lo.Map(columns, func(c int, _ int) string {
		return columnLetter(c)
	})

	return append(header, "Source_File", "Source_Sheet")
}

// makeGrades extracts the selected columns from the rows of a worksheet, tagging each record with
// the source file and sheet. Rows with no data in the selected columns are skipped and cells
// beyond the end of a row are blank.
func makeGrades(rows [][]any, columns []int, file, sheet string) [][]string {
	records := [][]string{}

	for _, row := range rows {
		record := make([]string, 0, len(columns)+2)
		blank := true

		for _, c := range columns {
			v := ""
			if c < len(row) && row[c] != nil {
				v = clean(fmt.Sprintf("%v", row[c]))
			}

			record = append(record, v)
			blank = blank && v == ""
		}

		if !blank {
			records = append(records, append(record, file, sheet))
		}
	}

	return records
}

func columnLetter(index int) string {
	s := ""
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		s = string(rune('A'+(n-1)%26)) + s
	}

	return s
}

func columnIndex(letters string) int {
	n := 0
	for _, ch := range letters {
		n = n*26 + int(ch-'A') + 1
	}

	return n - 1
}
