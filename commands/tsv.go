package commands

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"google.golang.org/api/sheets/v4"

	"github.com/classroom-sheets/classroom-sheets/roster"
)

var rosterHeader = []string{"First name", "Last name", "Email address", "Group"}

// sheetToTSV writes the roster in a worksheet range as a TSV file with the canonical column
// order, regardless of the column order (or aliases) used in the worksheet.
func sheetToTSV(f io.Writer, data *sheets.ValueRange) (int, error) {
	if data == nil || len(data.Values) == 0 {
		return 0, fmt.Errorf("empty sheet")
	}

	students, err := roster.MakeRoster(data.Values)
	if err != nil {
		return 0, err
	}

	w := csv.NewWriter(f)
	w.Comma = '\t'

	w.Write(rosterHeader)
	for _, s := range students {
		w.Write([]string{s.FirstName, s.LastName, s.Email, s.Group})
	}

	w.Flush()

	return len(students), w.Error()
}

func tsvToSheet(f io.Reader, area string) (*sheets.ValueRange, *sheets.ValueRange, error) {
	match := regexp.MustCompile(`(.+?)!([a-zA-Z]+)([0-9]+):([a-zA-Z]+)([0-9]+)?`).FindStringSubmatch(area)
	if len(match) < 5 {
		return nil, nil, fmt.Errorf("invalid spreadsheet range '%s'", area)
	}

	name := match[1]
	left := match[2]
	top, _ := strconv.Atoi(match[3])
	right := match[4]

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) == 0 {
		return nil, nil, fmt.Errorf("TSV file is empty")
	}

	// header
	h := make([]any, len(records[0]))
	for i, v := range records[0] {
		h[i] = v
	}

	header := sheets.ValueRange{
		Range:  fmt.Sprintf("%s!%s%v:%s%v", name, left, top, right, top),
		Values: [][]any{h},
	}

	// data
	rows := make([][]any, 0)
	for _, record := range records[1:] {
		row := make([]any, len(record))
		for i, v := range record {
			row[i] = v
		}

		rows = append(rows, row)
	}

	data := sheets.ValueRange{
		Range:  fmt.Sprintf("%s!%s%v:%s", name, left, top+1, right),
		Values: rows,
	}

	return &header, &data, nil
}
