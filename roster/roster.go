package roster

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
)

type Student struct {
	FirstName string `mapstructure:"firstname"`
	LastName  string `mapstructure:"lastname"`
	Email     string `mapstructure:"emailaddress"`
	Group     string `mapstructure:"group"`
}

// Source is anything that can produce an ordered student roster.
type Source interface {
	Students(ctx context.Context) ([]Student, error)
}

// CSVFile is a roster Source backed by a local CSV file with a header row.
type CSVFile struct {
	Path string
}

var columns = []string{"firstname", "lastname", "emailaddress", "group"}

var aliases = map[string]string{
	"firstname":    "firstname",
	"lastname":     "lastname",
	"emailaddress": "emailaddress",
	"email":        "emailaddress",
	"group":        "group",
	"grupa":        "group",
}

func (f CSVFile) Students(ctx context.Context) ([]Student, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, err
	}

	defer file.Close()

	return ReadCSV(file)
}

func ReadCSV(r io.Reader) ([]Student, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	rows := make([][]any, len(records))
	for i, record := range records {
		row := make([]any, len(record))
		for j, v := range record {
			row[j] = v
		}

		rows[i] = row
	}

	return MakeRoster(rows)
}

// MakeRoster converts a header row and data rows (as returned by the Sheets API) into a list
// of students, in row order. Columns are matched by name so they may appear in any order and
// unrecognised columns are ignored.
func MakeRoster(rows [][]any) ([]Student, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("Empty roster")
	}

	// .. build index
	index := map[string]int{}
	for i, v := range rows[0] {
		h := clean(stringify(v))
		k, ok := aliases[normalise(h)]
		if !ok {
			continue
		}

		if _, ok := index[k]; ok {
			return nil, fmt.Errorf("Duplicate column name '%s'", h)
		}

		index[k] = i
	}

	if len(index) == 0 {
		return nil, fmt.Errorf("Missing/invalid header row")
	}

	for _, k := range columns {
		if _, ok := index[k]; !ok {
			return nil, fmt.Errorf("Missing '%s' column", k)
		}
	}

	// ... records
	students := []Student{}
	for _, row := range rows[1:] {
		record := map[string]any{}
		blank := true

		for _, k := range columns {
			v := ""
			if ix := index[k]; ix < len(row) {
				v = clean(stringify(row[ix]))
			}

			record[k] = v
			blank = blank && v == ""
		}

		if blank {
			continue
		}

		var student Student
		if err := mapstructure.Decode(record, &student); err != nil {
			return nil, err
		}

		students = append(students, student)
	}

	return students, nil
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprintf("%v", v)
	}
}

func clean(v string) string {
	return strings.TrimSpace(v)
}

func normalise(v string) string {
	return strings.ToLower(strings.ReplaceAll(v, " ", ""))
}
