package roster

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

var expected = []Student{
	{FirstName: "Ana", LastName: "Popescu", Email: "ana.popescu@example.com", Group: "331AA"},
	{FirstName: "Mihai", LastName: "Ionescu", Email: "mihai.ionescu@example.com", Group: "331AB"},
}

func TestMakeRoster(t *testing.T) {
	var data = [][]any{
		[]any{"First name", "Last name", "Email address", "Grupa"},
		[]any{"Ana", "Popescu", "ana.popescu@example.com", "331AA"},
		[]any{"Mihai", "Ionescu", "mihai.ionescu@example.com", "331AB"},
	}

	students, err := MakeRoster(data)
	if err != nil {
		t.Fatalf("Unexpected error returned from MakeRoster (%v)", err)
	}

	if !reflect.DeepEqual(students, expected) {
		t.Errorf("Incorrect roster\n   expected: %v\n   got:      %v\n", expected, students)
	}
}

func TestMakeRosterWithOutOfOrderColumns(t *testing.T) {
	var data = [][]any{
		[]any{"Group", "Email", "Notes", "Last Name", "First Name"},
		[]any{"331AA", "ana.popescu@example.com", "-", "Popescu", "Ana"},
		[]any{" 331AB", "mihai.ionescu@example.com ", "", "Ionescu", "Mihai"},
	}

	students, err := MakeRoster(data)
	if err != nil {
		t.Fatalf("Unexpected error returned from MakeRoster (%v)", err)
	}

	if !reflect.DeepEqual(students, expected) {
		t.Errorf("Incorrect roster\n   expected: %v\n   got:      %v\n", expected, students)
	}
}

func TestMakeRosterWithShortAndBlankRows(t *testing.T) {
	expected := []Student{
		{FirstName: "Ana", LastName: "Popescu", Email: "ana.popescu@example.com", Group: "331AA"},
		{FirstName: "Mihai", LastName: "Ionescu", Email: "", Group: ""},
	}

	var data = [][]any{
		[]any{"First name", "Last name", "Email address", "Group"},
		[]any{"Ana", "Popescu", "ana.popescu@example.com", "331AA"},
		[]any{},
		[]any{"", " ", "", ""},
		[]any{"Mihai", "Ionescu"},
	}

	students, err := MakeRoster(data)
	if err != nil {
		t.Fatalf("Unexpected error returned from MakeRoster (%v)", err)
	}

	if !reflect.DeepEqual(students, expected) {
		t.Errorf("Incorrect roster\n   expected: %v\n   got:      %v\n", expected, students)
	}
}

func TestMakeRosterWithEmptySheet(t *testing.T) {
	if _, err := MakeRoster([][]any{}); err == nil {
		t.Fatalf("Expected error return for empty sheet, got %v", err)
	}
}

func TestMakeRosterWithoutHeaders(t *testing.T) {
	if _, err := MakeRoster([][]any{[]any{}}); err == nil {
		t.Fatalf("Expected error return for missing headers, got %v", err)
	}
}

func TestMakeRosterWithMissingColumn(t *testing.T) {
	data := [][]any{
		[]any{"First name", "Last name", "Group"},
	}

	if _, err := MakeRoster(data); err == nil {
		t.Fatalf("Expected error return for missing 'email' column, got %v", err)
	}
}

func TestMakeRosterWithDuplicatedColumn(t *testing.T) {
	data := [][]any{
		[]any{"First name", "Last name", "Email", "Email address", "Group"},
	}

	if _, err := MakeRoster(data); err == nil {
		t.Fatalf("Expected error return for duplicated column, got %v", err)
	}
}

func TestReadCSV(t *testing.T) {
	f := `First name,Last name,Email address,Grupa
Ana,Popescu,ana.popescu@example.com,331AA
Mihai,Ionescu,mihai.ionescu@example.com,331AB
`

	students, err := ReadCSV(strings.NewReader(f))
	if err != nil {
		t.Fatalf("Unexpected error returned from ReadCSV (%v)", err)
	}

	if !reflect.DeepEqual(students, expected) {
		t.Errorf("Incorrect roster\n   expected: %v\n   got:      %v\n", expected, students)
	}
}

func TestCSVFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "students.csv")
	content := "First name,Last name,Email address,Group\nAna,Popescu,ana.popescu@example.com,331AA\nMihai,Ionescu,mihai.ionescu@example.com,331AB\n"

	if err := os.WriteFile(file, []byte(content), 0600); err != nil {
		t.Fatalf("Error creating roster file (%v)", err)
	}

	var source Source = CSVFile{Path: file}

	students, err := source.Students(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error reading roster (%v)", err)
	}

	if !reflect.DeepEqual(students, expected) {
		t.Errorf("Incorrect roster\n   expected: %v\n   got:      %v\n", expected, students)
	}
}
