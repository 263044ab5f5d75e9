package commands

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"google.golang.org/api/sheets/v4"
)

func TestGetSpreadsheetID(t *testing.T) {
	tests := map[string]string{
		"https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms":             "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms",
		"https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms/edit#gid=0": "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms",
		" https://docs.google.com/spreadsheets/d/1abc/ ":                                                 "1abc",
	}

	for url, expected := range tests {
		id, err := getSpreadsheetID(url)
		if err != nil {
			t.Fatalf("Unexpected error for '%v' (%v)", url, err)
		}

		if id != expected {
			t.Errorf("Incorrect spreadsheet ID for '%v' - expected:%v, got:%v", url, expected, id)
		}
	}
}

func TestGetSpreadsheetIDWithInvalidURL(t *testing.T) {
	for _, url := range []string{"", "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms", "https://docs.google.com/document/d/1abc"} {
		if id, err := getSpreadsheetID(url); err == nil {
			t.Errorf("Expected error for '%v', got %v", url, id)
		}
	}
}

func TestGetFileID(t *testing.T) {
	tests := map[string]string{
		"1cwOe9P4UsgF0y3t4YBWFUJZoYbtgxvFa":                                                               "1cwOe9P4UsgF0y3t4YBWFUJZoYbtgxvFa",
		"https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms/edit#gid=0": "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms",
		"https://drive.google.com/file/d/1a2b3c/view":                                                     "1a2b3c",
		"https://drive.google.com/drive/folders/1cwOe9P4UsgF0y3t4YBWFUJZoYbtgxvFa?usp=sharing":            "1cwOe9P4UsgF0y3t4YBWFUJZoYbtgxvFa",
		"https://drive.google.com/drive/u/0/folders/1folder":                                              "1folder",
	}

	for s, expected := range tests {
		id, err := getFileID(s)
		if err != nil {
			t.Fatalf("Unexpected error for '%v' (%v)", s, err)
		}

		if id != expected {
			t.Errorf("Incorrect file ID for '%v' - expected:%v, got:%v", s, expected, id)
		}
	}
}

func TestGetFileIDWithInvalidID(t *testing.T) {
	for _, s := range []string{"", "not a file", "https://example.com/d/1abc"} {
		if id, err := getFileID(s); err == nil {
			t.Errorf("Expected error for '%v', got %v", s, id)
		}
	}
}

func TestValidateRange(t *testing.T) {
	for _, area := range []string{"Students!A1:D", "'Interval 1'!A1:E", "Sheet1!A:A"} {
		if err := validateRange(area); err != nil {
			t.Errorf("Unexpected error for range '%v' (%v)", area, err)
		}
	}

	for _, area := range []string{"", "A1:D", "!A1:D"} {
		if err := validateRange(area); err == nil {
			t.Errorf("Expected error for range '%v'", area)
		}
	}
}

func TestGetSheet(t *testing.T) {
	spreadsheet := sheets.Spreadsheet{
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{SheetId: 1, Title: "Students"}},
			{Properties: &sheets.SheetProperties{SheetId: 2, Title: "Interval 1"}},
		},
	}

	for area, expected := range map[string]int64{"Students!A1:D": 1, "students!A1": 1, "'Interval 1'!A1:E": 2} {
		sheet, err := getSheet(&spreadsheet, area)
		if err != nil {
			t.Fatalf("Unexpected error for '%v' (%v)", area, err)
		}

		if sheet.Properties.SheetId != expected {
			t.Errorf("Incorrect sheet for '%v' - expected:%v, got:%v", area, expected, sheet.Properties.SheetId)
		}
	}

	if _, err := getSheet(&spreadsheet, "Grades!A1:D"); err == nil {
		t.Errorf("Expected error for unknown worksheet")
	}
}

func TestCommandInit(t *testing.T) {
	type key struct{}

	cmd := command{credentials: "credentials.json"}
	parent := context.WithValue(context.Background(), key{}, "parent")

	ctx, err := cmd.init([]any{parent, &Options{Debug: true}})
	if err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	}

	if ctx.Value(key{}) != "parent" {
		t.Errorf("Expected context passed to Execute, got %v", ctx)
	}

	if !cmd.debug {
		t.Errorf("Expected --debug option to be set")
	}
}

func TestCommandInitWithoutCredentials(t *testing.T) {
	cmd := command{credentials: " "}

	if _, err := cmd.init([]any{context.Background(), &Options{}}); err == nil {
		t.Errorf("Expected error for missing --credentials")
	}
}

func TestTokenDir(t *testing.T) {
	cmd := command{workdir: "/var/lib/classroom-sheets"}
	if dir := cmd.tokenDir(); dir != filepath.Join("/var/lib/classroom-sheets", ".google") {
		t.Errorf("Incorrect token directory - expected:%v, got:%v", filepath.Join("/var/lib/classroom-sheets", ".google"), dir)
	}

	cmd.tokens = "/tmp/tokens"
	if dir := cmd.tokenDir(); dir != "/tmp/tokens" {
		t.Errorf("Incorrect token directory - expected:%v, got:%v", "/tmp/tokens", dir)
	}
}

func TestTokensFile(t *testing.T) {
	expected := filepath.Join("/tmp/tokens", "credentials.tokens")

	if file := tokensFile("/etc/classroom-sheets/.google/credentials.json", "/tmp/tokens"); file != expected {
		t.Errorf("Incorrect tokens file - expected:%v, got:%v", expected, file)
	}
}

func TestReadNames(t *testing.T) {
	expected := []string{"Ana Popescu", "Bogdan Ionescu", "Chloe Martin"}

	names, err := readNames(strings.NewReader("Ana Popescu\n\n  Bogdan Ionescu  \n   \nChloe Martin"))
	if err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	}

	if !reflect.DeepEqual(names, expected) {
		t.Errorf("Incorrect names\n   expected: %v\n   got:      %v\n", expected, names)
	}
}

func TestSleepWithCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	if err := sleep(ctx, time.Minute); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected %v, got %v", context.Canceled, err)
	}

	if time.Since(start) > 10*time.Second {
		t.Errorf("sleep did not return on cancelled context")
	}

	if err := sleep(ctx, 0); err != nil {
		t.Errorf("Expected zero delay to return immediately, got %v", err)
	}
}
