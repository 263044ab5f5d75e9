package commands

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"google.golang.org/api/sheets/v4"
)

var PutCmd = Put{
	command: defaults,

	url:  "",
	area: "",
	file: "",
}

type Put struct {
	command
	url  string
	area string
	file string
}

func (cmd *Put) Name() string {
	return "put"
}

func (cmd *Put) Description() string {
	return "Uploads a TSV file to a Google Sheets worksheet"
}

func (cmd *Put) Usage() string {
	return "--url <url> --range <range> --file <file>"
}

func (cmd *Put) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] put [options] --url <URL> --range <range> --file <file>\n", APP)
	fmt.Println()
	fmt.Println("  Uploads a TSV file (e.g. a roster or the TSV room assignments) to a Google Sheets worksheet.")
	fmt.Println("  The first line of the file is written to the top row of the range.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    classroom-sheets --debug put --credentials "credentials.json" \`)
	fmt.Println(`                                 --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`)
	fmt.Println(`                                 --range "Students!A1:D" \`)
	fmt.Println(`                                 --file "students.tsv"`)
	fmt.Println()
}

func (cmd *Put) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("put")

	flagset.StringVar(&cmd.url, "url", cmd.url, "Spreadsheet URL")
	flagset.StringVar(&cmd.area, "range", cmd.area, "Spreadsheet range e.g. 'Students!A1:D'")
	flagset.StringVar(&cmd.file, "file", cmd.file, "TSV file")

	return flagset
}

func (cmd *Put) Execute(args ...any) error {
	ctx, err := cmd.init(args)
	if err != nil {
		return err
	}

	// ... check parameters
	if strings.TrimSpace(cmd.url) == "" {
		return fmt.Errorf("--url is a required option")
	}

	if strings.TrimSpace(cmd.area) == "" {
		return fmt.Errorf("--range is a required option")
	} else if err := validateRange(cmd.area); err != nil {
		return err
	}

	if strings.TrimSpace(cmd.file) == "" {
		return fmt.Errorf("--file is a required option")
	}

	spreadsheetID, err := getSpreadsheetID(cmd.url)
	if err != nil {
		return err
	}

	if cmd.debug {
		debugf("Spreadsheet - ID:%s  range:%s", spreadsheetID, cmd.area)
	}

	f, err := os.Open(cmd.file)
	if err != nil {
		return err
	}

	defer f.Close()

	header, data, err := tsvToSheet(f, cmd.area)
	if err != nil {
		return fmt.Errorf("invalid TSV file (%w)", err)
	}

	// ... authorise
	client, err := authorize(ctx, cmd.credentials, cmd.tokenDir(), SHEETS)
	if err != nil {
		return fmt.Errorf("authentication/authorization error (%w)", err)
	}

	google, err := newSheets(ctx, client)
	if err != nil {
		return err
	}

	spreadsheet, err := getSpreadsheet(ctx, google, spreadsheetID)
	if err != nil {
		return err
	}

	sheet, err := getSheet(spreadsheet, cmd.area)
	if err != nil {
		return err
	}

	if cmd.debug {
		debugf("Worksheet %v (%v)", sheet.Properties.Title, sheet.Properties.SheetId)
	}

	rq := sheets.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             []*sheets.ValueRange{header, data},
	}

	if _, err := google.Spreadsheets.Values.BatchUpdate(spreadsheet.SpreadsheetId, &rq).Context(ctx).Do(); err != nil {
		return err
	}

	infof("Uploaded %v rows from TSV file %v to %v", len(data.Values), cmd.file, cmd.area)

	return nil
}
