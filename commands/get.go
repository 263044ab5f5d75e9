package commands

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var GetCmd = Get{
	command: defaults,

	url:  "",
	area: "",
	file: time.Now().Format("roster-2006-01-02T150405.tsv"),
}

type Get struct {
	command
	url  string
	area string
	file string
}

func (cmd *Get) Name() string {
	return "get"
}

func (cmd *Get) Description() string {
	return "Retrieves a student roster from a Google Sheets worksheet and stores it to a local TSV file"
}

func (cmd *Get) Usage() string {
	return "--url <url> --range <range> --file <file>"
}

func (cmd *Get) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] get [options] --url <URL> --range <range> --file <file>\n", APP)
	fmt.Println()
	fmt.Println("  Downloads a student roster from a Google Sheets worksheet to a TSV file, with the columns")
	fmt.Println("  reordered to 'First name', 'Last name', 'Email address' and 'Group'")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    classroom-sheets --debug get --credentials "credentials.json" \`)
	fmt.Println(`                                 --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`)
	fmt.Println(`                                 --range "Students!A1:D" \`)
	fmt.Println(`                                 --file "students.tsv"`)
	fmt.Println()
}

func (cmd *Get) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("get")

	flagset.StringVar(&cmd.url, "url", cmd.url, "Spreadsheet URL")
	flagset.StringVar(&cmd.area, "range", cmd.area, "Spreadsheet range e.g. 'Students!A1:D'")
	flagset.StringVar(&cmd.file, "file", cmd.file, "TSV file name. Defaults to 'roster-<yyyy-mm-ddTHHmmss>.tsv'")

	return flagset
}

func (cmd *Get) Execute(args ...any) error {
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

	spreadsheet, err := getSpreadsheetID(cmd.url)
	if err != nil {
		return err
	}

	if cmd.debug {
		debugf("Spreadsheet - ID:%s  range:%s", spreadsheet, cmd.area)
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

	response, err := google.Spreadsheets.Values.Get(spreadsheet, cmd.area).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to retrieve data from sheet (%w)", err)
	}

	if len(response.Values) == 0 {
		return fmt.Errorf("no data in spreadsheet/range")
	}

	dir := filepath.Dir(cmd.file)
	if err := os.MkdirAll(dir, 0770); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".roster")
	if err != nil {
		return err
	}

	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	N, err := sheetToTSV(tmp, response)
	if err != nil {
		return fmt.Errorf("error creating TSV file (%w)", err)
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmp.Name(), cmd.file); err != nil {
		return err
	}

	infof("Retrieved %v students to file %s", N, cmd.file)

	return nil
}
