package commands

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"
)

var ExtractGradesCmd = ExtractGrades{
	command: defaults,

	folder:  "",
	files:   "",
	labs:    "",
	prefix:  "Lab",
	columns: "1,3,9",
	delay:   8 * time.Second,
	file:    "grades.csv",
}

type ExtractGrades struct {
	command
	folder  string
	files   string
	labs    string
	prefix  string
	columns string
	delay   time.Duration
	file    string
}

func (cmd *ExtractGrades) Name() string {
	return "extract-grades"
}

func (cmd *ExtractGrades) Description() string {
	return "Extracts the grades from the lab worksheets of a folder of Google Sheets spreadsheets to a CSV file"
}

func (cmd *ExtractGrades) Usage() string {
	return "--folder <folder> --labs <from-to> --file <file>"
}

func (cmd *ExtractGrades) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] extract-grades [options] --folder <folder ID|URL> --labs <from-to> --file <file>\n", APP)
	fmt.Println()
	fmt.Println("  Extracts the selected columns from every worksheet titled <prefix><number> (e.g. 'Lab 10'), with")
	fmt.Println("  <number> in the --labs range, of every spreadsheet in a Google Drive folder and writes the")
	fmt.Println("  combined records to a CSV file. Each record is tagged with the source file ID and worksheet.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    classroom-sheets extract-grades --credentials "credentials.json" \`)
	fmt.Println(`                                    --folder "1cwOe9P4UsgF0y3t4YBWFUJZoYbtgxvFa" \`)
	fmt.Println(`                                    --labs 1-9 --columns 1,3,9 \`)
	fmt.Println(`                                    --file "grades.csv"`)
	fmt.Println()
}

func (cmd *ExtractGrades) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("extract-grades")

	flagset.StringVar(&cmd.folder, "folder", cmd.folder, "Google Drive folder ID or URL")
	flagset.StringVar(&cmd.files, "files", cmd.files, "Comma separated list of spreadsheet IDs or URLs (alternative to --folder)")
	flagset.StringVar(&cmd.labs, "labs", cmd.labs, "Range of lab numbers to extract e.g. '1-9'")
	flagset.StringVar(&cmd.prefix, "prefix", cmd.prefix, "Lab worksheet title prefix")
	flagset.StringVar(&cmd.columns, "columns", cmd.columns, "Columns to extract, either 1-based column numbers or column letters")
	flagset.DurationVar(&cmd.delay, "delay", cmd.delay, "Delay between spreadsheets, to stay within the Google Sheets API read quota")
	flagset.StringVar(&cmd.file, "file", cmd.file, "CSV file for the extracted grades")

	return flagset
}

func (cmd *ExtractGrades) Execute(args ...any) error {
	ctx, err := cmd.init(args)
	if err != nil {
		return err
	}

	// ... check parameters
	if strings.TrimSpace(cmd.folder) == "" && strings.TrimSpace(cmd.files) == "" {
		return fmt.Errorf("--folder or --files is a required option")
	}

	if strings.TrimSpace(cmd.labs) == "" {
		return fmt.Errorf("--labs is a required option")
	}

	if strings.TrimSpace(cmd.file) == "" {
		return fmt.Errorf("--file is a required option")
	}

	labs, err := parseLabs(cmd.labs)
	if err != nil {
		return err
	}

	columns, err := parseColumns(cmd.columns)
	if err != nil {
		return err
	}

	if cmd.debug {
		debugf("Labs %v-%v  prefix:%v  columns:%v", labs.from, labs.to, cmd.prefix, columns)
	}

	// ... authorise
	client, err := authorize(ctx, cmd.credentials, cmd.tokenDir(), SHEETS, DRIVE)
	if err != nil {
		return fmt.Errorf("authentication/authorization error (%w)", err)
	}

	google, err := newSheets(ctx, client)
	if err != nil {
		return err
	}

	gdrive, err := newDrive(ctx, client)
	if err != nil {
		return err
	}

	files, err := cmd.list(ctx, gdrive)
	if err != nil {
		return err
	}

	infof("Found %v spreadsheets", len(files))

	// ... extract
	records := [][]string{}
	for i, f := range files {
		if i > 0 {
			if err := sleep(ctx, cmd.delay); err != nil {
				return err
			}
		}

		list, err := cmd.extract(ctx, google, f, *labs, columns)
		if err != nil {
			return err
		}

		records = append(records, list...)
	}

	if len(records) == 0 {
		warnf("No matching data found")
		return nil
	}

	if err := cmd.write(gradesHeader(columns), records); err != nil {
		return err
	}

	infof("Saved %v records to %v", len(records), cmd.file)

	return nil
}

func (cmd *ExtractGrades) list(ctx context.Context, gdrive *drive.Service) ([]file, error) {
	if strings.TrimSpace(cmd.files) == "" {
		folder, err := getFileID(cmd.folder)
		if err != nil {
			return nil, err
		}

		return listSpreadsheets(ctx, gdrive, folder)
	}

	files := []file{}
	for _, s := range strings.Split(cmd.files, ",") {
		if strings.TrimSpace(s) == "" {
			continue
		}

		id, err := getFileID(s)
		if err != nil {
			return nil, err
		}

		files = append(files, file{ID: id, Name: id})
	}

	return files, nil
}

func (cmd *ExtractGrades) extract(ctx context.Context, google *sheets.Service, f file, labs labRange, columns []int) ([][]string, error) {
	infof("Processing file: %v", f.Name)

	spreadsheet, err := getSpreadsheet(ctx, google, f.ID)
	if err != nil {
		return nil, err
	}

	records := [][]string{}
	for _, sheet := range spreadsheet.Sheets {
		title := sheet.Properties.Title

		if n, ok := labNumber(title, cmd.prefix); !ok || !labs.contains(n) {
			continue
		}

		response, err := google.Spreadsheets.Values.Get(f.ID, fmt.Sprintf("'%s'", strings.ReplaceAll(title, "'", "''"))).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve data from sheet '%v' in %v (%w)", title, f.Name, err)
		}

		list := makeGrades(response.Values, columns, f.ID, strings.ReplaceAll(title, " ", ""))
		infof("  Extracted %v records from sheet: %v", len(list), title)

		records = append(records, list...)
	}

	return records, nil
}

func (cmd *ExtractGrades) write(header []string, records [][]string) error {
	dir := filepath.Dir(cmd.file)
	if err := os.MkdirAll(dir, 0770); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".grades")
	if err != nil {
		return err
	}

	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("error writing CSV file (%w)", err)
	}

	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("error writing CSV file (%w)", err)
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), cmd.file)
}

func sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
