package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/classroom-sheets/classroom-sheets/allocator"
	"github.com/classroom-sheets/classroom-sheets/config"
	"github.com/classroom-sheets/classroom-sheets/export"
	"github.com/classroom-sheets/classroom-sheets/roster"
)

var AssignRoomsCmd = AssignRooms{
	command: defaults,

	roster:      "",
	rosterURL:   "",
	rosterRange: "",
	rooms:       "",
	config:      "",
	title:       "",
	url:         "",
	share:       "",
	file:        "",
}

type AssignRooms struct {
	command
	roster      string
	rosterURL   string
	rosterRange string
	rooms       string
	config      string
	title       string
	url         string
	share       string
	file        string
}

func (cmd *AssignRooms) Name() string {
	return "assign-rooms"
}

func (cmd *AssignRooms) Description() string {
	return "Assigns the students in a roster to rooms and publishes the assignments as a shared spreadsheet"
}

func (cmd *AssignRooms) Usage() string {
	return "--roster <file> --rooms <rooms>"
}

func (cmd *AssignRooms) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] assign-rooms [options] --roster <file> --rooms <rooms>\n", APP)
	fmt.Println()
	fmt.Println("  Assigns the students in a roster to rooms, in roster order, filling each room in turn and")
	fmt.Println("  starting a new interval once every room is full. The assignments are published as a Google")
	fmt.Println("  Sheets spreadsheet with one worksheet per interval.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    classroom-sheets assign-rooms --credentials "credentials.json" \`)
	fmt.Println(`                                  --roster "students.csv" \`)
	fmt.Println(`                                  --rooms "EG106:18,EG306:18,ED202:20"`)
	fmt.Println()
	fmt.Println(`    classroom-sheets --debug assign-rooms --credentials "credentials.json" \`)
	fmt.Println(`                                          --roster-url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`)
	fmt.Println(`                                          --roster-range "Students!A1:D" \`)
	fmt.Println(`                                          --config "rooms.yaml" \`)
	fmt.Println(`                                          --share "none"`)
	fmt.Println()
	fmt.Println(`    classroom-sheets assign-rooms --roster "students.csv" --config "rooms.yaml" --file "rooms"`)
	fmt.Println()
}

func (cmd *AssignRooms) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("assign-rooms")

	flagset.StringVar(&cmd.roster, "roster", cmd.roster, "Roster CSV file with 'First name', 'Last name', 'Email address' and 'Group' columns")
	flagset.StringVar(&cmd.rosterURL, "roster-url", cmd.rosterURL, "Roster spreadsheet URL (alternative to --roster)")
	flagset.StringVar(&cmd.rosterRange, "roster-range", cmd.rosterRange, "Roster spreadsheet range e.g. 'Students!A1:D'")
	flagset.StringVar(&cmd.rooms, "rooms", cmd.rooms, "Rooms and capacities e.g. 'EG106:18,EG306:18,ED202:20'")
	flagset.StringVar(&cmd.config, "config", cmd.config, "YAML room configuration file (alternative to --rooms)")
	flagset.StringVar(&cmd.title, "title", cmd.title, fmt.Sprintf("Spreadsheet title. Defaults to '%v'", config.DefaultTitle))
	flagset.StringVar(&cmd.url, "url", cmd.url, "Existing spreadsheet to update. A new spreadsheet is created if not specified")
	flagset.StringVar(&cmd.share, "share", cmd.share, fmt.Sprintf("Share the spreadsheet with 'anyone', an email address or 'none'. Defaults to '%v'", config.DefaultShare))
	flagset.StringVar(&cmd.file, "file", cmd.file, "Writes the assignments as TSV files to this directory instead of publishing them")

	return flagset
}

func (cmd *AssignRooms) Execute(args ...any) error {
	ctx, err := cmd.init(args)
	if err != nil {
		return err
	}

	if err := cmd.validate(); err != nil {
		return err
	}

	// ... room configuration errors are reported before any roster I/O
	conf, rooms, err := cmd.configure()
	if err != nil {
		return err
	}

	if cmd.debug {
		debugf("Rooms %v", rooms)
	}

	source, sink, err := cmd.wire(ctx, conf)
	if err != nil {
		return err
	}

	students, err := source.Students(ctx)
	if err != nil {
		return err
	}

	infof("Retrieved %v students", len(students))

	assignments, err := allocator.Allocate(students, rooms)
	if err != nil {
		return err
	}

	tables := export.MakeTables(assignments)
	if N := allocator.IntervalCount(len(students), rooms); N != len(tables) {
		return fmt.Errorf("allocated %v intervals for %v students but expected %v", len(tables), len(students), N)
	} else if cmd.debug {
		debugf("Allocated %v students over %v intervals", len(students), N)
	}

	for _, t := range tables {
		infof("%v: %v students", t.Name, len(t.Records))
	}

	locator, err := sink.Publish(ctx, conf.Title, tables)
	if err != nil {
		return err
	}

	infof("Published %v room assignments over %v intervals to %v", len(assignments), len(tables), locator)

	return nil
}

func (cmd *AssignRooms) validate() error {
	local := strings.TrimSpace(cmd.roster)
	url := strings.TrimSpace(cmd.rosterURL)

	switch {
	case local == "" && url == "":
		return fmt.Errorf("--roster or --roster-url is a required option")

	case local != "" && url != "":
		return fmt.Errorf("--roster and --roster-url are mutually exclusive")

	case strings.TrimSpace(cmd.rooms) == "" && strings.TrimSpace(cmd.config) == "":
		return fmt.Errorf("--rooms or --config is a required option")
	}

	if url != "" {
		if _, err := getSpreadsheetID(url); err != nil {
			return err
		}

		if strings.TrimSpace(cmd.rosterRange) == "" {
			return fmt.Errorf("--roster-range is a required option with --roster-url")
		} else if err := validateRange(cmd.rosterRange); err != nil {
			return err
		}
	}

	if strings.TrimSpace(cmd.url) != "" {
		if _, err := getSpreadsheetID(cmd.url); err != nil {
			return err
		}
	}

	return nil
}

// configure resolves the room list and publishing options from the --config file and the
// command line, with the command line taking precedence.
func (cmd *AssignRooms) configure() (*config.Config, []allocator.Room, error) {
	conf := config.NewConfig()

	if cmd.config != "" {
		if err := conf.Load(cmd.config); err != nil {
			return nil, nil, fmt.Errorf("could not load configuration from %v (%w)", cmd.config, err)
		}
	}

	if strings.TrimSpace(cmd.title) != "" {
		conf.Title = strings.TrimSpace(cmd.title)
	}

	if strings.TrimSpace(cmd.share) != "" {
		conf.Share = strings.TrimSpace(cmd.share)
	}

	if strings.TrimSpace(cmd.rooms) != "" {
		rooms, err := config.ParseRooms(cmd.rooms)
		return conf, rooms, err
	}

	rooms, err := conf.Allocation()

	return conf, rooms, err
}

func (cmd *AssignRooms) wire(ctx context.Context, conf *config.Config) (roster.Source, export.Sink, error) {
	var source roster.Source = roster.CSVFile{Path: cmd.roster}
	var sink export.Sink = export.Directory{Path: cmd.file}

	if cmd.rosterURL == "" && cmd.file != "" {
		return source, sink, nil
	}

	client, err := authorize(ctx, cmd.credentials, cmd.tokenDir(), SHEETS, DRIVE)
	if err != nil {
		return nil, nil, fmt.Errorf("authentication/authorization error (%w)", err)
	}

	google, err := newSheets(ctx, client)
	if err != nil {
		return nil, nil, err
	}

	gdrive, err := newDrive(ctx, client)
	if err != nil {
		return nil, nil, err
	}

	if cmd.rosterURL != "" {
		spreadsheetID, _ := getSpreadsheetID(cmd.rosterURL)

		if cmd.debug {
			debugf("Roster spreadsheet - ID:%s  range:%s", spreadsheetID, cmd.rosterRange)

			if v, err := getVersion(ctx, gdrive, spreadsheetID); err != nil {
				warnf("Unable to retrieve roster revision (%v)", err)
			} else {
				debugf("Roster revision %v, last modified %v", v.revision, v.modified.Local().Format("2006-01-02 15:04:05"))
			}
		}

		source = sheetRoster{
			google:        google,
			spreadsheetID: spreadsheetID,
			area:          cmd.rosterRange,
		}
	}

	if cmd.file == "" {
		spreadsheet := &export.Spreadsheet{
			Sheets: google,
			Drive:  gdrive,
			Share:  conf.Share,
		}

		if cmd.url != "" {
			spreadsheet.ID, _ = getSpreadsheetID(cmd.url)
		}

		sink = spreadsheet
	}

	return source, sink, nil
}
