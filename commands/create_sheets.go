package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"google.golang.org/api/drive/v3"
)

var CreateSheetsCmd = CreateSheets{
	command: defaults,

	template: "",
	names:    "names.txt",
	folder:   "",
	dryrun:   false,
}

type CreateSheets struct {
	command
	template string
	names    string
	folder   string
	dryrun   bool
}

func (cmd *CreateSheets) Name() string {
	return "create-sheets"
}

func (cmd *CreateSheets) Description() string {
	return "Creates a copy of a template Google Drive file for each name in a list"
}

func (cmd *CreateSheets) Usage() string {
	return "--template <file> --names <file>"
}

func (cmd *CreateSheets) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] create-sheets [options] --template <file ID|URL> --names <file>\n", APP)
	fmt.Println()
	fmt.Println("  Creates a copy of the template file for each (non-blank) line in the names file. The copies")
	fmt.Println("  are named after the line and created in the template's folder unless --folder is specified.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    classroom-sheets create-sheets --credentials "credentials.json" \`)
	fmt.Println(`                                   --template "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`)
	fmt.Println(`                                   --names "names.txt"`)
	fmt.Println()
}

func (cmd *CreateSheets) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("create-sheets")

	flagset.StringVar(&cmd.template, "template", cmd.template, "Template file ID or URL")
	flagset.StringVar(&cmd.names, "names", cmd.names, "Text file with one name per line")
	flagset.StringVar(&cmd.folder, "folder", cmd.folder, "Destination folder ID or URL. Defaults to the template's folder")
	flagset.BoolVar(&cmd.dryrun, "dryrun", cmd.dryrun, "Lists the copies that would be created without creating them")

	return flagset
}

func (cmd *CreateSheets) Execute(args ...any) error {
	ctx, err := cmd.init(args)
	if err != nil {
		return err
	}

	if strings.TrimSpace(cmd.template) == "" {
		return fmt.Errorf("--template is a required option")
	}

	if strings.TrimSpace(cmd.names) == "" {
		return fmt.Errorf("--names is a required option")
	}

	template, err := getFileID(cmd.template)
	if err != nil {
		return err
	}

	folder := ""
	if strings.TrimSpace(cmd.folder) != "" {
		if folder, err = getFileID(cmd.folder); err != nil {
			return err
		}
	}

	f, err := os.Open(cmd.names)
	if err != nil {
		return err
	}

	defer f.Close()

	names, err := readNames(f)
	if err != nil {
		return fmt.Errorf("error reading names from %v (%w)", cmd.names, err)
	}

	if cmd.debug {
		debugf("Template:%v  folder:%v  names:%v", template, folder, len(names))
	}

	if cmd.dryrun {
		for _, name := range names {
			infof("Would create copy: %v", name)
		}

		return nil
	}

	client, err := authorize(ctx, cmd.credentials, cmd.tokenDir(), DRIVE)
	if err != nil {
		return fmt.Errorf("authentication/authorization error (%w)", err)
	}

	gdrive, err := newDrive(ctx, client)
	if err != nil {
		return err
	}

	return makeCopies(ctx, gdrive, template, folder, names)
}

// makeCopies copies the template once per name. The copies are created in the template's
// parent folder if 'folder' is blank.
func makeCopies(ctx context.Context, gdrive *drive.Service, template, folder string, names []string) error {
	parents := []string{}

	if folder != "" {
		parents = append(parents, folder)
	} else {
		metadata, err := gdrive.Files.Get(template).Fields("parents").SupportsAllDrives(true).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("unable to retrieve template %v (%w)", template, err)
		}

		if len(metadata.Parents) > 0 {
			parents = append(parents, metadata.Parents[0])
		}
	}

	for _, name := range names {
		rq := drive.File{
			Name:    name,
			Parents: parents,
		}

		created, err := gdrive.Files.Copy(template, &rq).Fields("id", "name").SupportsAllDrives(true).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("unable to create copy '%v' (%w)", name, err)
		}

		infof("Created copy: %v (ID: %v)", created.Name, created.Id)
	}

	return nil
}

func readNames(r io.Reader) ([]string, error) {
	names := []string{}
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		if name := strings.TrimSpace(scanner.Text()); name != "" {
			names = append(names, name)
		}
	}

	return names, scanner.Err()
}
