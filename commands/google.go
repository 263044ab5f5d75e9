package commands

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/classroom-sheets/classroom-sheets/roster"
)

const SPREADSHEET = "application/vnd.google-apps.spreadsheet"

type file struct {
	ID   string
	Name string
}

// sheetRoster is a roster.Source that reads the students from a Google Sheets range.
type sheetRoster struct {
	google        *sheets.Service
	spreadsheetID string
	area          string
}

func (s sheetRoster) Students(ctx context.Context) ([]roster.Student, error) {
	response, err := s.google.Spreadsheets.Values.Get(s.spreadsheetID, s.area).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve roster from sheet (%w)", err)
	}

	if len(response.Values) == 0 {
		return nil, fmt.Errorf("no data in spreadsheet/range")
	}

	return roster.MakeRoster(response.Values)
}

func newSheets(ctx context.Context, client *http.Client) (*sheets.Service, error) {
	google, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create new Google Sheets client (%w)", err)
	}

	return google, nil
}

func newDrive(ctx context.Context, client *http.Client) (*drive.Service, error) {
	gdrive, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create new Google Drive client (%w)", err)
	}

	return gdrive, nil
}

// listSpreadsheets returns the (non-trashed) spreadsheets in a Drive folder, sorted by name.
func listSpreadsheets(ctx context.Context, gdrive *drive.Service, folder string) ([]file, error) {
	q := fmt.Sprintf("'%s' in parents and mimeType = '%s' and trashed = false", folder, SPREADSHEET)
	page := ""
	files := []file{}

	for {
		call := gdrive.Files.List().
			Q(q).
			OrderBy("name").
			Fields("nextPageToken", "files(id,name)").
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			Context(ctx)

		if page != "" {
			call.PageToken(page)
		}

		list, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("unable to list files in folder %v (%w)", folder, err)
		}

		for _, f := range list.Files {
			files = append(files, file{ID: f.Id, Name: f.Name})
		}

		if page = list.NextPageToken; page == "" {
			break
		}
	}

	return files, nil
}
