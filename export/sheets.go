package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"
)

// Spreadsheet is a Sink that publishes tables as worksheets of a Google Sheets spreadsheet. A new
// spreadsheet is created unless ID identifies an existing one, in which case the worksheets are
// added if missing and overwritten otherwise, and 'Interval <n>' worksheets left over from a
// larger allocation are deleted.
//
// Share is one of "" or "none" (not shared), "anyone" (anyone with the link can view) or an
// email address (that user can view). Sharing requires Drive.
type Spreadsheet struct {
	Sheets *sheets.Service
	Drive  *drive.Service
	ID     string
	Share  string
}

func URL(id string) string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s", id)
}

func (s *Spreadsheet) Publish(ctx context.Context, title string, tables []Table) (string, error) {
	id := s.ID

	permission, err := s.permission()
	if err != nil {
		return "", err
	}

	if id == "" {
		if v, err := s.create(ctx, title, tables); err != nil {
			return "", err
		} else {
			id = v
		}
	} else if err := s.prepare(ctx, id, tables); err != nil {
		return "", err
	}

	if err := s.write(ctx, id, tables); err != nil {
		return "", err
	}

	if permission != nil {
		if err := s.share(ctx, id, permission); err != nil {
			return "", err
		}
	}

	return URL(id), nil
}

func (s *Spreadsheet) create(ctx context.Context, title string, tables []Table) (string, error) {
	rq := sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title: title,
		},
		Sheets: lo.Map(tables, func(t Table, _ int) *sheets.Sheet {
			return &sheets.Sheet{
				Properties: &sheets.SheetProperties{
					Title: t.Name,
				},
			}
		}),
	}

	spreadsheet, err := s.Sheets.Spreadsheets.Create(&rq).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet '%v' (%w)", title, err)
	}

	return spreadsheet.SpreadsheetId, nil
}

func (s *Spreadsheet) prepare(ctx context.Context, id string, tables []Table) error {
	spreadsheet, err := s.Sheets.Spreadsheets.Get(id).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to fetch spreadsheet (%w)", err)
	}

	names := map[string]bool{}
	for _, table := range tables {
		names[normalise(table.Name)] = true
	}

	existing := map[string]bool{}
	stale := []*sheets.SheetProperties{}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil {
			title := sheet.Properties.Title
			existing[normalise(title)] = true

			if isInterval(title) && !names[normalise(title)] {
				stale = append(stale, sheet.Properties)
			}
		}
	}

	requests := []*sheets.Request{}
	ranges := []string{}

	for _, table := range tables {
		if existing[normalise(table.Name)] {
			ranges = append(ranges, quote(table.Name))
		} else {
			requests = append(requests, &sheets.Request{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{
						Title: table.Name,
					},
				},
			})
		}
	}

	// ... a spreadsheet must keep at least one worksheet
	if remaining := len(spreadsheet.Sheets) - len(stale) + len(requests); remaining == 0 && len(stale) > 0 {
		last := stale[len(stale)-1]
		stale = stale[:len(stale)-1]
		ranges = append(ranges, quote(last.Title))
	}

	for _, sheet := range stale {
		requests = append(requests, &sheets.Request{
			DeleteSheet: &sheets.DeleteSheetRequest{
				SheetId:         sheet.SheetId,
				ForceSendFields: []string{"SheetId"},
			},
		})
	}

	if len(requests) > 0 {
		rq := sheets.BatchUpdateSpreadsheetRequest{
			Requests: requests,
		}

		if _, err := s.Sheets.Spreadsheets.BatchUpdate(id, &rq).Context(ctx).Do(); err != nil {
			return fmt.Errorf("unable to update worksheets (%w)", err)
		}
	}

	if len(ranges) > 0 {
		if err := clearRanges(ctx, s.Sheets, id, ranges); err != nil {
			return fmt.Errorf("unable to clear worksheets (%w)", err)
		}
	}

	return nil
}

func (s *Spreadsheet) write(ctx context.Context, id string, tables []Table) error {
	if len(tables) == 0 {
		return nil
	}

	rq := sheets.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data: lo.Map(tables, func(t Table, _ int) *sheets.ValueRange {
			return &sheets.ValueRange{
				Range:  fmt.Sprintf("%s!A1", quote(t.Name)),
				Values: values(t),
			}
		}),
	}

	if _, err := s.Sheets.Spreadsheets.Values.BatchUpdate(id, &rq).Context(ctx).Do(); err != nil {
		return fmt.Errorf("unable to write worksheets (%w)", err)
	}

	return nil
}

func (s *Spreadsheet) permission() (*drive.Permission, error) {
	switch share := strings.TrimSpace(s.Share); {
	case share == "" || strings.EqualFold(share, "none"):
		return nil, nil

	case s.Drive == nil:
		return nil, fmt.Errorf("sharing requires a Google Drive client")

	case strings.EqualFold(share, "anyone"):
		return &drive.Permission{Type: "anyone", Role: "reader"}, nil

	case strings.Contains(share, "@"):
		return &drive.Permission{Type: "user", Role: "reader", EmailAddress: share}, nil

	default:
		return nil, fmt.Errorf("invalid share '%v' - expected 'none', 'anyone' or an email address", share)
	}
}

func (s *Spreadsheet) share(ctx context.Context, id string, permission *drive.Permission) error {
	call := s.Drive.Permissions.Create(id, permission)
	if permission.Type == "user" {
		call = call.SendNotificationEmail(false)
	}

	if _, err := call.Context(ctx).Do(); err != nil {
		return fmt.Errorf("unable to share spreadsheet (%w)", err)
	}

	return nil
}

func clearRanges(ctx context.Context, google *sheets.Service, id string, ranges []string) error {
	rq := sheets.BatchClearValuesRequest{
		Ranges: ranges,
	}

	if _, err := google.Spreadsheets.Values.BatchClear(id, &rq).Context(ctx).Do(); err != nil {
		return err
	}

	return nil
}

func values(t Table) [][]any {
	rows := make([][]any, 0, len(t.Records)+1)
	for _, record := range append([][]string{t.Header}, t.Records...) {
		rows = append(rows, lo.Map(record, func(v string, _ int) any {
			return v
		}))
	}

	return rows
}

func quote(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func normalise(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
