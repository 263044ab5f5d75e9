// Package export converts a room allocation into per-interval tables and publishes them, either
// as local TSV files or as a shared Google Sheets spreadsheet.
package export

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"

	"github.com/classroom-sheets/classroom-sheets/allocator"
	"github.com/classroom-sheets/classroom-sheets/roster"
)

var Header = []string{"First name", "Last name", "Email address", "Group", "Room"}

var intervalName = regexp.MustCompile(`^(?i)interval\s*[0-9]+$`)

type Table struct {
	Name    string
	Header  []string
	Records [][]string
}

// Sink publishes a set of named tables under a title and returns a locator for the result.
type Sink interface {
	Publish(ctx context.Context, title string, tables []Table) (string, error)
}

// MakeTables returns one table per interval, named 'Interval <n>'. Rows are in allocation
// order and the interval itself is implied by the table.
func MakeTables(assignments []allocator.Assignment[roster.Student]) []Table {
	return lo.Map(allocator.Intervals(assignments), func(interval []allocator.Assignment[roster.Student], _ int) Table {
		return Table{
			Name:   IntervalName(interval[0].Interval),
			Header: Header,
			Records: lo.Map(interval, func(a allocator.Assignment[roster.Student], _ int) []string {
				return []string{
					a.Subject.FirstName,
					a.Subject.LastName,
					a.Subject.Email,
					a.Subject.Group,
					a.Room,
				}
			}),
		}
	})
}

func IntervalName(interval int) string {
	return fmt.Sprintf("Interval %v", interval)
}

// isInterval returns true for worksheet (or file) names of the form 'Interval <n>', i.e. the
// tables published by an earlier allocation.
func isInterval(name string) bool {
	return intervalName.MatchString(strings.TrimSpace(name))
}
