package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/classroom-sheets/classroom-sheets/allocator"
	"github.com/classroom-sheets/classroom-sheets/roster"
)

var students = []roster.Student{
	{FirstName: "Ana", LastName: "Popescu", Email: "ana.popescu@example.com", Group: "331AA"},
	{FirstName: "Mihai", LastName: "Ionescu", Email: "mihai.ionescu@example.com", Group: "331AB"},
	{FirstName: "Elena", LastName: "Dumitru", Email: "elena.dumitru@example.com", Group: "331AA"},
}

func TestMakeTables(t *testing.T) {
	g := NewWithT(t)

	assignments, err := allocator.Allocate(students, []allocator.Room{{Name: "EG106", Capacity: 1}, {Name: "EG306", Capacity: 1}})
	g.Expect(err).NotTo(HaveOccurred())

	tables := MakeTables(assignments)

	g.Expect(tables).To(Equal([]Table{
		{
			Name:   "Interval 1",
			Header: Header,
			Records: [][]string{
				{"Ana", "Popescu", "ana.popescu@example.com", "331AA", "EG106"},
				{"Mihai", "Ionescu", "mihai.ionescu@example.com", "331AB", "EG306"},
			},
		},
		{
			Name:   "Interval 2",
			Header: Header,
			Records: [][]string{
				{"Elena", "Dumitru", "elena.dumitru@example.com", "331AA", "EG106"},
			},
		},
	}))
}

func TestMakeTablesWithNoAssignments(t *testing.T) {
	g := NewWithT(t)

	g.Expect(MakeTables(nil)).To(BeEmpty())
}

func TestWriteTSV(t *testing.T) {
	g := NewWithT(t)

	expected := `First name	Last name	Email address	Group	Room
Ana	Popescu	ana.popescu@example.com	331AA	EG106
`

	var f strings.Builder
	table := Table{
		Name:    "Interval 1",
		Header:  Header,
		Records: [][]string{{"Ana", "Popescu", "ana.popescu@example.com", "331AA", "EG106"}},
	}

	g.Expect(WriteTSV(&f, table)).To(Succeed())
	g.Expect(f.String()).To(Equal(expected))
}

func TestDirectoryPublish(t *testing.T) {
	g := NewWithT(t)

	dir := filepath.Join(t.TempDir(), "rooms")
	assignments, err := allocator.Allocate(students, []allocator.Room{{Name: "EG106", Capacity: 2}})
	g.Expect(err).NotTo(HaveOccurred())

	sink := Directory{Path: dir}
	path, err := sink.Publish(context.Background(), "Rooms: Week 1", MakeTables(assignments))

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(path).To(Equal(dir))

	entries, err := os.ReadDir(dir)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(entries).To(HaveLen(2))
	g.Expect(entries[0].Name()).To(Equal("Rooms_ Week 1 - Interval 1.tsv"))
	g.Expect(entries[1].Name()).To(Equal("Rooms_ Week 1 - Interval 2.tsv"))

	bytes, err := os.ReadFile(filepath.Join(dir, entries[1].Name()))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(string(bytes)).To(Equal("First name\tLast name\tEmail address\tGroup\tRoom\nElena\tDumitru\telena.dumitru@example.com\t331AA\tEG106\n"))
}

func TestDirectoryPublishRemovesStaleIntervals(t *testing.T) {
	g := NewWithT(t)
	dir := t.TempDir()

	for _, name := range []string{"Week 1 - Interval 2.tsv", "Week 1 - Interval 3.tsv", "Week 2 - Interval 3.tsv", "Week 1 - Notes.tsv"} {
		g.Expect(os.WriteFile(filepath.Join(dir, name), []byte("stale\n"), 0600)).To(Succeed())
	}

	sink := Directory{Path: dir}
	_, err := sink.Publish(context.Background(), "Week 1", []Table{
		{Name: IntervalName(1), Header: Header},
		{Name: IntervalName(2), Header: Header},
	})

	g.Expect(err).NotTo(HaveOccurred())

	entries, err := os.ReadDir(dir)
	g.Expect(err).NotTo(HaveOccurred())

	names := []string{}
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	g.Expect(names).To(ConsistOf("Week 1 - Interval 1.tsv", "Week 1 - Interval 2.tsv", "Week 1 - Notes.tsv", "Week 2 - Interval 3.tsv"))

	bytes, err := os.ReadFile(filepath.Join(dir, "Week 1 - Interval 2.tsv"))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(string(bytes)).To(Equal("First name\tLast name\tEmail address\tGroup\tRoom\n"))
}

func TestDirectoryPublishWithCancelledContext(t *testing.T) {
	g := NewWithT(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := Directory{Path: t.TempDir()}
	_, err := sink.Publish(ctx, "Rooms", []Table{{Name: "Interval 1", Header: Header}})

	g.Expect(err).To(MatchError(context.Canceled))
}
