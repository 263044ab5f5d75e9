package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Directory is a Sink that writes each table to a '<title> - <table>.tsv' file. Interval files for
// the same title that are not rewritten are removed.
type Directory struct {
	Path string
}

func (d Directory) Publish(ctx context.Context, title string, tables []Table) (string, error) {
	if err := os.MkdirAll(d.Path, 0770); err != nil {
		return "", err
	}

	written := map[string]bool{}
	for _, table := range tables {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		file := filepath.Join(d.Path, filename(title, table.Name))
		if err := d.write(file, table); err != nil {
			return "", fmt.Errorf("error writing TSV file %v (%w)", file, err)
		}

		written[filepath.Base(file)] = true
	}

	if err := d.prune(title, written); err != nil {
		return "", err
	}

	return d.Path, nil
}

// prune removes the '<title> - Interval <n>.tsv' files left over from an earlier, larger allocation.
func (d Directory) prune(title string, written map[string]bool) error {
	entries, err := os.ReadDir(d.Path)
	if err != nil {
		return err
	}

	prefix := filename(title, "")
	prefix = strings.TrimSuffix(prefix, ".tsv")

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || written[name] || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".tsv") {
			continue
		}

		if isInterval(strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".tsv")) {
			if err := os.Remove(filepath.Join(d.Path, name)); err != nil {
				return fmt.Errorf("error removing TSV file %v (%w)", name, err)
			}
		}
	}

	return nil
}

func (d Directory) write(file string, table Table) error {
	tmp, err := os.CreateTemp(d.Path, ".tsv")
	if err != nil {
		return err
	}

	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if err := WriteTSV(tmp, table); err != nil {
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), file)
}

func WriteTSV(f io.Writer, table Table) error {
	w := csv.NewWriter(f)
	w.Comma = '\t'

	if err := w.Write(table.Header); err != nil {
		return err
	}

	if err := w.WriteAll(table.Records); err != nil {
		return err
	}

	return w.Error()
}

func filename(title, name string) string {
	unsafe := regexp.MustCompile(`[/\\:*?"<>|]`)

	return unsafe.ReplaceAllString(fmt.Sprintf("%s - %s.tsv", title, name), "_")
}
