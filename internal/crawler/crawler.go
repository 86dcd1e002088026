package crawler

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"fondstree/internal/record"
)

// Crawler scans a directory for YAML record files.
type Crawler struct {
	root    string
	ignored []string

	// Failed lists files that could not be decoded during the last scan.
	Failed []string
}

// NewCrawler creates a crawler rooted at dir.
func NewCrawler(dir string) *Crawler {
	return &Crawler{
		root:    dir,
		ignored: []string{".git", "testdata"},
	}
}

// Root returns the scanned directory.
func (c *Crawler) Root() string {
	return c.root
}

// ScanRecords walks the root directory and decodes every record file.
// It uses a callback to stream records, preventing large memory buildup.
// Files are visited in lexical order.
func (c *Crawler) ScanRecords(ctx context.Context, onRecord func(record.Record)) error {
	c.Failed = nil
	return filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		// Skip ignored directories
		if d.IsDir() {
			for _, ign := range c.ignored {
				if d.Name() == ign && path != c.root {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !isRecordFile(d.Name()) {
			return nil
		}

		rec, err := record.LoadFile(path)
		if err != nil {
			// Log and continue instead of failing the whole scan
			slog.Warn("crawler: skipping unreadable record", "path", path, "error", err)
			c.Failed = append(c.Failed, path)
			return nil
		}

		onRecord(rec)
		return nil
	})
}

// ListRecords returns every record under the root directory.
func (c *Crawler) ListRecords(ctx context.Context) ([]record.Record, error) {
	var records []record.Record
	err := c.ScanRecords(ctx, func(r record.Record) {
		records = append(records, r)
	})
	if err != nil {
		return nil, fmt.Errorf("scan records in %s: %w", c.root, err)
	}
	slog.Debug("crawler: scan complete", "root", c.root, "records", len(records), "failed", len(c.Failed))
	return records, nil
}

func isRecordFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
