package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const logFilePrefix = "tribune-"

// SetupLogFile opens a fresh timestamped log file under dir, pruning all
// but the keep most recent files. The caller owns the returned handle.
func SetupLogFile(dir string, keep int) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	name := filepath.Join(dir, logFilePrefix+time.Now().Format("2006-01-02T15-04-05")+".log")
	f, err := os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	// Pruning failure must not break logging.
	if err := pruneLogFiles(dir, keep); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to prune old logs: %v\n", err)
	}

	return f, nil
}

// pruneLogFiles removes the oldest log files once more than keep exist.
// The timestamped names sort chronologically.
func pruneLogFiles(dir string, keep int) error {
	files, err := filepath.Glob(filepath.Join(dir, logFilePrefix+"*.log"))
	if err != nil {
		return err
	}
	if len(files) <= keep {
		return nil
	}

	sort.Strings(files)
	for _, old := range files[:len(files)-keep] {
		if err := os.Remove(old); err != nil {
			return fmt.Errorf("remove %s: %w", old, err)
		}
	}

	return nil
}
