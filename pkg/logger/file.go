package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// fileWriter is a file writer with size-based log rotation.
type fileWriter struct {
	// Filename is the file to write logs to
	Filename string

	// MaxSize is the maximum size in megabytes of the log file before rotation
	MaxSize int

	// MaxBackups is the maximum number of old log files to retain
	MaxBackups int

	// MaxAge is the maximum number of days to retain old log files
	MaxAge int

	mu       sync.Mutex
	file     *os.File
	size     int64
	cleaning bool
}

// Write implements io.Writer
func (w *fileWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		if err := w.openFile(); err != nil {
			return 0, err
		}
	}

	if w.size+int64(len(p)) > w.maxBytes() {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}

	n, err = w.file.Write(p)
	w.size += int64(n)

	return n, err
}

// Close implements io.Closer
func (w *fileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.closeFile()
}

// Sync syncs the file to disk
func (w *fileWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file != nil {
		return w.file.Sync()
	}
	return nil
}

func (w *fileWriter) maxBytes() int64 {
	if w.MaxSize <= 0 {
		return 100 * 1024 * 1024
	}
	return int64(w.MaxSize) * 1024 * 1024
}

func (w *fileWriter) openFile() error {
	if err := os.MkdirAll(filepath.Dir(w.Filename), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(w.Filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	w.file = file
	w.size = info.Size()

	return nil
}

func (w *fileWriter) closeFile() error {
	if w.file == nil {
		return nil
	}

	err := w.file.Close()
	w.file = nil
	w.size = 0
	return err
}

func (w *fileWriter) rotate() error {
	if err := w.closeFile(); err != nil {
		return err
	}

	if err := os.Rename(w.Filename, w.backupName()); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to rotate log file: %w", err)
		}
	}

	if err := w.openFile(); err != nil {
		return err
	}

	go w.cleanup()

	return nil
}

// backupName generates a backup filename with timestamp
func (w *fileWriter) backupName() string {
	dir := filepath.Dir(w.Filename)
	filename := filepath.Base(w.Filename)
	ext := filepath.Ext(filename)
	name := filename[:len(filename)-len(ext)]

	timestamp := time.Now().Format("2006-01-02T15-04-05.000")

	return filepath.Join(dir, fmt.Sprintf("%s-%s%s", name, timestamp, ext))
}

// cleanup removes old log files based on MaxBackups and MaxAge
func (w *fileWriter) cleanup() {
	w.mu.Lock()
	if w.cleaning {
		w.mu.Unlock()
		return
	}
	w.cleaning = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.cleaning = false
		w.mu.Unlock()
	}()

	backups, err := w.listBackups()
	if err != nil {
		return
	}

	if w.MaxBackups > 0 && len(backups) > w.MaxBackups {
		for _, backup := range backups[w.MaxBackups:] {
			os.Remove(backup.path)
		}
		backups = backups[:w.MaxBackups]
	}

	if w.MaxAge > 0 {
		cutoff := time.Now().AddDate(0, 0, -w.MaxAge)
		for _, backup := range backups {
			if backup.modTime.Before(cutoff) {
				os.Remove(backup.path)
			}
		}
	}
}

type backupInfo struct {
	path    string
	modTime time.Time
}

// listBackups returns backup files sorted by modification time (newest first)
func (w *fileWriter) listBackups() ([]backupInfo, error) {
	dir := filepath.Dir(w.Filename)
	filename := filepath.Base(w.Filename)
	ext := filepath.Ext(filename)
	name := filename[:len(filename)-len(ext)]

	matches, err := filepath.Glob(filepath.Join(dir, name+"-*"+ext))
	if err != nil {
		return nil, err
	}

	var backups []backupInfo
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue
		}
		backups = append(backups, backupInfo{path: match, modTime: info.ModTime()})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].modTime.After(backups[j].modTime)
	})

	return backups, nil
}

var _ io.WriteCloser = (*fileWriter)(nil)
