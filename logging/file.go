package logging

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	defaultRotateEvery = 24 * time.Hour
	archiveStamp       = "20060102-150405.000"
	maxLineBytes       = 1 << 20
)

// FileOptions configures a FileWriter.
type FileOptions struct {
	Dir  string
	Name string
	// MaxBytes rotates the active file before a write would grow it past
	// this size. Zero disables size rotation.
	MaxBytes int64
	// MaxArchives is the number of compressed archives kept.
	MaxArchives int
	// RotateEvery rotates a file older than this. Zero means daily.
	RotateEvery time.Duration
	Now         func() time.Time
}

// FileWriter appends JSON log lines to Dir/Name. Rotated files are renamed to
// <base>-<timestamp><ext>, gzipped and pruned to MaxArchives in the background.
type FileWriter struct {
	opts FileOptions
	base string
	ext  string

	mu       sync.Mutex
	file     *os.File
	size     int64
	openedAt time.Time

	archiveMu sync.Mutex
	archiving sync.WaitGroup
}

// NewFileWriter opens (or creates) the active log file.
func NewFileWriter(opts FileOptions) (*FileWriter, error) {
	if strings.TrimSpace(opts.Name) == "" {
		return nil, fmt.Errorf("log file name is required")
	}
	if opts.RotateEvery <= 0 {
		opts.RotateEvery = defaultRotateEvery
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	ext := filepath.Ext(opts.Name)
	fw := &FileWriter{
		opts: opts,
		base: strings.TrimSuffix(opts.Name, ext),
		ext:  ext,
	}
	if err := fw.open(); err != nil {
		return nil, err
	}
	return fw, nil
}

// Path returns the active log file.
func (fw *FileWriter) Path() string {
	return filepath.Join(fw.opts.Dir, fw.opts.Name)
}

func (fw *FileWriter) open() error {
	f, err := os.OpenFile(fw.Path(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat log file: %w", err)
	}
	fw.file = f
	fw.size = info.Size()
	fw.openedAt = fw.opts.Now()
	return nil
}

func (fw *FileWriter) Write(p []byte) (int, error) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.file == nil {
		return 0, os.ErrClosed
	}
	if fw.due(int64(len(p))) {
		if err := fw.rotate(); err != nil {
			return 0, err
		}
	}
	n, err := fw.file.Write(p)
	fw.size += int64(n)
	return n, err
}

func (fw *FileWriter) due(next int64) bool {
	if fw.size == 0 {
		return false
	}
	if fw.opts.MaxBytes > 0 && fw.size+next > fw.opts.MaxBytes {
		return true
	}
	return fw.opts.Now().Sub(fw.openedAt) >= fw.opts.RotateEvery
}

func (fw *FileWriter) rotate() error {
	if err := fw.file.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	fw.file = nil
	rotated := filepath.Join(fw.opts.Dir, fw.base+"-"+fw.opts.Now().Format(archiveStamp)+fw.ext)
	if err := os.Rename(fw.Path(), rotated); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("rename log file: %w", err)
	}
	fw.archiving.Add(1)
	go fw.archive(rotated)
	return fw.open()
}

// archive compresses one rotated file and prunes old archives.
func (fw *FileWriter) archive(path string) {
	defer fw.archiving.Done()
	fw.archiveMu.Lock()
	defer fw.archiveMu.Unlock()
	if err := gzipFile(path); err == nil {
		_ = os.Remove(path)
	}
	fw.prune()
}

func gzipFile(path string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(path + ".gz")
	if err != nil {
		return err
	}
	zw := gzip.NewWriter(out)
	_, err = io.Copy(zw, in)
	if cerr := zw.Close(); err == nil {
		err = cerr
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path + ".gz")
	}
	return err
}

// Archives lists the compressed archives, oldest first.
func (fw *FileWriter) Archives() []string {
	matches, _ := filepath.Glob(filepath.Join(fw.opts.Dir, fw.base+"-*"+fw.ext+".gz"))
	// the timestamp in the name sorts chronologically
	sort.Strings(matches)
	return matches
}

func (fw *FileWriter) prune() {
	if fw.opts.MaxArchives <= 0 {
		return
	}
	archives := fw.Archives()
	for len(archives) > fw.opts.MaxArchives {
		_ = os.Remove(archives[0])
		archives = archives[1:]
	}
}

// Close closes the active file and waits for pending archives.
func (fw *FileWriter) Close() error {
	fw.mu.Lock()
	var err error
	if fw.file != nil {
		err = fw.file.Close()
		fw.file = nil
	}
	fw.mu.Unlock()
	fw.archiving.Wait()
	return err
}

// TailFilter selects the entries returned by Tail. Zero values match everything.
type TailFilter struct {
	Limit     int
	MinLevel  Level
	Logger    string
	Category  string
	RequestID string
}

func (f TailFilter) match(e Entry) bool {
	if f.MinLevel > DEBUG {
		level, err := ParseLevel(e.Level)
		if err != nil || level < f.MinLevel {
			return false
		}
	}
	if f.Logger != "" && !strings.EqualFold(e.Logger, f.Logger) {
		return false
	}
	if f.Category != "" && !strings.EqualFold(e.Category, f.Category) {
		return false
	}
	return f.RequestID == "" || e.RequestID == f.RequestID
}

// Tail returns the last filter.Limit matching entries of the log file at path,
// oldest first. Malformed lines are skipped and a missing file yields no entries.
func Tail(path string, filter TailFilter) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if !filter.match(entry) {
			continue
		}
		entries = append(entries, entry)
		if filter.Limit > 0 && len(entries) > filter.Limit {
			entries = entries[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}
