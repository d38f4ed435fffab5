package download

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/finnapple/opusgrab/internal/model"
)

// Failed log format constants
const (
	failLogTimeFormat = "2006-01-02 15:04:05"
	failLogURLPrefix  = "URL: "
	failLogSeparator  = "--------------------------------------------------"
)

// FailLog records failed downloads in memory and appends them to a log
// file so they can be retried in a later run.
type FailLog struct {
	mu      sync.Mutex
	path    string
	entries []model.FailedDownload
}

// NewFailLog creates a failed-download log backed by the given file
func NewFailLog(path string) *FailLog {
	return &FailLog{path: path}
}

// Path returns the backing file path
func (l *FailLog) Path() string {
	return l.path
}

// Add records a failure and appends it to the log file. File write errors
// are returned but the in-memory record is kept regardless.
func (l *FailLog) Add(url, title, artist, errMsg string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := model.FailedDownload{
		URL:       url,
		Title:     title,
		Artist:    artist,
		Error:     errMsg,
		Timestamp: time.Now(),
	}
	l.entries = append(l.entries, entry)

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open failed-downloads log: %w", err)
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "Time: %s\nTitle: %s\nArtist: %s\n%s%s\nError: %s\n%s\n\n",
		entry.Timestamp.Format(failLogTimeFormat), title, artist, failLogURLPrefix, url, errMsg, failLogSeparator)
	if err != nil {
		return fmt.Errorf("failed to write failed-downloads log: %w", err)
	}
	return nil
}

// Entries returns a copy of the in-memory failure records
func (l *FailLog) Entries() []model.FailedDownload {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.FailedDownload, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded failures
func (l *FailLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Reset clears the in-memory records, keeping the file untouched
func (l *FailLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// LoadURLs reads the distinct URLs recorded in a failed-downloads log
// file, in first-seen order. A missing file yields no URLs.
func LoadURLs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read failed-downloads log: %w", err)
	}
	defer f.Close()

	seen := make(map[string]bool)
	var urls []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, failLogURLPrefix) {
			continue
		}
		url := strings.TrimSpace(strings.TrimPrefix(line, failLogURLPrefix))
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true
		urls = append(urls, url)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan failed-downloads log: %w", err)
	}

	return urls, nil
}
