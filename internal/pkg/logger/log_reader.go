package logger

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"food-donation-be/internal/pkg/apperror"
)

type LogEntry struct {
	Id        string                 `json:"id"`
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Module    string                 `json:"module,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// LogQuery selects entries for the admin log view. Empty filters match all.
type LogQuery struct {
	Level  string
	Module string
	Limit  int
	Offset int
}

func (q LogQuery) matches(e *LogEntry) bool {
	return (q.Level == "" || e.Level == q.Level) && (q.Module == "" || e.Module == q.Module)
}

// entryId is derived from the raw line, so ids stay stable across reads.
func entryId(line []byte) string {
	sum := sha256.Sum256(line)
	return hex.EncodeToString(sum[:8])
}

// scan decodes the active log file oldest first. Lines that are not JSON
// entries are skipped. The rotator caps the file at 10MB.
func (l *ZapLogger) scan(keep func(*LogEntry) bool) ([]LogEntry, error) {
	if l.filePath == "" {
		return nil, nil
	}
	file, err := os.Open(l.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var entries []LogEntry
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var entry LogEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		if entry.Id == "" {
			entry.Id = entryId(scanner.Bytes())
		}
		if keep(&entry) {
			entries = append(entries, entry)
		}
	}
	return entries, scanner.Err()
}

// GetLogs returns matching entries newest first.
func (l *ZapLogger) GetLogs(q LogQuery) ([]LogEntry, error) {
	entries, err := l.scan(q.matches)
	if err != nil {
		return nil, err
	}

	page := []LogEntry{}
	for i := len(entries) - 1 - q.Offset; i >= 0; i-- {
		if q.Limit > 0 && len(page) == q.Limit {
			break
		}
		page = append(page, entries[i])
	}
	return page, nil
}

func (l *ZapLogger) GetLogById(id string) (*LogEntry, error) {
	entries, err := l.scan(func(e *LogEntry) bool { return e.Id == id })
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, apperror.NotFound("log")
	}
	return &entries[len(entries)-1], nil
}
