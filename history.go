package enquire

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// HistoryConfig holds the answer history configuration.
//
// Answers submitted as non-empty strings are recorded and can be recalled
// with Alt+Up / Alt+Down. File supports:
//   - Empty string: memory-only history
//   - Absolute path: "/home/user/.app_answers"
//   - Home directory: "~/.app_answers"
//   - Relative path: "./answers" (converted to absolute)
//
// Use DefaultHistoryFile to get an XDG compliant location per prompt name.
type HistoryConfig struct {
	Enabled     bool   // Enable/disable history functionality
	MaxEntries  int    // Maximum number of entries to keep in memory (default: 1000)
	File        string // File path for history persistence (empty = memory only)
	MaxFileSize int64  // Maximum file size in bytes before rotation (default: 1MB)
	MaxBackups  int    // Maximum number of backup files to keep (default: 3)
}

const (
	defaultHistoryEntries  = 1000
	defaultHistoryFileSize = 1024 * 1024
	defaultHistoryBackups  = 3
)

// DefaultHistoryConfig returns a memory-only history configuration.
func DefaultHistoryConfig() *HistoryConfig {
	return &HistoryConfig{
		Enabled:     true,
		MaxEntries:  defaultHistoryEntries,
		MaxFileSize: defaultHistoryFileSize,
		MaxBackups:  defaultHistoryBackups,
	}
}

// DefaultHistoryFile returns $XDG_CONFIG_HOME/enquire/<name>.history, falling
// back to ~/.config when XDG_CONFIG_HOME is unset.
func DefaultHistoryFile(name string) string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	if name == "" {
		name = "answers"
	}
	return filepath.Join(configDir, "enquire", name+".history")
}

// HistoryManager keeps previously submitted answers and persists them.
type HistoryManager struct {
	config  HistoryConfig
	entries []string
}

// NewHistoryManager creates a history manager. A nil config yields the
// default memory-only configuration.
func NewHistoryManager(config *HistoryConfig) *HistoryManager {
	cfg := DefaultHistoryConfig()
	if config != nil {
		cfg = new(HistoryConfig)
		*cfg = *config
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = defaultHistoryEntries
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = defaultHistoryFileSize
	}
	if cfg.MaxBackups < 0 {
		cfg.MaxBackups = defaultHistoryBackups
	}
	if cfg.File != "" {
		if absPath, err := expandHistoryPath(cfg.File); err == nil {
			cfg.File = absPath
		}
	}
	return &HistoryManager{config: *cfg}
}

// IsEnabled returns whether history functionality is enabled
func (hm *HistoryManager) IsEnabled() bool {
	return hm.config.Enabled
}

// File returns the resolved history file path, empty for memory-only history.
func (hm *HistoryManager) File() string {
	return hm.config.File
}

// Load reads entries from the configured file. A missing file is not an error.
func (hm *HistoryManager) Load() error {
	if !hm.config.Enabled || hm.config.File == "" {
		return nil
	}

	file, err := os.Open(hm.config.File)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		// Only blank lines are skipped; answers keep their surrounding spaces
		if line := scanner.Text(); strings.TrimSpace(line) != "" {
			hm.Add(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read history file: %w", err)
	}
	return nil
}

// Save writes the entries to the configured file, rotating it first when it
// grew past MaxFileSize.
func (hm *HistoryManager) Save() error {
	if !hm.config.Enabled || hm.config.File == "" {
		return nil
	}

	if err := hm.rotateIfNeeded(); err != nil {
		return fmt.Errorf("failed to rotate history file: %w", err)
	}

	if dir := filepath.Dir(hm.config.File); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create history directory: %w", err)
		}
	}
	return hm.writeEntries(hm.entries)
}

func (hm *HistoryManager) writeEntries(entries []string) error {
	file, err := os.Create(hm.config.File)
	if err != nil {
		return fmt.Errorf("failed to create history file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, entry := range entries {
		if _, err := fmt.Fprintln(w, entry); err != nil {
			return fmt.Errorf("failed to write history entry: %w", err)
		}
	}
	return w.Flush()
}

// Add records an answer. Empty answers and repeats of the latest entry are
// ignored; the oldest entries are dropped beyond MaxEntries.
func (hm *HistoryManager) Add(entry string) {
	if !hm.config.Enabled || entry == "" || strings.ContainsAny(entry, "\r\n") {
		return
	}
	if n := len(hm.entries); n > 0 && hm.entries[n-1] == entry {
		return
	}
	hm.entries = append(hm.entries, entry)
	if over := len(hm.entries) - hm.config.MaxEntries; over > 0 {
		hm.entries = hm.entries[over:]
	}
}

// Entries returns a copy of the recorded answers, oldest first.
func (hm *HistoryManager) Entries() []string {
	if !hm.config.Enabled {
		return []string{}
	}
	return append([]string{}, hm.entries...)
}

// Len returns the number of recorded answers.
func (hm *HistoryManager) Len() int {
	return len(hm.entries)
}

// Clear removes every recorded answer.
func (hm *HistoryManager) Clear() {
	hm.entries = nil
}

func (hm *HistoryManager) rotateIfNeeded() error {
	info, err := os.Stat(hm.config.File)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if info.Size() < hm.config.MaxFileSize {
		return nil
	}
	return hm.rotate()
}

// rotate shifts file.N to file.N+1, moves the live file to file.1 and keeps
// the newer half of the entries.
func (hm *HistoryManager) rotate() error {
	file := hm.config.File
	if hm.config.MaxBackups == 0 {
		return os.Truncate(file, 0)
	}

	oldest := file + "." + strconv.Itoa(hm.config.MaxBackups)
	if err := os.Remove(oldest); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove oldest backup: %w", err)
	}
	for i := hm.config.MaxBackups - 1; i >= 1; i-- {
		from := file + "." + strconv.Itoa(i)
		to := file + "." + strconv.Itoa(i+1)
		if err := os.Rename(from, to); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to rotate backup %d: %w", i, err)
		}
	}
	if err := os.Rename(file, file+".1"); err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}

	keep := len(hm.entries) / 2
	if keep < 100 {
		keep = len(hm.entries)
	}
	hm.entries = hm.entries[len(hm.entries)-keep:]
	return nil
}

// expandHistoryPath expands "~" and converts the path to an absolute one.
func expandHistoryPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to convert to absolute path: %w", err)
	}
	return absPath, nil
}
