package calendar

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// FileCalendar implements HolidayCalendar using a local text file of extra
// days off (e.g. company-wide closing days)
type FileCalendar struct {
	filePath string
	logger   *zap.Logger
	mu       sync.RWMutex
	data     map[int]map[string]string // year -> date -> name
}

// NewFileCalendar creates a new FileCalendar instance
func NewFileCalendar(filePath string, logger *zap.Logger) *FileCalendar {
	return &FileCalendar{
		filePath: filePath,
		logger:   logger,
		data:     make(map[int]map[string]string),
	}
}

// Load loads holiday data from file
func (fc *FileCalendar) Load() error {
	file, err := os.Open(fc.filePath)
	if err != nil {
		return fmt.Errorf("failed to open holiday file: %w", err)
	}
	defer file.Close()

	data := make(map[int]map[string]string)
	count := 0

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Format: YYYY-MM-DD name
		// Example: 2025-12-24 Heiligabend
		parts := strings.SplitN(line, " ", 2)
		if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
			fc.logger.Warn("Invalid line format", zap.String("line", line))
			continue
		}

		date, err := time.Parse("2006-01-02", parts[0])
		if err != nil {
			fc.logger.Warn("Failed to parse date", zap.String("date", parts[0]), zap.Error(err))
			continue
		}

		year := date.Year()
		if data[year] == nil {
			data[year] = make(map[string]string)
		}
		data[year][dateKey(date)] = strings.TrimSpace(parts[1])
		count++
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading holiday file: %w", err)
	}

	fc.mu.Lock()
	fc.data = data
	fc.mu.Unlock()

	fc.logger.Info("Holiday file loaded",
		zap.String("file", fc.filePath),
		zap.Int("entries", count))

	return nil
}

// Holidays returns the file entries for the year
func (fc *FileCalendar) Holidays(year int) map[string]string {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	out := make(map[string]string, len(fc.data[year]))
	for k, v := range fc.data[year] {
		out[k] = v
	}
	return out
}

// HolidayName returns the file entry for the date
func (fc *FileCalendar) HolidayName(date time.Time) (string, bool) {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	name, ok := fc.data[date.Year()][dateKey(date)]
	return name, ok
}
