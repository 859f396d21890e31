package transcript

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// SRTEntry is a single subtitle cue.
type SRTEntry struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// ParseSRT reads an SRT file. Malformed entries are skipped, never fatal.
func ParseSRT(path string) ([]SRTEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read srt: %w", err)
	}
	return ParseSRTContent(string(data)), nil
}

// ParseSRTContent parses SRT text into entries, skipping malformed blocks.
func ParseSRTContent(content string) []SRTEntry {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	blocks := strings.Split(strings.TrimSpace(normalized), "\n\n")

	var entries []SRTEntry
	for _, block := range blocks {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 2 {
			continue
		}
		index, err := strconv.Atoi(strings.TrimSpace(lines[0]))
		if err != nil {
			continue
		}
		timeline := lines[1]
		parts := strings.Split(timeline, "-->")
		if len(parts) != 2 {
			continue
		}
		start, errStart := ParseSRTTimestamp(parts[0])
		end, errEnd := ParseSRTTimestamp(parts[1])
		if errStart != nil || errEnd != nil || end < start {
			continue
		}
		text := ""
		if len(lines) > 2 {
			text = strings.TrimSpace(strings.Join(lines[2:], "\n"))
		}
		entries = append(entries, SRTEntry{Index: index, Start: start, End: end, Text: text})
	}
	return entries
}

// ParseSRTTimestamp converts HH:MM:SS,mmm into seconds. A period separator
// is tolerated since some tools emit it.
func ParseSRTTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

// FormatSRTTimestamp renders seconds as HH:MM:SS,mmm.
func FormatSRTTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalMillis := int(seconds*1000 + 0.5)
	hours := totalMillis / 3600000
	totalMillis %= 3600000
	minutes := totalMillis / 60000
	totalMillis %= 60000
	secs := totalMillis / 1000
	millis := totalMillis % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}
