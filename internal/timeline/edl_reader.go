package timeline

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// EDLEvent is one parsed edit event. The reader exists so exported cuts
// can be verified and re-imported; it parses the subset this package
// writes plus plain CMX event lines.
type EDLEvent struct {
	Number   int
	Reel     string
	Track    string
	SrcIn    float64
	SrcOut   float64
	RecIn    float64
	RecOut   float64
	ClipName string
	Comment  string
	Topic    string
	Type     string
	Reason   string
}

var (
	eventLinePattern = regexp.MustCompile(`^(\d+)\s+(\S+)\s+(\S+)\s+(\S+)\s+(\d{2}:\d{2}:\d{2}:\d{2})\s+(\d{2}:\d{2}:\d{2}:\d{2})\s+(\d{2}:\d{2}:\d{2}:\d{2})\s+(\d{2}:\d{2}:\d{2}:\d{2})\s*$`)
	noteLinePattern  = regexp.MustCompile(`^\*\s*([A-Z ]+[A-Z]):\s*(.*)$`)
)

// ParseTimecode converts non-drop HH:MM:SS:FF to seconds.
func ParseTimecode(tc string, fps int) (float64, error) {
	parts := strings.Split(strings.TrimSpace(tc), ":")
	if len(parts) != 4 {
		return 0, fmt.Errorf("malformed timecode %q", tc)
	}
	var fields [4]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return 0, fmt.Errorf("malformed timecode %q: %w", tc, err)
		}
		fields[i] = n
	}
	seconds := fields[0]*3600 + fields[1]*60 + fields[2]
	return float64(seconds) + float64(fields[3])/float64(fps), nil
}

// ParseEDL reads an EDL stream into events. Unrecognized lines are
// skipped; note lines attach to the preceding event.
func ParseEDL(r io.Reader, fps int) ([]EDLEvent, error) {
	if fps <= 0 {
		fps = 30
	}
	var events []EDLEvent
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if m := eventLinePattern.FindStringSubmatch(line); m != nil {
			number, _ := strconv.Atoi(m[1])
			srcIn, err := ParseTimecode(m[5], fps)
			if err != nil {
				return nil, err
			}
			srcOut, err := ParseTimecode(m[6], fps)
			if err != nil {
				return nil, err
			}
			recIn, err := ParseTimecode(m[7], fps)
			if err != nil {
				return nil, err
			}
			recOut, err := ParseTimecode(m[8], fps)
			if err != nil {
				return nil, err
			}
			events = append(events, EDLEvent{
				Number: number,
				Reel:   m[2],
				Track:  m[3],
				SrcIn:  srcIn,
				SrcOut: srcOut,
				RecIn:  recIn,
				RecOut: recOut,
			})
			continue
		}
		if m := noteLinePattern.FindStringSubmatch(line); m != nil && len(events) > 0 {
			last := &events[len(events)-1]
			switch m[1] {
			case "FROM CLIP NAME":
				last.ClipName = m[2]
			case "COMMENT":
				last.Comment = m[2]
			case "TOPIC":
				last.Topic = m[2]
			case "TYPE":
				last.Type = m[2]
			case "REASON":
				last.Reason = m[2]
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read edl: %w", err)
	}
	return events, nil
}
