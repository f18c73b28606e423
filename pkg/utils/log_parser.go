package utils

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"flightdesk-service/pkg/logger"
)

// DefaultLogLimit caps reconstructed entries when no limit is given
const DefaultLogLimit = 300

const maxActionLength = 400

var (
	blankLineSplit = regexp.MustCompile(`\n\s*\n`)
	refLinePrefix  = regexp.MustCompile(`^❌\s*\[`)
	refCodeInLine  = regexp.MustCompile(`\[([A-Z0-9]{5,10})\]`)
	mentionPattern = regexp.MustCompile(`<@(\d+)>`)
	codeFence      = regexp.MustCompile("^```[A-Za-z0-9]*\\n|^```|```$")
)

// LogParser reconstructs dashboard log entries from the action log file
type LogParser struct {
	logger logger.Logger
}

// NewLogParser creates a new log parser
func NewLogParser(logger logger.Logger) *LogParser {
	return &LogParser{
		logger: logger,
	}
}

type logSegment struct {
	raw string
	obj map[string]interface{}
}

// ParseFile reads and parses the log file, newest entries first
func (p *LogParser) ParseFile(path string, limit int) []LogEntry {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []LogEntry{{Time: "—", User: "system", Action: "Log file not found.", Level: LevelWarn}}
		}
		p.logger.Error("Failed to read log file", "path", path, "error", err)
		return []LogEntry{{Time: "—", User: "system", Action: "Log parser error: " + err.Error(), Level: LevelError}}
	}
	return p.Parse(string(data), limit)
}

// Parse turns log text into entries, newest first, capped at limit
func (p *LogParser) Parse(content string, limit int) []LogEntry {
	if limit <= 0 {
		limit = DefaultLogLimit
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")

	var entries []LogEntry
	for _, seg := range splitSegments(content) {
		if seg.obj != nil {
			if entry, ok := entryFromObject(seg.obj); ok {
				entries = append(entries, entry)
			}
			continue
		}
		entries = appendRawBlocks(entries, seg.raw)
	}

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func splitSegments(content string) []logSegment {
	var segments []logSegment
	pos := 0
	for pos < len(content) {
		idx := strings.IndexByte(content[pos:], '{')
		if idx < 0 {
			if tail := strings.TrimSpace(content[pos:]); tail != "" {
				segments = append(segments, logSegment{raw: tail})
			}
			break
		}
		if before := strings.TrimSpace(content[pos : pos+idx]); before != "" {
			segments = append(segments, logSegment{raw: before})
		}

		start := pos + idx
		end := matchObject(content, start)
		if end < 0 {
			segments = append(segments, logSegment{raw: strings.TrimSpace(content[start:])})
			break
		}

		var obj map[string]interface{}
		if err := json.Unmarshal([]byte(content[start:end]), &obj); err == nil {
			segments = append(segments, logSegment{obj: obj})
		} else {
			segments = append(segments, logSegment{raw: content[start:end]})
		}
		pos = end
	}
	return segments
}

// matchObject returns the offset just past the brace closing the object at start, or -1
func matchObject(s string, start int) int {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
		}
		if inString {
			continue
		}
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

func entryFromObject(obj map[string]interface{}) (LogEntry, bool) {
	if action, ok := obj["action"].(string); ok {
		entry := LogEntry{
			Time:      entryTime(obj),
			User:      stringOr(obj["user"], "system"),
			Action:    action,
			Level:     entryLevel(obj),
			ErrorCode: stringOr(obj["error_code"], ""),
			Traceback: traceOf(obj),
			Source:    stringOr(obj["source"], "dashboard"),
		}
		if entry.ErrorCode != "" {
			entry.Level = LevelError
		}
		return entry, true
	}

	if embeds, ok := obj["embeds"].([]interface{}); ok && len(embeds) > 0 {
		return entryFromEmbed(embeds[0])
	}

	if msg, ok := obj["msg"].(string); ok {
		action := msg
		if errText := stringOr(obj["error"], ""); errText != "" {
			action += ": " + errText
		}
		return LogEntry{
			Time:      entryTime(obj),
			User:      "system",
			Action:    truncate(action, maxActionLength),
			Level:     entryLevel(obj),
			Traceback: traceOf(obj),
			Source:    "system",
		}, true
	}

	return LogEntry{}, false
}

func entryFromEmbed(raw interface{}) (LogEntry, bool) {
	embed, ok := raw.(map[string]interface{})
	if !ok {
		return LogEntry{}, false
	}

	fields := map[string]string{}
	if list, ok := embed["fields"].([]interface{}); ok {
		for _, f := range list {
			field, ok := f.(map[string]interface{})
			if !ok {
				continue
			}
			fields[stringOr(field["name"], "")] = stringOr(field["value"], "")
		}
	}

	user := fields["Username"]
	if user == "" {
		user = "system"
	}
	if m := mentionPattern.FindStringSubmatch(user); m != nil {
		user = m[1]
	}

	action := codeFence.ReplaceAllString(strings.TrimSpace(fields["Action Performed"]), "")
	action = strings.TrimSpace(action)
	errorCode := strings.Trim(fields["Error Code"], "`")

	level := LevelInfo
	if errorCode != "" || strings.Contains(action, "FAILED") {
		level = LevelError
	}

	return LogEntry{
		Time:      "—",
		User:      user,
		Action:    action,
		Level:     level,
		ErrorCode: errorCode,
		Source:    "bot",
	}, true
}

func appendRawBlocks(entries []LogEntry, text string) []LogEntry {
	for _, block := range blankLineSplit.Split(strings.TrimSpace(text), -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		lines := strings.Split(block, "\n")

		if refLinePrefix.MatchString(lines[0]) {
			ref := "?"
			if m := refCodeInLine.FindStringSubmatch(lines[0]); m != nil {
				ref = m[1]
			}
			if n := len(entries); n > 0 && entries[n-1].ErrorCode == "" {
				entries[n-1].ErrorCode = ref
			}
			continue
		}

		if isTraceback(lines) {
			entries = attachTraceback(entries, lines)
			continue
		}

		var parts []string
		for _, l := range lines {
			if l = strings.TrimSpace(l); l != "" {
				parts = append(parts, l)
			}
		}
		joined := strings.Join(parts, " ")
		if joined == "" {
			continue
		}
		entries = append(entries, LogEntry{
			Time:   "—",
			User:   "system",
			Action: truncate(joined, maxActionLength),
			Level:  levelFromText(joined),
			Source: "system",
		})
	}
	return entries
}

func isTraceback(lines []string) bool {
	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		if strings.Contains(l, "Traceback") || strings.Contains(l, `File "`) || strings.Contains(l, "Error:") ||
			strings.HasPrefix(trimmed, "goroutine ") || strings.HasPrefix(trimmed, "panic:") {
			return true
		}
	}
	return false
}

func attachTraceback(entries []LogEntry, lines []string) []LogEntry {
	summary := ""
	for i := len(lines) - 1; i >= 0; i-- {
		l := strings.TrimSpace(lines[i])
		if l == "" || strings.HasPrefix(l, "File ") || strings.HasPrefix(l, "Traceback") || strings.HasPrefix(l, "During") {
			continue
		}
		summary = l
		break
	}
	trace := strings.Join(lines, "\n")

	if n := len(entries); n > 0 && entries[n-1].Level == LevelError {
		entries[n-1].Traceback = &trace
		if entries[n-1].Summary == "" {
			entries[n-1].Summary = summary
		}
		return entries
	}

	action := summary
	if action == "" {
		action = "Unhandled exception"
	}
	return append(entries, LogEntry{
		Time:      "—",
		User:      "system",
		Action:    action,
		Level:     LevelError,
		Traceback: &trace,
		Source:    "bot",
	})
}

func levelFromText(s string) string {
	switch {
	case strings.Contains(s, "❌") || strings.Contains(s, "Error") || strings.Contains(s, "FAILED"):
		return LevelError
	case strings.Contains(s, "✅"):
		return LevelOK
	case strings.Contains(s, "⚠"):
		return LevelWarn
	}
	return LevelInfo
}

func entryLevel(obj map[string]interface{}) string {
	if outcome := stringOr(obj["outcome"], ""); outcome != "" {
		return outcome
	}
	switch level := stringOr(obj["level"], LevelInfo); level {
	case "warn", "warning":
		return LevelWarn
	case "error", "dpanic", "panic", "fatal":
		return LevelError
	case "debug":
		return LevelInfo
	default:
		return level
	}
}

func entryTime(obj map[string]interface{}) string {
	if t := stringOr(obj["time"], ""); t != "" {
		return t
	}
	ts := stringOr(obj["timestamp"], "")
	if ts == "" {
		return "—"
	}
	for _, layout := range []string{"2006-01-02T15:04:05.000Z0700", time.RFC3339Nano} {
		if parsed, err := time.Parse(layout, ts); err == nil {
			return parsed.UTC().Format("15:04:05")
		}
	}
	return "—"
}

func traceOf(obj map[string]interface{}) *string {
	for _, key := range []string{"traceback", "stacktrace"} {
		if s := stringOr(obj[key], ""); s != "" {
			return &s
		}
	}
	return nil
}

func stringOr(v interface{}, def string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return def
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
