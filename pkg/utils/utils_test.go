package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"flightdesk-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := RefCode()
		require.Len(t, code, RefCodeLength)
		for _, c := range code {
			assert.True(t, strings.ContainsRune(CodeAlphabet, c), "unexpected %q", c)
		}
	}
}

func TestUniqueCode(t *testing.T) {
	taken := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := UniqueCode(FlightCodeLength, func(c string) bool { return taken[c] })
		require.NoError(t, err)
		assert.False(t, taken[code])
		taken[code] = true
	}

	_, err := UniqueCode(0, func(string) bool { return false })
	assert.Error(t, err)
}

func TestUniqueCode_ScansWhenRandomDrawsCollide(t *testing.T) {
	// every one-character code but "Q" is taken
	code, err := UniqueCode(1, func(c string) bool { return c != "Q" })
	require.NoError(t, err)
	assert.Equal(t, "Q", code)

	_, err = UniqueCode(1, func(string) bool { return true })
	assert.ErrorIs(t, err, ErrCodeSpaceExhausted)
}

func TestDates(t *testing.T) {
	tests := []struct {
		raw     string
		ordinal string
		long    string
		api     string
	}{
		{"20092025", "20th September", "Saturday, 20 September 2025", "2025-09-20"},
		{"01012026", "1st January", "Thursday, 01 January 2026", "2026-01-01"},
		{"22022026", "22nd February", "Sunday, 22 February 2026", "2026-02-22"},
		{"13032026", "13th March", "Friday, 13 March 2026", "2026-03-13"},
		{"tomorrow", "tomorrow", "tomorrow", "tomorrow"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.ordinal, FormatOrdinalDate(tt.raw))
			assert.Equal(t, tt.long, FormatLongDate(tt.raw))
			assert.Equal(t, tt.api, StoredDateToAPI(tt.raw))
		})
	}

	assert.Equal(t, "20092025", APIDateToStored("2025-09-20"))
	assert.Equal(t, "20092025", APIDateToStored("20092025"))
	assert.Equal(t, "20th September 2025", FormatOrdinalDateWithYear("20092025"))
	assert.Equal(t, "Departing Sat 20 Sep 2025", FormatTicketDate("20092025"))
	assert.Equal(t, "Departing soon", FormatTicketDate("soon"))
	assert.Equal(t, "11th", Ordinal(11))
	assert.Equal(t, "112th", Ordinal(112))
	assert.Equal(t, "23rd", Ordinal(23))
}

func TestLogParser_MissingFile(t *testing.T) {
	entries := NewLogParser(logger.NewNop()).ParseFile(filepath.Join(t.TempDir(), "nope.log"), 0)
	require.Len(t, entries, 1)
	assert.Equal(t, LevelWarn, entries[0].Level)
	assert.Equal(t, "Log file not found.", entries[0].Action)
}

func TestLogParser_ParseMixedContent(t *testing.T) {
	content := strings.Join([]string{
		`{"level":"info","timestamp":"2025-09-20T10:00:00.000Z","msg":"Action performed","user":"Captain","action":"Created flight ABC123","outcome":"ok","source":"bot"}`,
		`{"embeds":[{"fields":[{"name":"Username","value":"<@42>"},{"name":"Action Performed","value":"` + "```Close flight ABC123 (FAILED)```" + `"},{"name":"Error Code","value":"` + "`AB12CD3`" + `"}]}]}`,
		``,
		`panic: assignment to entry in nil map`,
		`goroutine 7 [running]:`,
		``,
		`✅ Bot connected`,
		`{"level":"error","timestamp":"2025-09-20T10:05:00.000Z","msg":"Failed to edit message","error":"404 Not Found"}`,
	}, "\n")

	entries := NewLogParser(logger.NewNop()).Parse(content, 0)
	require.Len(t, entries, 4)

	assert.Equal(t, "Failed to edit message: 404 Not Found", entries[0].Action)
	assert.Equal(t, LevelError, entries[0].Level)
	assert.Equal(t, "system", entries[0].Source)

	assert.Equal(t, "✅ Bot connected", entries[1].Action)
	assert.Equal(t, LevelOK, entries[1].Level)

	assert.Equal(t, "Close flight ABC123 (FAILED)", entries[2].Action)
	assert.Equal(t, "42", entries[2].User)
	assert.Equal(t, "AB12CD3", entries[2].ErrorCode)
	require.NotNil(t, entries[2].Traceback, "the panic attaches to the failed entry before it")
	assert.Contains(t, *entries[2].Traceback, "goroutine 7")

	assert.Equal(t, "Created flight ABC123", entries[3].Action)
	assert.Equal(t, "Captain", entries[3].User)
	assert.Equal(t, "bot", entries[3].Source)
}

func TestLogParser_LegacyActionKeepsFirstWord(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"```Pressed set_gates for code ABC123```", "Pressed set_gates for code ABC123"},
		{"```\nPressed close for code ABC123\n```", "Pressed close for code ABC123"},
		{"```text\nReminder sent```", "Reminder sent"},
		{"Plain action", "Plain action"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			raw, err := json.Marshal(map[string]interface{}{
				"embeds": []interface{}{map[string]interface{}{
					"fields": []interface{}{
						map[string]string{"name": "Username", "value": "<@42>"},
						map[string]string{"name": "Action Performed", "value": tt.value},
					},
				}},
			})
			require.NoError(t, err)

			entries := NewLogParser(logger.NewNop()).Parse(string(raw), 0)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.want, entries[0].Action)
			assert.Equal(t, "bot", entries[0].Source)
		})
	}
}

func TestLogParser_Limit(t *testing.T) {
	var lines []string
	for i := 0; i < 10; i++ {
		lines = append(lines, `{"msg":"tick","action":"step","outcome":"ok"}`)
	}
	path := filepath.Join(t.TempDir(), "utilities.log")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644))

	entries := NewLogParser(logger.NewNop()).ParseFile(path, 3)
	assert.Len(t, entries, 3)
}
