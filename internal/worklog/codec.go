package worklog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Header is the first line of every work log.
const Header = `"Category","Focus","StartTime","EndTime","Duration"`

// TimeLayout is the on-disk timestamp format, in local time.
const TimeLayout = "2006-01-02 15:04:05"

const fieldCount = 5

// ErrMalformedRecord is returned by DecodeRecord for lines that do not hold
// a well-formed record.
var ErrMalformedRecord = errors.New("malformed record")

// Entry is one completed session. Names are snapshots taken when the
// session ended, not references into the category store.
type Entry struct {
	Category string
	Focus    string
	Start    time.Time
	End      time.Time
	Duration int64
}

// EncodeRecord renders e as a single log line without the trailing newline.
func EncodeRecord(e Entry) string {
	var b strings.Builder
	writeQuoted(&b, e.Category)
	b.WriteByte(',')
	writeQuoted(&b, e.Focus)
	b.WriteByte(',')
	writeQuoted(&b, e.Start.Local().Format(TimeLayout))
	b.WriteByte(',')
	writeQuoted(&b, e.End.Local().Format(TimeLayout))
	b.WriteByte(',')
	b.WriteString(strconv.FormatInt(e.Duration, 10))
	return b.String()
}

func writeQuoted(b *strings.Builder, s string) {
	b.WriteByte('"')
	b.WriteString(strings.ReplaceAll(s, `"`, `""`))
	b.WriteByte('"')
}

// DecodeRecord parses one log line. Commas inside quotes belong to the field
// and a doubled quote inside quotes is a literal quote.
func DecodeRecord(line string) (Entry, error) {
	fields, err := splitFields(strings.TrimRight(line, "\r\n"))
	if err != nil {
		return Entry{}, err
	}
	if len(fields) != fieldCount {
		return Entry{}, fmt.Errorf("%w: want %d fields, got %d", ErrMalformedRecord, fieldCount, len(fields))
	}

	start, err := time.ParseInLocation(TimeLayout, fields[2], time.Local)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: start time: %v", ErrMalformedRecord, err)
	}
	end, err := time.ParseInLocation(TimeLayout, fields[3], time.Local)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: end time: %v", ErrMalformedRecord, err)
	}
	dur, err := strconv.ParseInt(strings.TrimSpace(fields[4]), 10, 64)
	if err != nil || dur < 0 {
		return Entry{}, fmt.Errorf("%w: duration %q", ErrMalformedRecord, fields[4])
	}

	return Entry{
		Category: fields[0],
		Focus:    fields[1],
		Start:    start,
		End:      end,
		Duration: dur,
	}, nil
}

func splitFields(line string) ([]string, error) {
	var (
		fields   []string
		cur      strings.Builder
		inQuotes bool
	)
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"' && inQuotes && i+1 < len(runes) && runes[i+1] == '"':
			cur.WriteRune('"')
			i++
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if inQuotes {
		return nil, fmt.Errorf("%w: unterminated quote", ErrMalformedRecord)
	}
	return append(fields, cur.String()), nil
}
