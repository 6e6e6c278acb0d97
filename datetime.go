package gobigquery

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/cockroachdb/apd/v3"
)

const (
	dateLayout      = "2006-01-02"
	dateTimeLayout  = "2006-01-02 15:04:05.000000"
	timestampLayout = "2006-01-02 15:04:05.000000-07:00"
)

// timestampParseLayouts are tried in order when a TIMESTAMP arrives as text. The service emits
// the first form; the others appear in user input and older responses.
var timestampParseLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999-07",
	"2006-01-02T15:04:05.999999999",
}

var microsPerSecond = apd.New(1000000, 0)

func formatDate(d civil.Date) string {
	return d.In(time.UTC).Format(dateLayout)
}

func formatDateTime(dt civil.DateTime) string {
	return dt.In(time.UTC).Format(dateTimeLayout)
}

// formatTimestamp renders t in UTC with microsecond precision and an explicit offset.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// formatTime renders a time of day, adding microseconds only when there are any.
func formatTime(t civil.Time) string {
	s := fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	if micros := t.Nanosecond / 1000; micros != 0 {
		return s + fmt.Sprintf(".%06d", micros)
	}
	return s
}

func parseDate(s string) (civil.Date, error) {
	d, err := civil.ParseDate(s)
	if err != nil {
		return civil.Date{}, errInvalidScalar(DataTypeDate, s, err)
	}
	return d, nil
}

// parseDateTime accepts both the space separated wire form and the ISO 8601 T separator.
func parseDateTime(s string) (civil.DateTime, error) {
	iso := s
	if len(iso) > 10 && iso[10] == ' ' {
		iso = iso[:10] + "T" + iso[11:]
	}
	dt, err := civil.ParseDateTime(iso)
	if err != nil {
		return civil.DateTime{}, errInvalidScalar(DataTypeDateTime, s, err)
	}
	return dt, nil
}

func parseTime(s string) (civil.Time, error) {
	t, err := civil.ParseTime(s)
	if err != nil {
		return civil.Time{}, errInvalidScalar(DataTypeTime, s, err)
	}
	return t, nil
}

// parseTimestamp parses a TIMESTAMP given as text or as seconds since the epoch. When
// int64Micros is set, an integer is taken as microseconds since the epoch, the rendering
// the service uses when asked for int64 timestamps.
func parseTimestamp(s string, int64Micros bool) (time.Time, error) {
	if isNumeric(s) {
		return parseEpochTimestamp(s, int64Micros)
	}
	text := strings.TrimSuffix(s, " UTC")
	for _, layout := range timestampParseLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errInvalidScalar(DataTypeTimestamp, s, nil)
}

func parseEpochTimestamp(s string, int64Micros bool) (time.Time, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return time.Time{}, errInvalidScalar(DataTypeTimestamp, s, err)
	}
	micros := new(apd.Decimal)
	if int64Micros {
		micros.Set(d)
	} else if _, err = decimalContext.Mul(micros, d, microsPerSecond); err != nil {
		return time.Time{}, errInvalidScalar(DataTypeTimestamp, s, err)
	}
	if _, err = decimalContext.RoundToIntegralValue(micros, micros); err != nil {
		return time.Time{}, errInvalidScalar(DataTypeTimestamp, s, err)
	}
	m, err := micros.Int64()
	if err != nil {
		return time.Time{}, errInvalidScalar(DataTypeTimestamp, s, err)
	}
	return time.UnixMicro(m).UTC(), nil
}

// isNumeric reports whether s looks like a plain or scientific number.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	digits := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '-' || c == '+':
			if i != 0 && s[i-1] != 'e' && s[i-1] != 'E' {
				return false
			}
		case c == '.' || c == 'e' || c == 'E':
		default:
			return false
		}
	}
	return digits > 0
}

// MillisToTime converts milliseconds since the epoch, the unit resource metadata uses for
// creation and modification times, to a UTC time.
func MillisToTime(millis int64) time.Time {
	return time.UnixMilli(millis).UTC()
}

// TimeToMillis converts t to milliseconds since the epoch.
func TimeToMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// ResolveLegacySQL decides whether a query runs as legacy SQL. An explicit standard flag wins
// over an explicit legacy flag; standard SQL is the default.
func ResolveLegacySQL(standard, legacy *bool) bool {
	if standard != nil {
		return !*standard
	}
	if legacy != nil {
		return *legacy
	}
	return false
}
