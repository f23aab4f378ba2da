package jws

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"time"
)

// maxMillis bounds timestamps to the range of four-digit years.
const maxMillis = 253402300799999

var (
	minDate = time.UnixMilli(-maxMillis)
	maxDate = time.UnixMilli(maxMillis)
)

// inDateRange reports whether t survives a NumericDate round trip.
func inDateRange(t time.Time) bool {
	return !t.Before(minDate) && !t.After(maxDate)
}

// NumericDate is a point in time carried on the wire as whole milliseconds
// since the Unix epoch.
type NumericDate struct {
	time.Time
}

// NewNumericDate truncates t to millisecond precision.
func NewNumericDate(t time.Time) NumericDate {
	return NumericDate{Time: time.UnixMilli(t.UnixMilli()).UTC()}
}

// Millis returns the wire value of date.
func (date NumericDate) Millis() int64 {
	return date.UnixMilli()
}

// MarshalJSON implements json.Marshaler interface
func (date NumericDate) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, date.UnixMilli(), 10), nil
}

// UnmarshalJSON accepts integer and fractional JSON numbers. Fractions are
// truncated toward zero. Quoted values are rejected.
func (date *NumericDate) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] == '"' || string(b) == "null" {
		return fmt.Errorf("invalid numeric date: %s", b)
	}

	s := string(b)
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > maxMillis {
			return fmt.Errorf("invalid numeric date: %s", s)
		}
		ms = int64(f)
	}

	if ms > maxMillis || ms < -maxMillis {
		return fmt.Errorf("numeric date out of range: %d", ms)
	}

	date.Time = time.UnixMilli(ms).UTC()
	return nil
}
