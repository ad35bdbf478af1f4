package sqlite

import (
	"fmt"
	"time"
)

// layouts the driver may hand back for DATETIME columns; the first matches
// the _time_format=sqlite write format
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05",
}

// timestamp scans a DATETIME column into a UTC time.Time. RETURNING clauses
// do not always carry the declared column type, so the raw text form has to
// be accepted as well.
type timestamp struct {
	dst *time.Time
}

func (ts timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*ts.dst = v.UTC()
		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
}

func (ts timestamp) parse(s string) error {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*ts.dst = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("parse timestamp %q", s)
}
