package store

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Timestamp is a time stored as unix milliseconds, which both supported
// databases compare and order natively.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{time.UnixMilli(t.UnixMilli()).UTC()}
}

func (ts *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case int64:
		ts.Time = time.UnixMilli(v).UTC()
	case int32:
		ts.Time = time.UnixMilli(int64(v)).UTC()
	case float64:
		ts.Time = time.UnixMilli(int64(v)).UTC()
	default:
		return fmt.Errorf("cannot scan %T into Timestamp", src)
	}
	return nil
}

func (ts Timestamp) Value() (driver.Value, error) {
	return ts.UnixMilli(), nil
}
