package stats

import (
	"fmt"
	"time"
)

// Date is a calendar day encoded as the integer YYYYMMDD, the form the
// store persists. Day arithmetic always goes through time.Date so that
// month and year boundaries are honored.
type Date int

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date(y*10000 + int(m)*100 + d)
}

func (d Date) Time() time.Time {
	return time.Date(int(d)/10000, time.Month(int(d)/100%100), int(d)%100, 0, 0, 0, 0, time.UTC)
}

// DaysSince returns the number of calendar days from prev to d.
func (d Date) DaysSince(prev Date) int {
	return int(d.Time().Sub(prev.Time()).Hours() / 24)
}

func (d Date) Valid() bool {
	return d > 0 && DateOf(d.Time()) == d
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", int(d)/10000, int(d)/100%100, int(d)%100)
}
