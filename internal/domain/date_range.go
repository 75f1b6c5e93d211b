package domain

import "time"

const (
	MaxStayNights = 30
	leadDays      = 1
)

// DateRange is a stay from the check-in date up to, not including, the check-out date.
// Both ends are calendar dates held at UTC midnight.
type DateRange struct {
	checkIn  time.Time
	checkOut time.Time
}

// NewDateRange validates a range for a new booking made at now.
func NewDateRange(checkIn, checkOut, now time.Time) (DateRange, error) {
	dr, err := RestoreDateRange(checkIn, checkOut)
	if err != nil {
		return DateRange{}, err
	}
	tomorrow := DateOf(now).AddDate(0, 0, leadDays)
	if dr.checkIn.Before(tomorrow) {
		return DateRange{}, ErrLeadTime
	}
	if dr.Nights() > MaxStayNights {
		return DateRange{}, ErrMaxStay
	}
	return dr, nil
}

// RestoreDateRange rebuilds a stored range. The lead time is not re-checked because
// stored stays may already have started.
func RestoreDateRange(checkIn, checkOut time.Time) (DateRange, error) {
	in, out := DateOf(checkIn), DateOf(checkOut)
	if !in.Before(out) {
		return DateRange{}, ErrCheckInAfterCheckOut
	}
	return DateRange{checkIn: in, checkOut: out}, nil
}

func (d DateRange) CheckIn() time.Time  { return d.checkIn }
func (d DateRange) CheckOut() time.Time { return d.checkOut }
func (d DateRange) IsZero() bool        { return d.checkIn.IsZero() }

func (d DateRange) Nights() int {
	return int(d.checkOut.Sub(d.checkIn).Hours() / 24)
}

// OverlapsWith uses half-open intervals: a stay ending on the day another begins does not overlap.
func (d DateRange) OverlapsWith(other DateRange) bool {
	return d.checkIn.Before(other.checkOut) && d.checkOut.After(other.checkIn)
}

// DateOf drops the clock part of t, keeping the calendar date as seen in t's location.
func DateOf(t time.Time) time.Time {
	y, m, day := t.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}
