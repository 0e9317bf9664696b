package domain

import "time"

// ClosureAgeDays is how many calendar days an auction stays open.
const ClosureAgeDays = 7

// DayOfWeek numbers the week starting on Sunday: Sunday=1 ... Saturday=7.
type DayOfWeek int

const (
	Sunday DayOfWeek = iota + 1
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

func DayOfWeekOf(t time.Time) DayOfWeek {
	return DayOfWeek(t.Weekday()) + Sunday
}

func (d DayOfWeek) String() string {
	if d < Sunday || d > Saturday {
		return "unknown"
	}
	return time.Weekday(d - Sunday).String()
}

// rollover holds the days a due date is pushed forward, by day of week.
// Days not listed are business days.
var rollover = map[DayOfWeek]int{
	Saturday: 2,
	Sunday:   1,
}

// NextBusinessDay returns t unchanged on a weekday and the following Monday
// on a weekend. The time of day is kept.
func NextBusinessDay(t time.Time) time.Time {
	if days, ok := rollover[DayOfWeekOf(t)]; ok {
		return t.AddDate(0, 0, days)
	}
	return t
}

// DaysBetween counts calendar days from from to to, using to's location.
func DaysBetween(from, to time.Time) int {
	from = from.In(to.Location())
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	start := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	end := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}
