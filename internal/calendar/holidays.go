package calendar

import "time"

// LastNTradingDays returns the last n US equity trading days (most recent first),
// counting from (and including) from when it is itself a trading day.
// It excludes Saturdays, Sundays, and NYSE full-day holidays.
func LastNTradingDays(n int, from time.Time) []time.Time {
	out := make([]time.Time, 0, n)
	d := truncateToDate(from)

	for len(out) < n {
		if IsTradingDay(d) {
			out = append(out, d)
		}
		d = d.AddDate(0, 0, -1)
	}
	return out
}

// LastTradingDay returns from itself when it is a trading day, otherwise the
// closest trading day before it.
func LastTradingDay(from time.Time) time.Time {
	return LastNTradingDays(1, from)[0]
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsTradingDay returns true if date is a regular NYSE session.
func IsTradingDay(d time.Time) bool {
	// Weekend
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}

	_, ok := holidays(d.Year(), d.Location())[truncateToDate(d)]
	return !ok
}

// holidays returns the NYSE full-day closures for year, in loc.
func holidays(year int, loc *time.Location) map[time.Time]struct{} {
	date := func(m time.Month, day int) time.Time {
		return time.Date(year, m, day, 0, 0, 0, 0, loc)
	}

	out := map[time.Time]struct{}{
		nthWeekday(year, time.January, time.Monday, 3, loc):    {}, // Martin Luther King Jr. Day
		nthWeekday(year, time.February, time.Monday, 3, loc):   {}, // Washington's Birthday
		lastWeekday(year, time.May, time.Monday, loc):          {}, // Memorial Day
		observed(date(time.July, 4)):                           {}, // Independence Day
		nthWeekday(year, time.September, time.Monday, 1, loc):  {}, // Labor Day
		nthWeekday(year, time.November, time.Thursday, 4, loc): {}, // Thanksgiving
		observed(date(time.December, 25)):                      {}, // Christmas
	}

	// New Year's Day falling on a Saturday is not made up on the prior Friday.
	if ny := date(time.January, 1); ny.Weekday() != time.Saturday {
		out[observed(ny)] = struct{}{}
	}

	// Juneteenth since 2022
	if year >= 2022 {
		out[observed(date(time.June, 19))] = struct{}{}
	}

	// Good Friday (2 days before Easter)
	out[truncateToDate(easterSunday(year, loc).AddDate(0, 0, -2))] = struct{}{}

	return out
}

// observed moves a Saturday holiday to Friday and a Sunday holiday to Monday.
func observed(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, -1)
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	}
	return d
}

// nthWeekday returns the n-th (1-based) given weekday of month.
func nthWeekday(year int, month time.Month, wd time.Weekday, n int, loc *time.Location) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	offset := (int(wd) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, offset+7*(n-1))
}

// lastWeekday returns the last given weekday of month.
func lastWeekday(year int, month time.Month, wd time.Weekday, loc *time.Location) time.Time {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, loc)
	offset := (int(last.Weekday()) - int(wd) + 7) % 7
	return last.AddDate(0, 0, -offset)
}

// easterSunday returns the date of Easter Sunday for a given year
// (Meeus/Jones/Butcher algorithm).
func easterSunday(year int, loc *time.Location) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
}
