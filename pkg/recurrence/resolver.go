// Package recurrence resolves monthly ordinal-weekday rules ("third Tuesday
// at 7:00 PM") into concrete occurrence times. Resolution is pure: the same
// rule, start date and horizon always produce the same sequence.
package recurrence

import (
	"time"

	"github.com/eslteacher902010/new-england-catholic-group-finder/internal/errdef"
)

// Week selects which matching weekday within a month.
type Week string

const (
	WeekFirst  Week = "first"
	WeekSecond Week = "second"
	WeekThird  Week = "third"
	WeekFourth Week = "fourth"
	WeekLast   Week = "last"
)

// index returns the zero-based position within the month's matching weekdays,
// or -1 for "last".
func (w Week) index() (int, bool) {
	switch w {
	case WeekFirst:
		return 0, true
	case WeekSecond:
		return 1, true
	case WeekThird:
		return 2, true
	case WeekFourth:
		return 3, true
	case WeekLast:
		return -1, true
	}
	return 0, false
}

// ClockLayout is the stored time-of-day format, e.g. "7:00 PM".
const ClockLayout = "3:04 PM"

// Rule is a monthly recurrence: a weekday, the week within the month and the
// local wall-clock time of day.
type Rule struct {
	Weekday time.Weekday
	Week    Week
	Hour    int
	Minute  int
}

var weekdaysByName = map[string]time.Weekday{
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
	"Sunday":    time.Sunday,
}

// ParseRule builds a Rule from the textual fields stored on an event, e.g.
// ("Tuesday", "third", "7:00 PM").
func ParseRule(day string, week string, clock string) (Rule, error) {
	weekday, ok := weekdaysByName[day]
	if !ok {
		return Rule{}, errdef.NewBadRequest("unknown weekday %q", day)
	}

	w := Week(week)
	if _, ok := w.index(); !ok {
		return Rule{}, errdef.NewBadRequest("unknown week ordinal %q", week)
	}

	t, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return Rule{}, errdef.NewBadRequest("invalid time of day %q: %v", clock, err)
	}

	return Rule{Weekday: weekday, Week: w, Hour: t.Hour(), Minute: t.Minute()}, nil
}

// Resolve returns the occurrences of rule for each of the horizonMonths
// calendar months starting at from's month, in ascending order. A month with
// too few matching weekdays contributes no occurrence; the sequence is simply
// shorter. The result length is always <= horizonMonths.
func Resolve(rule Rule, from time.Time, horizonMonths int) []time.Time {
	occurrences := make([]time.Time, 0, horizonMonths)

	index, ok := rule.Week.index()
	if !ok {
		return occurrences
	}

	monthStart := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, from.Location())
	for offset := 0; offset < horizonMonths; offset++ {
		month := monthStart.AddDate(0, offset, 0)

		days := matchingDays(month, rule.Weekday)
		var day int
		if index == -1 {
			day = days[len(days)-1]
		} else if index < len(days) {
			day = days[index]
		} else {
			// e.g. no fifth Monday this month
			continue
		}

		occurrences = append(occurrences, time.Date(
			month.Year(), month.Month(), day,
			rule.Hour, rule.Minute, 0, 0, month.Location(),
		))
	}

	return occurrences
}

// matchingDays lists every day-of-month in the month containing monthStart
// that falls on the given weekday, ascending. Every month has at least four.
func matchingDays(monthStart time.Time, weekday time.Weekday) []int {
	first := 1 + (int(weekday)-int(monthStart.Weekday())+7)%7
	lastDay := monthStart.AddDate(0, 1, -1).Day()

	days := make([]int, 0, 5)
	for day := first; day <= lastDay; day += 7 {
		days = append(days, day)
	}
	return days
}
