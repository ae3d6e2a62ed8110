// Package calendar serializes resolved event occurrences into iCalendar
// documents. Rendering is deterministic: the same event and occurrences
// always produce the same identifiers and bytes.
package calendar

import (
	"fmt"
	"time"

	"github.com/eslteacher902010/new-england-catholic-group-finder/internal/errdef"
	"github.com/eslteacher902010/new-england-catholic-group-finder/pkg/model"

	ics "github.com/arran4/golang-ical"
	"github.com/gosimple/slug"
)

const (
	// no explicit end time is modeled, every occurrence lasts two hours
	occurrenceDuration = 2 * time.Hour

	productID = "-//New England Catholic Groups//Event Calendar//EN"
	uidHost   = "catholicgroups.org"

	// floating local wall-clock time, no zone designator
	timestampLayout = "20060102T150405"
)

// ContentType is the media type calendar documents are served with.
const ContentType = "text/calendar"

// Render produces an iCalendar document with one VEVENT per occurrence.
// Occurrence UIDs are derived from the event identity (and, for recurring
// events, the occurrence index) so re-rendering yields identical identifiers.
func Render(event *model.Event, occurrences []time.Time) ([]byte, error) {
	if len(occurrences) == 0 {
		return nil, errdef.NewConflict("event %d has no occurrences to render", event.ID)
	}

	cal := ics.NewCalendar()
	cal.SetProductId(productID)

	for i, start := range occurrences {
		uid := fmt.Sprintf("%d@%s", event.ID, uidHost)
		if event.IsRecurring {
			uid = fmt.Sprintf("%d-%d@%s", event.ID, i, uidHost)
		}

		end := start.Add(occurrenceDuration)

		ve := cal.AddEvent(uid)
		ve.SetProperty(ics.ComponentPropertyDtstamp, start.Format(timestampLayout))
		ve.SetProperty(ics.ComponentPropertyDtStart, start.Format(timestampLayout))
		ve.SetProperty(ics.ComponentPropertyDtEnd, end.Format(timestampLayout))
		// text values are passed raw, the library escapes them on serialization
		ve.SetProperty(ics.ComponentPropertySummary, event.Title)
		ve.SetProperty(ics.ComponentPropertyDescription, event.Description)
		ve.SetProperty(ics.ComponentPropertyLocation, event.Address)
	}

	return []byte(cal.Serialize()), nil
}

// Filename derives the attachment filename from the event title.
func Filename(title string) string {
	return slug.Make(title) + ".ics"
}
