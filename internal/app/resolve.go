package app

import (
	"sort"
	"time"
)

// DefaultRangeDays is the window used when a slot listing gives no explicit
// range: today through today+29.
const DefaultRangeDays = 30

// ResolveWindows expands a trainer's weekly rules over the inclusive date
// range [from, to], skipping any day covered by a holiday. Windows come back
// sorted by date then start time. Overlapping rules are kept as-is; merging
// is the trainer's authoring responsibility.
//
// The result is recomputed from scratch on every call so newly written rules,
// holidays, and bookings are reflected on the next read.
func ResolveWindows(rules []AvailabilityRule, holidays []Holiday, from, to time.Time) ([]Window, error) {
	byWeekday := make(map[int][]AvailabilityRule, len(rules))
	for _, r := range rules {
		byWeekday[r.Weekday] = append(byWeekday[r.Weekday], r)
	}

	var out []Window
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		day := ToISODate(d)
		if holidayCovers(holidays, day) {
			continue
		}
		for _, r := range byWeekday[int(d.Weekday())] {
			w, err := newWindow(day, r.StartTime, r.EndTime, r.IsOnline, SourceDerived)
			if err != nil {
				return nil, err
			}
			out = append(out, w)
		}
	}
	sortWindows(out)
	return out, nil
}

// WindowsFromSlots converts explicit slot rows into candidate windows,
// skipping rows already booked and any day covered by a holiday.
func WindowsFromSlots(slots []OpenSlot, holidays []Holiday) ([]Window, error) {
	var out []Window
	for _, s := range slots {
		if s.Booked || holidayCovers(holidays, s.Date) {
			continue
		}
		w, err := newWindow(s.Date, s.StartTime, s.EndTime, s.IsOnline, SourceExplicit)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	sortWindows(out)
	return out, nil
}

func newWindow(date, start, end string, online bool, src SlotSource) (Window, error) {
	startMin, err := ParseHHMM(start)
	if err != nil {
		return Window{}, err
	}
	endMin, err := ParseHHMM(end)
	if err != nil {
		return Window{}, err
	}
	return Window{
		Date:      date,
		StartTime: FormatHHMM(startMin),
		EndTime:   FormatHHMM(endMin),
		IsOnline:  online,
		Source:    src,
		startMin:  startMin,
		endMin:    endMin,
	}, nil
}

func holidayCovers(holidays []Holiday, day string) bool {
	for _, h := range holidays {
		if WithinDay(day, h.StartsOn, h.EndsOn) {
			return true
		}
	}
	return false
}

func sortWindows(ws []Window) {
	sort.SliceStable(ws, func(i, j int) bool {
		if ws[i].Date != ws[j].Date {
			return ws[i].Date < ws[j].Date
		}
		return ws[i].startMin < ws[j].startMin
	})
}
