package daterange

import "time"

// Window is a closed reporting interval [Start, End].
type Window struct {
	Start Date
	End   Date
}

func MonthWindow(year int, month time.Month) Window {
	return Window{
		Start: Date{Year: year, Month: month, Day: 1},
		End:   Date{Year: year, Month: month, Day: DaysInMonth(year, month)},
	}
}

func YearWindow(year int) Window {
	return Window{
		Start: Date{Year: year, Month: time.January, Day: 1},
		End:   Date{Year: year, Month: time.December, Day: 31},
	}
}

func (w Window) Days() int {
	if w.End.Before(w.Start) {
		return 0
	}
	return DaysBetween(w.Start, w.End) + 1
}

// Next is the first date after the window.
func (w Window) Next() Date {
	return w.End.AddDays(1)
}

func (w Window) Contains(d Date) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// Intersects reports whether any night of r falls inside the window.
func (w Window) Intersects(r DateRange) bool {
	return r.CheckIn.Before(w.Next()) && r.CheckOut.After(w.Start)
}

// Clip keeps the nights of r that fall inside the window.
func (w Window) Clip(nights []Date) []Date {
	out := make([]Date, 0, len(nights))
	for _, n := range nights {
		if w.Contains(n) {
			out = append(out, n)
		}
	}
	return out
}
