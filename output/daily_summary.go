package output

import (
	"fmt"
	"math"
	"sort"
	"time"

	"voltrack/internal/cell"
	"voltrack/internal/timeutil"
	"voltrack/volunteer"
)

// DailySummary aggregates all volunteers' sessions of one date.
// Staffed hours count time at least one volunteer was present; unstaffed
// hours are the gaps between the first check-in and the last check-out.
type DailySummary struct {
	Date           string    `json:"date"`
	FirstCheckIn   time.Time `json:"firstCheckIn"`
	LastCheckOut   time.Time `json:"lastCheckOut"`
	Volunteers     int       `json:"volunteers"`
	Sessions       int       `json:"sessions"`
	WorkedHours    float64   `json:"workedHours"`
	BreakHours     float64   `json:"breakHours"`
	StaffedHours   float64   `json:"staffedHours"`
	UnstaffedHours float64   `json:"unstaffedHours"`
}

type interval struct {
	start time.Time
	end   time.Time
}

type session struct {
	volunteerID  string
	interval     interval
	worked       float64
	breakMinutes int
}

// BuildDailySummaries groups sessions by date, oldest first. Sessions whose
// date or times cannot be read are left out.
func BuildDailySummaries(volunteers []volunteer.Volunteer) []DailySummary {
	byDay := make(map[string][]session)
	for _, v := range volunteers {
		for _, entry := range v.Hours {
			s, ok := toSession(v.ID, entry)
			if !ok {
				continue
			}
			byDay[entry.Date] = append(byDay[entry.Date], s)
		}
	}
	if len(byDay) == 0 {
		return []DailySummary{}
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	summaries := make([]DailySummary, 0, len(days))
	for _, day := range days {
		summaries = append(summaries, summarizeDay(day, byDay[day]))
	}

	return summaries
}

func toSession(volunteerID string, entry volunteer.HoursEntry) (session, bool) {
	day, err := timeutil.ParseDate(entry.Date)
	if err != nil {
		return session{}, false
	}
	checkIn, ok := timeutil.ParseClock(cell.Text(entry.CheckIn))
	if !ok {
		return session{}, false
	}
	checkOut, ok := timeutil.ParseClock(cell.Text(entry.CheckOut))
	if !ok {
		return session{}, false
	}

	start := timeutil.At(day, checkIn)
	end := timeutil.At(day, checkOut)
	if end.Before(start) {
		end = end.Add(24 * time.Hour)
	}
	return session{
		volunteerID:  volunteerID,
		interval:     interval{start: start, end: end},
		worked:       entry.Hours(),
		breakMinutes: entry.BreakMinutes(),
	}, true
}

func summarizeDay(day string, sessions []session) DailySummary {
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].interval.start.Equal(sessions[j].interval.start) {
			return sessions[i].interval.end.Before(sessions[j].interval.end)
		}
		return sessions[i].interval.start.Before(sessions[j].interval.start)
	})

	start := sessions[0].interval.start
	end := start
	worked := 0.0
	breakMinutes := 0
	people := make(map[string]struct{}, len(sessions))
	intervals := make([]interval, 0, len(sessions))

	for _, s := range sessions {
		if s.interval.end.After(end) {
			end = s.interval.end
		}
		worked += s.worked
		breakMinutes += s.breakMinutes
		people[s.volunteerID] = struct{}{}
		intervals = append(intervals, s.interval)
	}

	covered := mergedCoverageWithinWindow(intervals, start, end)
	gaps := end.Sub(start) - covered
	if gaps < 0 {
		gaps = 0
	}

	return DailySummary{
		Date:           day,
		FirstCheckIn:   start,
		LastCheckOut:   end,
		Volunteers:     len(people),
		Sessions:       len(sessions),
		WorkedHours:    roundHours(worked),
		BreakHours:     roundHours(float64(breakMinutes) / 60.0),
		StaffedHours:   roundHours(covered.Hours()),
		UnstaffedHours: roundHours(gaps.Hours()),
	}
}

func mergedCoverageWithinWindow(intervals []interval, windowStart, windowEnd time.Time) time.Duration {
	if len(intervals) == 0 {
		return 0
	}
	if !windowEnd.After(windowStart) {
		return 0
	}

	clipped := make([]interval, 0, len(intervals))
	for _, candidate := range intervals {
		start := maxTime(candidate.start, windowStart)
		end := minTime(candidate.end, windowEnd)
		if end.After(start) {
			clipped = append(clipped, interval{start: start, end: end})
		}
	}
	if len(clipped) == 0 {
		return 0
	}

	sort.Slice(clipped, func(i, j int) bool {
		return clipped[i].start.Before(clipped[j].start)
	})

	currentStart := clipped[0].start
	currentEnd := clipped[0].end
	covered := time.Duration(0)

	for _, candidate := range clipped[1:] {
		if candidate.start.After(currentEnd) {
			covered += currentEnd.Sub(currentStart)
			currentStart = candidate.start
			currentEnd = candidate.end
			continue
		}

		if candidate.end.After(currentEnd) {
			currentEnd = candidate.end
		}
	}

	covered += currentEnd.Sub(currentStart)
	return covered
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func roundHours(value float64) float64 {
	return math.Round(value*100) / 100
}

var dailySummaryHeaders = []string{
	"Date", "First Check In", "Last Check Out", "Volunteers", "Sessions",
	"Worked Hours", "Break Hours", "Staffed Hours", "Unstaffed Hours",
}

func (s DailySummary) record() []string {
	return []string{
		s.Date,
		s.FirstCheckIn.Format("15:04"),
		s.LastCheckOut.Format("15:04"),
		fmt.Sprintf("%d", s.Volunteers),
		fmt.Sprintf("%d", s.Sessions),
		fmt.Sprintf("%.2f", s.WorkedHours),
		fmt.Sprintf("%.2f", s.BreakHours),
		fmt.Sprintf("%.2f", s.StaffedHours),
		fmt.Sprintf("%.2f", s.UnstaffedHours),
	}
}

func WriteDailySummaries(path, format string, summaries []DailySummary) error {
	switch normalizeFormat(format) {
	case "csv":
		return writeDailySummariesCSV(path, summaries)
	case "excel", "xlsx":
		return writeDailySummariesExcel(path, summaries)
	default:
		return fmt.Errorf("unsupported output format for daily summaries: %s", format)
	}
}
