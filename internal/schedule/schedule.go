// Package schedule computes the weekly schedule view: seven days anchored
// to the Sunday of the week containing a given date, each carrying its
// workout entries, plus a flattened "upcoming" list capped at five.
package schedule

import (
	"sort"
	"time"
)

// Workout is one scheduled session on a day.
type Workout struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Time     string `json:"time"`
	Duration string `json:"duration"`
	Type     string `json:"type"`
}

// Day is one day of the week view.
type Day struct {
	Date     time.Time `json:"date"`
	Workouts []Workout `json:"workouts"`
}

// UpcomingEntry is a workout paired with the day it falls on.
type UpcomingEntry struct {
	Workout
	Date time.Time `json:"date"`
}

// weekPlan maps weekday offsets (0 = Sunday) to the planned sessions.
var weekPlan = map[int][]Workout{
	0: {
		{ID: 1, Title: "Morning Yoga", Time: "07:00 AM", Duration: "30 min", Type: "Yoga"},
		{ID: 2, Title: "Evening Run", Time: "06:30 PM", Duration: "45 min", Type: "Cardio"},
	},
	2: {
		{ID: 3, Title: "HIIT Workout", Time: "06:00 AM", Duration: "25 min", Type: "HIIT"},
		{ID: 4, Title: "Weight Training", Time: "05:30 PM", Duration: "60 min", Type: "Strength"},
	},
	3: {
		{ID: 5, Title: "Rest Day", Time: "All day", Duration: "0 min", Type: "Rest"},
	},
	4: {
		{ID: 6, Title: "Upper Body", Time: "07:30 AM", Duration: "45 min", Type: "Strength"},
	},
	5: {
		{ID: 7, Title: "Long Run", Time: "08:00 AM", Duration: "90 min", Type: "Cardio"},
	},
	6: {
		{ID: 8, Title: "Recovery Yoga", Time: "09:00 AM", Duration: "60 min", Type: "Yoga"},
	},
}

// StartOfWeek returns the Sunday of the week containing date, at
// midnight in the date's location.
func StartOfWeek(date time.Time) time.Time {
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return midnight.AddDate(0, 0, -int(midnight.Weekday()))
}

// Week builds the seven-day view for the week containing date.
func Week(date time.Time) []Day {
	start := StartOfWeek(date)
	days := make([]Day, 0, 7)
	for offset := 0; offset < 7; offset++ {
		days = append(days, Day{
			Date:     start.AddDate(0, 0, offset),
			Workouts: append([]Workout(nil), weekPlan[offset]...),
		})
	}
	return days
}

// Upcoming flattens the week into a date-ordered list of at most five
// workouts on or after the given date.
func Upcoming(date time.Time) []UpcomingEntry {
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	var entries []UpcomingEntry
	for _, day := range Week(date) {
		if day.Date.Before(midnight) {
			continue
		}
		for _, w := range day.Workouts {
			entries = append(entries, UpcomingEntry{Workout: w, Date: day.Date})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})

	if len(entries) > 5 {
		entries = entries[:5]
	}
	return entries
}
