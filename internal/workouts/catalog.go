// Package workouts serves the workout-browsing and goal-tracking screens:
// a curated catalog with search and category filtering, and the member's
// active and completed goals.
package workouts

import "strings"

// Entry is one browsable workout.
type Entry struct {
	Title    string `json:"title"`
	Duration string `json:"duration"`
	Level    string `json:"level"`
	Category string `json:"category"`
	ImageURL string `json:"image_url"`
}

// Goal is one tracked fitness goal with progress 0-100.
type Goal struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Progress    int    `json:"progress"`
	Category    string `json:"category"`
}

var popular = []Entry{
	{Title: "Upper Body Strength", Duration: "45 min", Level: "Intermediate", Category: "Strength",
		ImageURL: "https://images.unsplash.com/photo-1581009146145-b5ef050c2e1e"},
	{Title: "HIIT Cardio", Duration: "30 min", Level: "Advanced", Category: "Cardio",
		ImageURL: "https://images.unsplash.com/photo-1599058917212-d750089bc07e"},
	{Title: "Yoga Flow", Duration: "60 min", Level: "Beginner", Category: "Yoga",
		ImageURL: "https://images.unsplash.com/photo-1575052814086-f385e2e2ad1b"},
	{Title: "Core Strength", Duration: "20 min", Level: "Intermediate", Category: "Strength",
		ImageURL: "https://images.unsplash.com/photo-1571019613454-1cb2f99b2d8b"},
}

var recent = []Entry{
	{Title: "Morning Stretch", Duration: "15 min", Level: "Beginner", Category: "Yoga",
		ImageURL: "https://images.unsplash.com/photo-1552196563-55cd4e45efb3"},
	{Title: "Leg Day", Duration: "40 min", Level: "Advanced", Category: "Strength",
		ImageURL: "https://images.unsplash.com/photo-1574680096145-d05b474e2155"},
}

var activeGoals = []Goal{
	{Title: "Run 5K", Description: "Improve endurance and prepare for charity run", Progress: 65, Category: "Cardio"},
	{Title: "Bench Press 200lbs", Description: "Increase upper body strength", Progress: 40, Category: "Strength"},
	{Title: "Lose 10lbs", Description: "Reduce body fat percentage", Progress: 80, Category: "Weight Loss"},
}

var completedGoals = []Goal{
	{Title: "30-Day Yoga Challenge", Description: "Complete daily yoga sessions for a month", Progress: 100, Category: "Yoga"},
	{Title: "Run 10,000 Steps Daily", Description: "Build the habit of getting 10k steps per day", Progress: 100, Category: "Cardio"},
}

// Popular returns the popular workouts matching the query and category.
// Empty query or category means no filtering on that axis.
func Popular(query, category string) []Entry {
	return filter(popular, query, category)
}

// Recent returns the recently-added workouts matching the filters.
func Recent(query, category string) []Entry {
	return filter(recent, query, category)
}

// ActiveGoals returns the in-progress goals matching the query.
func ActiveGoals(query string) []Goal {
	return filterGoals(activeGoals, query)
}

// CompletedGoals returns the finished goals matching the query.
func CompletedGoals(query string) []Goal {
	return filterGoals(completedGoals, query)
}

func filter(entries []Entry, query, category string) []Entry {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if category != "" && !strings.EqualFold(e.Category, category) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(e.Title), query) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func filterGoals(goals []Goal, query string) []Goal {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]Goal, 0, len(goals))
	for _, g := range goals {
		if query != "" &&
			!strings.Contains(strings.ToLower(g.Title), query) &&
			!strings.Contains(strings.ToLower(g.Description), query) {
			continue
		}
		out = append(out, g)
	}
	return out
}
