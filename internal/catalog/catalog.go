package catalog

import (
	"fmt"
	"strings"

	"github.com/lowaak/pulse/internal/session"
)

// WorkoutMeta describes a workout that can be opened in the detail screen
type WorkoutMeta struct {
	Title   string
	Level   string // K1..K3, or "Route" for free runs
	Minutes int
	Mode    session.Mode
}

// Minutes used when a workout is opened from each list
const (
	CourseMinutes   = 10
	PlanMinutes     = 14
	MoveMinutes     = 8
	LiveMinutes     = 20
	CategoryMinutes = 10
)

// MaxSearchResults caps the rows shown under the search box
const MaxSearchResults = 6

func countdown(title, level string, minutes int) WorkoutMeta {
	return WorkoutMeta{Title: title, Level: level, Minutes: minutes, Mode: session.ModeCountdown}
}

func stopwatch(title string) WorkoutMeta {
	return WorkoutMeta{Title: title, Level: "Route", Minutes: 0, Mode: session.ModeStopwatch}
}

// Recommended is the "Recommended for You" card list
var Recommended = []WorkoutMeta{
	countdown("Abs Beginner", "K1", 9),
	countdown("Standing HIIT Fat Burn", "K3", 13),
	countdown("Full Body Stretch", "K1", 10),
}

// SearchPool is everything the home search box can find
var SearchPool = []WorkoutMeta{
	countdown("Abs Beginner", "K1", 9),
	countdown("Standing HIIT Fat Burn", "K3", 13),
	countdown("Full Body Stretch", "K1", 10),
	countdown("Beginner Fat Burn", "K1", 10),
	countdown("Core Strength", "K2", 12),
	countdown("HIIT Quick Session", "K3", 13),
	countdown("Stretch & Relax", "K1", 10),
	countdown("7-Day Beginner Plan", "K1", 14),
	countdown("14-Day Fat Burn Plan", "K2", 16),
	countdown("30-Day Strength Plan", "K3", 18),
	stopwatch("Running"),
	stopwatch("2 km Easy Route"),
	stopwatch("5 km City Loop"),
	stopwatch("10 km Long Run"),
	countdown("Yoga Beginner", "K1", 10),
	countdown("Yoga Stretch", "K1", 12),
	countdown("Yoga Balance", "K2", 15),
	countdown("10-min Walk", "K1", 10),
	countdown("20-min Brisk Walk", "K2", 20),
	countdown("Outdoor Walk Plan", "K2", 15),
}

var (
	Courses = []string{"Beginner Fat Burn", "Core Strength", "HIIT Quick Session", "Stretch & Relax"}
	Plans   = []string{"7-Day Beginner Plan", "14-Day Fat Burn Plan", "30-Day Strength Plan"}
	Routes  = []string{"2 km Easy Route", "5 km City Loop", "10 km Long Run"}
	Moves   = []string{"Push-up Basics", "Squat Form", "Plank Core", "Burpee Intro"}
	Live    = []string{"Live Cardio Class", "Live Yoga Flow", "Live HIIT Session"}
)

// CourseWorkout is what a row in the Courses tab opens
func CourseWorkout(title string) WorkoutMeta {
	return countdown(title, "K1", CourseMinutes)
}

// PlanWorkout is what a row in the Plans tab opens
func PlanWorkout(title string) WorkoutMeta {
	return countdown(title, "K2", PlanMinutes)
}

// RouteWorkout is what a row in the Routes tab opens
func RouteWorkout(title string) WorkoutMeta {
	return stopwatch(title)
}

// CategoryItems lists the sessions of a quick-access category
func CategoryItems(name string) []string {
	switch strings.ToLower(name) {
	case "yoga":
		return []string{"Yoga Beginner", "Yoga Stretch", "Yoga Balance"}
	case "walking":
		return []string{"10-min Walk", "20-min Brisk Walk", "Outdoor Walk Plan"}
	default:
		return []string{name + " Session A", name + " Session B", name + " Session C"}
	}
}

// Search returns up to MaxSearchResults workouts whose title contains query,
// ignoring case, first occurrence of each title only. A blank query finds nothing.
func Search(pool []WorkoutMeta, query string) []WorkoutMeta {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	seen := make(map[string]bool)
	results := make([]WorkoutMeta, 0, MaxSearchResults)
	for _, w := range pool {
		if seen[w.Title] {
			continue
		}
		seen[w.Title] = true
		if !strings.Contains(strings.ToLower(w.Title), q) {
			continue
		}
		results = append(results, w)
		if len(results) == MaxSearchResults {
			break
		}
	}
	return results
}

// SearchSubtitle is the secondary text of a search result row
func SearchSubtitle(w WorkoutMeta) string {
	if w.Mode == session.ModeStopwatch {
		return "Stopwatch"
	}
	return fmt.Sprintf("%d min · %s", w.Minutes, w.Level)
}

// CardSubtitle is the secondary text of a recommendation card
func CardSubtitle(w WorkoutMeta) string {
	return fmt.Sprintf("%s · %d min", w.Level, w.Minutes)
}

// DurationText describes the duration line of the workout detail screen
func DurationText(w WorkoutMeta) string {
	if w.Mode == session.ModeStopwatch {
		return "Free timing (stopwatch)"
	}
	return fmt.Sprintf("%d minutes", w.Minutes)
}

// HasCoverImage reports whether a workout has artwork on its card and
// detail screen. Only the recommended three do.
func HasCoverImage(title string) bool {
	for _, w := range Recommended {
		if w.Title == title {
			return true
		}
	}
	return false
}
