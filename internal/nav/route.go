package nav

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/lowaak/pulse/internal/session"
)

// RouteKind identifies a screen
type RouteKind string

const (
	RouteLogin    RouteKind = "login"
	RouteMain     RouteKind = "main"
	RouteTraining RouteKind = "training" // Workout detail
	RouteSession  RouteKind = "session"  // Running timer
	RouteMoves    RouteKind = "moves"
	RouteLive     RouteKind = "live"
	RouteCategory RouteKind = "category"
)

// Route is one entry of the navigation stack. Title, Minutes and Mode are
// set for training and session routes; Name for category routes.
type Route struct {
	Kind    RouteKind
	Title   string
	Minutes int
	Mode    session.Mode
	Name    string
}

func Login() Route { return Route{Kind: RouteLogin} }
func Main() Route  { return Route{Kind: RouteMain} }
func Moves() Route { return Route{Kind: RouteMoves} }
func Live() Route  { return Route{Kind: RouteLive} }

func Category(name string) Route {
	return Route{Kind: RouteCategory, Name: name}
}

func Training(title string, minutes int, mode session.Mode) Route {
	return Route{Kind: RouteTraining, Title: title, Minutes: session.ClampMinutes(minutes), Mode: mode}
}

func Session(title string, minutes int, mode session.Mode) Route {
	return Route{Kind: RouteSession, Title: title, Minutes: session.ClampMinutes(minutes), Mode: mode}
}

// String renders the route path, e.g. "session/5%20km%20City%20Loop/0/STOPWATCH"
func (r Route) String() string {
	switch r.Kind {
	case RouteTraining, RouteSession:
		return fmt.Sprintf("%s/%s/%d/%s", r.Kind, url.PathEscape(r.Title), r.Minutes, r.Mode)
	case RouteCategory:
		return fmt.Sprintf("%s/%s", r.Kind, url.PathEscape(r.Name))
	default:
		return string(r.Kind)
	}
}

// ParseRoute parses a route path. Missing or invalid minutes become zero and
// an unknown mode falls back to countdown; only an unknown kind is an error.
func ParseRoute(path string) (Route, error) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	kind := RouteKind(parts[0])
	arg := func(fallback string, idx int) string {
		if idx >= len(parts) {
			return fallback
		}
		s, err := url.PathUnescape(parts[idx])
		if err != nil {
			return parts[idx]
		}
		return s
	}

	switch kind {
	case RouteLogin, RouteMain, RouteMoves, RouteLive:
		return Route{Kind: kind}, nil
	case RouteCategory:
		return Category(arg("Category", 1)), nil
	case RouteTraining, RouteSession:
		title := arg("Workout", 1)
		minutes := session.ParseMinutes(arg("", 2))
		mode, _ := session.ParseMode(arg("", 3))
		return Route{Kind: kind, Title: title, Minutes: minutes, Mode: mode}, nil
	default:
		return Route{}, fmt.Errorf("unknown route %q", path)
	}
}
