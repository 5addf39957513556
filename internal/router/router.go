// Package router maps location fragments to views and enforces the
// route guards. It is a pure state machine: parsing and guard
// resolution have no side effects, so the controller owns subscription
// teardown and view loading around each navigation.
package router

import (
	"fmt"
	"strconv"
	"strings"
)

// RouteKind identifies which screen a location resolves to.
type RouteKind int

const (
	RouteWelcome RouteKind = iota
	RouteLogin
	RouteRegister
	RouteDashboard
	RouteTaskDetail
)

// String returns the route kind's name for logs and test output.
func (k RouteKind) String() string {
	switch k {
	case RouteWelcome:
		return "welcome"
	case RouteLogin:
		return "login"
	case RouteRegister:
		return "register"
	case RouteDashboard:
		return "dashboard"
	case RouteTaskDetail:
		return "task-detail"
	default:
		return "unknown"
	}
}

// Location fragments understood by Parse. Task detail locations are
// built with TaskLocation.
const (
	LocationWelcome   = ""
	LocationLogin     = "#login"
	LocationRegister  = "#register"
	LocationDashboard = "#dashboard"
)

const taskPrefix = "#task-"

// TaskLocation returns the location fragment for a task detail view.
func TaskLocation(id int64) string {
	return fmt.Sprintf("%s%d", taskPrefix, id)
}

// Route is a parsed location fragment.
type Route struct {
	Kind RouteKind

	// TaskID is set only when Kind is RouteTaskDetail.
	TaskID int64
}

// Parse maps a location fragment to a route. Anything unrecognized,
// including a task fragment with a malformed id, falls back to the
// welcome route.
func Parse(location string) Route {
	if strings.HasPrefix(location, taskPrefix) {
		id, err := strconv.ParseInt(location[len(taskPrefix):], 10, 64)
		if err != nil || id <= 0 {
			return Route{Kind: RouteWelcome}
		}
		return Route{Kind: RouteTaskDetail, TaskID: id}
	}

	switch location {
	case LocationLogin:
		return Route{Kind: RouteLogin}
	case LocationRegister:
		return Route{Kind: RouteRegister}
	case LocationDashboard:
		return Route{Kind: RouteDashboard}
	default:
		return Route{Kind: RouteWelcome}
	}
}

// Protected reports whether the route requires a signed-in session.
func (r Route) Protected() bool {
	return r.Kind == RouteDashboard || r.Kind == RouteTaskDetail
}

// AuthRoute reports whether the route is part of the sign-in flow.
func (r Route) AuthRoute() bool {
	return r.Kind == RouteLogin || r.Kind == RouteRegister
}

// Decision is the outcome of resolving a route against the session.
// Exactly one of the two fields is meaningful: a non-empty Redirect
// means navigation must restart at that location; otherwise Route is
// the view to dispatch.
type Decision struct {
	Route    Route
	Redirect string
}

// Resolve applies the route guards in order: an anonymous user cannot
// enter a protected route, and a signed-in user is bounced from the
// auth routes and the default route to the dashboard.
func Resolve(r Route, signedIn bool) Decision {
	if !signedIn && r.Protected() {
		return Decision{Redirect: LocationLogin}
	}
	if signedIn && (r.AuthRoute() || r.Kind == RouteWelcome) {
		return Decision{Redirect: LocationDashboard}
	}
	return Decision{Route: r}
}
