package router

import "testing"

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		location string
		kind     RouteKind
		taskID   int64
	}{
		{"", RouteWelcome, 0},
		{"#login", RouteLogin, 0},
		{"#register", RouteRegister, 0},
		{"#dashboard", RouteDashboard, 0},
		{"#task-7", RouteTaskDetail, 7},
		{"#task-123456", RouteTaskDetail, 123456},

		// Malformed fragments fall back to welcome.
		{"#task-", RouteWelcome, 0},
		{"#task-abc", RouteWelcome, 0},
		{"#task-0", RouteWelcome, 0},
		{"#task--3", RouteWelcome, 0},
		{"#settings", RouteWelcome, 0},
		{"dashboard", RouteWelcome, 0},
	}

	for _, tc := range tests {
		r := Parse(tc.location)
		if r.Kind != tc.kind {
			t.Errorf("Parse(%q).Kind = %v, want %v", tc.location, r.Kind, tc.kind)
		}
		if r.TaskID != tc.taskID {
			t.Errorf("Parse(%q).TaskID = %d, want %d", tc.location, r.TaskID, tc.taskID)
		}
	}
}

func TestTaskLocationRoundTrip(t *testing.T) {
	t.Parallel()

	loc := TaskLocation(42)
	if loc != "#task-42" {
		t.Fatalf("TaskLocation(42) = %q, want %q", loc, "#task-42")
	}
	r := Parse(loc)
	if r.Kind != RouteTaskDetail || r.TaskID != 42 {
		t.Fatalf("Parse(%q) = %+v, want task detail 42", loc, r)
	}
}

func TestResolveAnonymous(t *testing.T) {
	t.Parallel()

	tests := []struct {
		location string
		redirect string
		kind     RouteKind
	}{
		// Protected routes bounce to login.
		{"#dashboard", LocationLogin, 0},
		{"#task-5", LocationLogin, 0},

		// Public routes dispatch as-is.
		{"", "", RouteWelcome},
		{"#login", "", RouteLogin},
		{"#register", "", RouteRegister},
	}

	for _, tc := range tests {
		d := Resolve(Parse(tc.location), false)
		if d.Redirect != tc.redirect {
			t.Errorf("Resolve(%q, anonymous).Redirect = %q, want %q",
				tc.location, d.Redirect, tc.redirect)
			continue
		}
		if tc.redirect == "" && d.Route.Kind != tc.kind {
			t.Errorf("Resolve(%q, anonymous).Route.Kind = %v, want %v",
				tc.location, d.Route.Kind, tc.kind)
		}
	}
}

func TestResolveSignedIn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		location string
		redirect string
		kind     RouteKind
	}{
		// Auth routes and the default route bounce to the dashboard.
		{"", LocationDashboard, 0},
		{"#login", LocationDashboard, 0},
		{"#register", LocationDashboard, 0},
		{"#nonsense", LocationDashboard, 0},

		{"#dashboard", "", RouteDashboard},
		{"#task-9", "", RouteTaskDetail},
	}

	for _, tc := range tests {
		d := Resolve(Parse(tc.location), true)
		if d.Redirect != tc.redirect {
			t.Errorf("Resolve(%q, signed in).Redirect = %q, want %q",
				tc.location, d.Redirect, tc.redirect)
			continue
		}
		if tc.redirect == "" && d.Route.Kind != tc.kind {
			t.Errorf("Resolve(%q, signed in).Route.Kind = %v, want %v",
				tc.location, d.Route.Kind, tc.kind)
		}
	}
}

// Redirects always terminate: each target resolves without a further
// redirect for the session state that produced it.
func TestResolveRedirectsTerminate(t *testing.T) {
	t.Parallel()

	for _, signedIn := range []bool{false, true} {
		for _, location := range []string{
			"", "#login", "#register", "#dashboard", "#task-3", "#junk",
		} {
			d := Resolve(Parse(location), signedIn)
			if d.Redirect == "" {
				continue
			}
			second := Resolve(Parse(d.Redirect), signedIn)
			if second.Redirect != "" {
				t.Errorf("Resolve(%q, signedIn=%v) redirected to %q, which redirected again to %q",
					location, signedIn, d.Redirect, second.Redirect)
			}
		}
	}
}
