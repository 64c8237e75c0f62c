package session

import (
	"sync"
	"time"

	"offerlink/internal/analytics"
)

type webState int

const (
	webInactive webState = iota
	webActive
	webPausedByBackground
)

// Accountant tracks cumulative app-foreground time and the nested
// in-app-browser time across backgrounding. At most one app session
// and one web session exist at a time; a web session backgrounded
// with the app is paused, not destroyed, and resumes with the next
// app session keeping its cumulative counter.
type Accountant struct {
	mu   sync.Mutex
	now  func() time.Time
	sink analytics.Sink

	appActive bool
	appStart  time.Time
	cumApp    time.Duration

	web      webState
	webStart time.Time
	webURL   string
	cumWeb   time.Duration
}

// Stats is a point-in-time snapshot, mainly for introspection.
type Stats struct {
	AppActive         bool
	CumulativeApp     time.Duration
	CumulativeWeb     time.Duration
	WebActive         bool
	WebPaused         bool
	WebURL            string
}

func NewAccountant(sink analytics.Sink) *Accountant {
	return &Accountant{now: time.Now, sink: sink}
}

// StartAppSession begins foreground accounting and resumes a web
// session paused by a prior backgrounding.
func (a *Accountant) StartAppSession() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.appActive = true
	a.appStart = a.now()
	a.sink.Capture(analytics.EventAppSessionStart, nil)

	if a.web == webPausedByBackground && a.webURL != "" {
		a.webStart = a.now()
		a.web = webActive
		a.sink.Capture(analytics.EventWebViewSessionResumed, analytics.Properties{
			"url": a.webURL,
		})
	}
}

// EndAppSession pauses any active web session, accumulates foreground
// time and emits the session summary.
func (a *Accountant) EndAppSession() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.appActive {
		return
	}

	wasWebActive := a.web == webActive
	if wasWebActive {
		d := a.now().Sub(a.webStart)
		a.cumWeb += d
		a.web = webPausedByBackground
		a.sink.Capture(analytics.EventWebViewSessionPaused, analytics.Properties{
			"session_duration_seconds": d.Seconds(),
			"reason":                   "app_backgrounded",
		})
	}

	d := a.now().Sub(a.appStart)
	a.cumApp += d
	a.appActive = false

	a.sink.Capture(analytics.EventAppSessionEnd, analytics.Properties{
		"session_duration_seconds":        d.Seconds(),
		"session_duration_minutes":        d.Minutes(),
		"cumulative_app_time_seconds":     a.cumApp.Seconds(),
		"cumulative_webview_time_seconds": a.cumWeb.Seconds(),
		"webview_was_active":              wasWebActive,
	})
}

// StartWebViewSession begins browser accounting nested in the current
// app session. The URL is retained for pause/resume.
func (a *Accountant) StartWebViewSession(url string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.webStart = a.now()
	a.webURL = url
	a.web = webActive

	a.sink.Capture(analytics.EventWebViewSessionStart, analytics.Properties{
		"url":                          url,
		"app_session_duration_at_open": a.appSecondsLocked(),
	})
}

// EndWebViewSession is the full-destroy path, used when the browser
// surface is actually dismissed rather than the app backgrounding.
func (a *Accountant) EndWebViewSession() {
	a.mu.Lock()
	defer a.mu.Unlock()

	var d time.Duration
	switch a.web {
	case webInactive:
		return
	case webActive:
		d = a.now().Sub(a.webStart)
		a.cumWeb += d
	case webPausedByBackground:
		// elapsed time was already folded in at pause
	}

	a.sink.Capture(analytics.EventWebViewSessionEnd, analytics.Properties{
		"session_duration_seconds":        d.Seconds(),
		"session_duration_minutes":        d.Minutes(),
		"cumulative_webview_time_seconds": a.cumWeb.Seconds(),
		"app_session_duration":            a.appSecondsLocked(),
	})

	a.web = webInactive
	a.webStart = time.Time{}
	a.webURL = ""
}

func (a *Accountant) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Stats{
		AppActive:     a.appActive,
		CumulativeApp: a.cumApp,
		CumulativeWeb: a.cumWeb,
		WebActive:     a.web == webActive,
		WebPaused:     a.web == webPausedByBackground,
		WebURL:        a.webURL,
	}
}

func (a *Accountant) appSecondsLocked() float64 {
	if !a.appActive {
		return 0
	}
	return a.now().Sub(a.appStart).Seconds()
}
