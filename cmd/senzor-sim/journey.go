package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

type stepKind string

const (
	stepNavigate stepKind = "navigate"
	stepWait     stepKind = "wait"
	stepHide     stepKind = "hide"
	stepShow     stepKind = "show"
	stepBack     stepKind = "back"
	stepClose    stepKind = "close"
	stepCloseTab stepKind = "closetab"
	stepReload   stepKind = "reload"
	stepOpen     stepKind = "open"
)

var errBadStep = errors.New("invalid journey step")

type step struct {
	kind  stepKind
	url   string
	title string
	wait  time.Duration
}

func (s step) String() string {
	switch s.kind {
	case stepNavigate, stepOpen:
		return fmt.Sprintf("%s %s", s.kind, s.url)
	case stepWait:
		return fmt.Sprintf("wait %s", s.wait)
	default:
		return string(s.kind)
	}
}

// parseJourney turns command arguments into steps. The first argument is the
// absolute URL of the landing page.
//
//	/path or /path|Title    navigate within the app
//	wait=45s                let time pass
//	hide, show              switch tab visibility
//	back                    browser back button
//	close                   close the page, keeping the tab
//	closetab                close the tab, dropping session storage
//	reload                  close and reopen the current URL
//	open=URL                open URL as a new page load in the same tab
func parseJourney(args []string) ([]step, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: landing page URL is required", errBadStep)
	}
	if !strings.Contains(args[0], "://") {
		return nil, fmt.Errorf("%w: landing page %q must be an absolute URL", errBadStep, args[0])
	}

	url, title := splitTitle(args[0])
	steps := []step{{kind: stepOpen, url: url, title: title}}

	for _, arg := range args[1:] {
		s, err := parseStep(arg)
		if err != nil {
			return nil, err
		}
		steps = append(steps, s)
	}
	return steps, nil
}

func parseStep(arg string) (step, error) {
	switch arg {
	case "hide":
		return step{kind: stepHide}, nil
	case "show":
		return step{kind: stepShow}, nil
	case "back":
		return step{kind: stepBack}, nil
	case "close":
		return step{kind: stepClose}, nil
	case "closetab":
		return step{kind: stepCloseTab}, nil
	case "reload":
		return step{kind: stepReload}, nil
	}

	if v, ok := strings.CutPrefix(arg, "wait="); ok {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return step{}, fmt.Errorf("%w: %q: duration must be like 45s or 5m", errBadStep, arg)
		}
		return step{kind: stepWait, wait: d}, nil
	}
	if v, ok := strings.CutPrefix(arg, "open="); ok {
		url, title := splitTitle(v)
		if !strings.Contains(url, "://") {
			return step{}, fmt.Errorf("%w: %q: open needs an absolute URL", errBadStep, arg)
		}
		return step{kind: stepOpen, url: url, title: title}, nil
	}
	if strings.HasPrefix(arg, "/") || strings.HasPrefix(arg, "?") || strings.HasPrefix(arg, "#") {
		url, title := splitTitle(arg)
		return step{kind: stepNavigate, url: url, title: title}, nil
	}
	return step{}, fmt.Errorf("%w: %q", errBadStep, arg)
}

func splitTitle(arg string) (string, string) {
	url, title, _ := strings.Cut(arg, "|")
	return url, title
}

// simClock is a settable time source. In realtime mode Advance also sleeps.
type simClock struct {
	mu       sync.Mutex
	now      time.Time
	realtime bool
}

func newSimClock(start time.Time, realtime bool) *simClock {
	return &simClock{now: start, realtime: realtime}
}

func (c *simClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *simClock) Advance(ctx context.Context, d time.Duration) error {
	if c.realtime {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return nil
}
