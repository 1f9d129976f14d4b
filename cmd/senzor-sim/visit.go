package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/senzor"
	"github.com/dmitrymomot/senzor/pkg/browser/headless"
	"github.com/dmitrymomot/senzor/pkg/config"
	"github.com/dmitrymomot/senzor/pkg/logger"
	"github.com/dmitrymomot/senzor/pkg/session"
	"github.com/dmitrymomot/senzor/pkg/transport"
)

type visitFlags struct {
	webID    string
	endpoint string
	referrer string
	tab      string
	width    int
	timezone string
	send     bool
	realtime bool
	timeout  time.Duration
}

func newVisitCmd(root *rootFlags) *cobra.Command {
	var flags visitFlags

	cmd := &cobra.Command{
		Use:   "visit <landing-url> [step...]",
		Short: "Replay a journey and print the events it produces",
		Long: `Replay a journey on a headless page and print every event as a JSON line.

Steps:
  /path or /path|Title   navigate within the app (history push)
  wait=45s               let time pass
  hide, show             switch tab visibility
  back                   browser back button
  close                  close the page, keeping the tab
  closetab               close the tab, dropping session storage
  reload                 close and reopen the current URL
  open=URL               open URL as a new page load in the same tab

Time is simulated unless --realtime is set. Events are only printed unless
--send is set, in which case they are also POSTed to the endpoint.`,
		Example: `  senzor-sim visit --web-id w1 https://site.example/a wait=45s hide wait=5m show wait=10s close
  senzor-sim visit --web-id w1 --referrer https://search.example/q=x https://site.example/ /pricing wait=3s closetab`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := parseJourney(args)
			if err != nil {
				return err
			}

			cfg, err := senzor.ConfigFromEnv()
			if err != nil {
				return err
			}
			if flags.webID != "" {
				cfg.WebID = flags.webID
			}
			if flags.endpoint != "" {
				cfg.Endpoint = flags.endpoint
			}

			sessionCfg, err := loadSessionConfig()
			if err != nil {
				return err
			}
			transportCfg, err := loadTransportConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			dev, err := root.device.open(ctx, cmd)
			if err != nil {
				return err
			}
			defer func() { _ = dev.close() }()

			r := &runner{
				cfg:          cfg,
				sessionCfg:   sessionCfg,
				transportCfg: transportCfg,
				flags:        flags,
				device:       dev,
				tab:          dev.tab(flags.tab),
				clock:        newSimClock(time.Now(), flags.realtime),
				recorder:     headless.NewRecorder(!flags.send),
				log:          root.logger(cmd.ErrOrStderr()),
			}
			if err := r.run(ctx, steps); err != nil {
				return err
			}
			return r.print(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&flags.webID, "web-id", "", "Site identifier (default $SENZOR_WEB_ID)")
	cmd.Flags().StringVar(&flags.endpoint, "endpoint", "", "Ingestion URL (default $SENZOR_ENDPOINT or the hosted endpoint)")
	cmd.Flags().StringVar(&flags.referrer, "referrer", "", "document.referrer of the landing page")
	cmd.Flags().StringVar(&flags.tab, "tab", "main", "Tab name; reusing it across runs continues its session storage")
	cmd.Flags().IntVar(&flags.width, "width", 1280, "Viewport width in pixels")
	cmd.Flags().StringVar(&flags.timezone, "timezone", "", "IANA timezone (default the local zone)")
	cmd.Flags().BoolVar(&flags.send, "send", false, "POST events to the endpoint")
	cmd.Flags().BoolVar(&flags.realtime, "realtime", false, "Sleep through wait steps instead of simulating time")
	cmd.Flags().DurationVar(&flags.timeout, "flush-timeout", 15*time.Second, "How long to wait for in-flight deliveries with --send")

	return cmd
}

type runner struct {
	cfg          senzor.Config
	sessionCfg   session.Config
	transportCfg transport.Config
	flags        visitFlags
	device       *device
	tab          session.Scope
	clock        *simClock
	recorder     *headless.Recorder
	log          *slog.Logger

	page   *headless.Page
	agents []*senzor.Agent

	// landing of the last closed page, for reload after close
	lastURL, lastTitle string
}

func (r *runner) run(ctx context.Context, steps []step) error {
	for i, s := range steps {
		if err := r.apply(ctx, s); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, s, err)
		}
	}
	if r.flags.send {
		return r.flush(ctx)
	}
	return nil
}

func (r *runner) apply(ctx context.Context, s step) error {
	if r.page == nil {
		switch s.kind {
		case stepOpen, stepWait:
		case stepReload:
			if r.lastURL == "" {
				return headless.ErrClosed
			}
		default:
			return headless.ErrClosed
		}
	}

	switch s.kind {
	case stepOpen:
		ref := ""
		if len(r.agents) == 0 {
			ref = r.flags.referrer
		}
		return r.open(ctx, s.url, s.title, ref)
	case stepReload:
		if r.page != nil {
			r.closePage()
		}
		return r.open(ctx, r.lastURL, r.lastTitle, "")
	case stepNavigate:
		return r.page.Navigate(s.url, s.title)
	case stepWait:
		return r.clock.Advance(ctx, s.wait)
	case stepHide:
		r.page.Hide()
	case stepShow:
		r.page.Show()
	case stepBack:
		if !r.page.Back() {
			r.log.WarnContext(ctx, "nothing to go back to")
		}
	case stepClose:
		r.closePage()
	case stepCloseTab:
		r.closePage()
		if c, ok := r.tab.(clearer); ok {
			if err := c.Clear(ctx); err != nil {
				return err
			}
		} else if c, ok := r.tab.(interface{ Clear() }); ok {
			c.Clear()
		}
	}
	return nil
}

func (r *runner) closePage() {
	r.lastURL, r.lastTitle = r.page.URL(), r.page.Title()
	r.page.Close()
	r.page = nil
}

func (r *runner) open(ctx context.Context, url, title, referrer string) error {
	if r.page != nil {
		r.closePage()
	}

	opts := []headless.Option{
		headless.WithTitle(title),
		headless.WithReferrer(referrer),
		headless.WithViewportWidth(r.flags.width),
		headless.WithTimezone(r.timezone()),
		headless.WithDurableStorage(r.device.durable),
		headless.WithSessionStorage(r.tab),
		headless.WithRecorder(r.recorder),
	}
	page, err := headless.New(url, opts...)
	if err != nil {
		return err
	}

	agent := senzor.New(page,
		senzor.WithClock(r.clock.Now),
		senzor.WithLogger(r.log),
		senzor.WithSessionConfig(r.sessionCfg),
		senzor.WithTransportOptions(
			transport.WithConfig(r.transportCfg),
			transport.WithOnDelivery(func(res transport.DeliveryResult) {
				if res.Error != nil {
					return
				}
				r.log.Info("event delivered", logger.StatusCode(res.StatusCode), logger.Duration(res.Duration))
			}),
		),
	)
	if err := agent.Init(ctx, r.cfg); err != nil {
		return err
	}

	r.page = page
	r.agents = append(r.agents, agent)
	return nil
}

func (r *runner) timezone() string {
	if r.flags.timezone != "" {
		return r.flags.timezone
	}
	if name := time.Local.String(); name != "Local" {
		return name
	}
	return "UTC"
}

func (r *runner) flush(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.flags.timeout)
	defer cancel()

	var errs []error
	for _, a := range r.agents {
		if err := a.Flush(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *runner) print(w io.Writer) error {
	enc := json.NewEncoder(w)
	for _, p := range r.recorder.Payloads() {
		if err := enc.Encode(p); err != nil {
			return err
		}
	}
	return nil
}

func loadSessionConfig() (session.Config, error) {
	cfg := session.DefaultConfig()
	if err := config.Load(&cfg); err != nil {
		return session.Config{}, err
	}
	return cfg, nil
}

func loadTransportConfig() (transport.Config, error) {
	cfg := transport.DefaultConfig()
	if err := config.Load(&cfg); err != nil {
		return transport.Config{}, err
	}
	return cfg, nil
}
