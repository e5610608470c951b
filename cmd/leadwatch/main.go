// Command leadwatch follows the leads API from a terminal: the agent
// dashboard, a client's own leads, or a single submitted lead.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"github.com/xavierca1/polyglot-leads/internal/client"
)

func main() {
	_ = godotenv.Load()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	var (
		apiURL   = flag.String("api", envOr("LEADS_API_URL", "http://localhost:8080"), "leads API base URL")
		token    = flag.String("token", os.Getenv("LEADS_TOKEN"), "bearer token")
		status   = flag.String("status", "", "only leads with this status")
		search   = flag.String("search", "", "refine the page by free text")
		mine     = flag.String("mine", "", "show the leads of this email with their replies")
		leadID   = flag.String("lead", "", "follow a single lead")
		once     = flag.Bool("once", false, "refresh once and exit")
		interval = flag.Duration("interval", 0, "override the refresh interval")
	)
	flag.Parse()

	opts := []client.Option{}
	if *token != "" {
		opts = append(opts, client.WithBearerToken(*token))
	}
	api, err := client.New(*apiURL, opts...)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var every time.Duration
	var refresh func(ctx context.Context)
	switch {
	case *leadID != "":
		every = client.SubmitInterval
		refresh = func(ctx context.Context) { printLead(ctx, os.Stdout, api, *leadID) }
	case *mine != "":
		every = client.MyLeadsInterval
		view := client.NewMyLeadsView(api, *mine)
		refresh = func(ctx context.Context) {
			if err := view.Refresh(ctx); err != nil {
				report(err)
				return
			}
			for _, t := range view.Threads() {
				if !t.Expanded {
					view.Expand(ctx, t.Lead.ID)
				}
			}
			printThreads(os.Stdout, view.Threads())
		}
	default:
		every = client.DashboardInterval
		dash := client.NewDashboard(api)
		dash.SetStatusFilter(*status)
		dash.SetSearch(*search)
		refresh = func(ctx context.Context) {
			if err := dash.Refresh(ctx); err != nil {
				report(err)
			}
			printDashboard(os.Stdout, dash.View())
		}
	}
	if *interval > 0 {
		every = *interval
	}

	if *once {
		refresh(ctx)
		return
	}
	client.NewPoller(every, refresh).Run(ctx)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func report(err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", client.KindOf(err), err)
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func printDashboard(out io.Writer, view client.DashboardView) {
	latest := "-"
	if view.Stats.HasLatest {
		latest = view.Stats.Latest.Local().Format(time.DateTime)
	}
	fmt.Fprintf(out, "\n%s  total=%d agents=%d tags=%d latest=%s\n",
		view.RefreshedAt.Format(time.TimeOnly), view.Stats.Total, view.Stats.AgentsActive, view.Stats.TagsUsed, latest)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tLANG\tTAG\tASSIGNED\tNAME\tMESSAGE")
	for _, l := range view.Leads {
		tag := "-"
		if l.Tag != nil {
			tag = string(*l.Tag)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			short(l.ID, 8), l.Status, l.Language, tag, deref(l.AssignedTo), l.Name, short(l.TranslatedMessage, 60))
	}
	tw.Flush()
}

func printThreads(out io.Writer, threads []client.LeadThread) {
	for _, t := range threads {
		fmt.Fprintf(out, "\n[%s] %s  %s\n  %s\n", t.Lead.Status, t.Lead.CreatedAt.Local().Format(time.DateTime), t.Lead.ID, t.Lead.OriginalMessage)
		if len(t.Replies) == 0 {
			fmt.Fprintln(out, "  no replies yet")
		}
		for _, r := range t.Replies {
			fmt.Fprintf(out, "  > %s: %s\n", r.AgentName, r.TranslatedMessage)
		}
	}
}

func printLead(ctx context.Context, out io.Writer, api *client.Client, id string) {
	lead, err := api.GetLead(ctx, id)
	if err != nil {
		report(err)
		return
	}
	tag := "pending"
	if lead.Tag != nil {
		tag = string(*lead.Tag)
	}
	fmt.Fprintf(out, "%s  %s status=%s tag=%s assigned=%s\n",
		time.Now().Format(time.TimeOnly), lead.ID, lead.Status, tag, deref(lead.AssignedTo))
}

func short(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
