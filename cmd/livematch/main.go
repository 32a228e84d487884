package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/razorbill/livematch/internal/app"
	"github.com/razorbill/livematch/internal/config"
	"github.com/razorbill/livematch/internal/domain/playback"
	"github.com/razorbill/livematch/internal/observability"
	"github.com/razorbill/livematch/internal/platform/logging"
	"github.com/razorbill/livematch/internal/usecase"
)

func main() {
	os.Exit(realMain())
}

// realMain carries the exit code back to main so deferred cleanup runs on the
// failure paths too.
func realMain() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.StreamedTimeout)
		defer cancel()
		if err := shutdownUptrace(shutdownCtx); err != nil {
			logger.Warn("uptrace shutdown failed", "error", err)
		}
	}()

	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		return 1
	}
	defer func() { _ = stopProfiler() }()

	client, err := app.New(cfg, usecase.ReminderServiceConfig{
		OnDue: func(matchID string) {
			fmt.Printf("reminder: match %s starts soon\n", matchID)
		},
	}, logger)
	if err != nil {
		logger.Error("build client", "error", err)
		return 1
	}
	defer client.Reminders.CancelAll()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	command := "today"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	if err := run(ctx, client, cfg, command, os.Args[2:]); err != nil {
		logger.Error("command failed", "command", command, "error", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, client *app.Client, cfg config.Config, command string, args []string) error {
	switch command {
	case "live":
		return runLive(ctx, client, cfg)
	case "today":
		return runToday(ctx, client)
	case "streams":
		if len(args) < 1 {
			return fmt.Errorf("usage: livematch streams <match-id>")
		}
		return runStreams(ctx, client, args[0])
	default:
		return fmt.Errorf("unknown command %q: valid commands are live, today, streams", command)
	}
}

func runLive(ctx context.Context, client *app.Client, cfg config.Config) error {
	live, err := client.Feed.FetchLiveMatches(ctx, cfg.FeedMaxRetries)
	if err != nil {
		return err
	}

	reference, refErr := client.Feed.FetchTodayMatches(ctx)
	if refErr == nil {
		live = usecase.MergeBadges(live, reference)
	}

	for _, m := range usecase.SortMatchesForDisplay(live) {
		note := ""
		if !m.HasSources() {
			note = "  (no live stream available)"
		}
		fmt.Printf("%s  %s vs %s  [%s]%s\n", m.Date.Local().Format("15:04"), m.Home.Name, m.Away.Name, m.Category, note)
	}
	if len(live) == 0 {
		fmt.Println("no live matches at the moment")
	}
	return nil
}

func runToday(ctx context.Context, client *app.Client) error {
	grouped, err := client.Feed.FetchTodayBySport(ctx)
	if err != nil {
		return err
	}
	names, err := client.Directory.NameMap(ctx)
	if err != nil {
		return err
	}

	groups := usecase.SortCategories(grouped, names)
	for _, group := range groups {
		title := group.Name
		if title == "" {
			title = "Other"
		}
		fmt.Printf("== %s ==\n", title)
		for _, m := range usecase.SortMatchesForDisplay(group.Matches) {
			note := ""
			if !m.HasSources() {
				note = "  (no live stream available)"
			}
			fmt.Printf("  %s  %s vs %s%s\n", m.Date.Local().Format("15:04"), m.Home.Name, m.Away.Name, note)
		}
	}
	if len(groups) == 0 {
		fmt.Println("no popular matches today")
	}
	return nil
}

func runStreams(ctx context.Context, client *app.Client, matchID string) error {
	m, err := client.Feed.MatchByID(ctx, matchID)
	if err != nil {
		return err
	}

	fmt.Printf("%s vs %s\n", m.Home.Name, m.Away.Name)
	if badge := client.API.BadgeURL(m.Home.Badge); badge != "" {
		fmt.Printf("  home badge: %s\n", badge)
	}
	if badge := client.API.BadgeURL(m.Away.Badge); badge != "" {
		fmt.Printf("  away badge: %s\n", badge)
	}

	streams := client.Streams.ResolveStreams(ctx, m.Sources)
	sort.SliceStable(streams, func(i, j int) bool {
		if streams[i].HD != streams[j].HD {
			return streams[i].HD
		}
		return streams[i].StreamNo < streams[j].StreamNo
	})

	controller := playback.NewController(streams)
	if controller.Len() == 0 {
		fmt.Println("no streams available for this match")
		return nil
	}
	for i, s := range streams {
		hd := ""
		if s.HD {
			hd = " HD"
		}
		marker := "  "
		if i == controller.Index() {
			marker = "> "
		}
		fmt.Printf("%s#%d [%s%s] %s  %s\n", marker, i+1, s.Language, hd, s.Source, s.EmbedURL)
	}
	return nil
}
