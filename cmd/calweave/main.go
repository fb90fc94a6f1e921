package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli"

	"github.com/calweave/calweave/internal/config"
	"github.com/calweave/calweave/internal/logging"
	"github.com/calweave/calweave/pkg/calendar"
	"github.com/calweave/calweave/pkg/engine"
	"github.com/calweave/calweave/pkg/ics"
	"github.com/calweave/calweave/pkg/view"
)

var appVersion = "1.0.0"

func main() {
	app := cli.App{
		Name:    "calweave",
		Usage:   "inspect, validate and convert iCalendar data",
		Version: appVersion,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to the config file",
				Value: "calweave.yaml",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (trace, debug, info, warn, error)",
			},
		},
		Commands: []cli.Command{
			validateCmd,
			expandCmd,
			viewCmd,
			convertCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.GlobalString("config"))
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if lvl := c.GlobalString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	return cfg, nil
}

func readEvents(path string) ([]calendar.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ics.Decode(data), nil
}

var validateCmd = cli.Command{
	Name:      "validate",
	Usage:     "Run the event validator over every event in an ICS file",
	ArgsUsage: "<file.ics>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return fmt.Errorf("expected exactly one ICS file")
		}
		events, err := readEvents(c.Args().First())
		if err != nil {
			return err
		}
		bad := 0
		for _, ev := range events {
			problems := calendar.Validate(ev)
			if len(problems) == 0 {
				continue
			}
			bad++
			fmt.Printf("%s (%s):\n", ev.ID, ev.Title)
			for _, p := range problems {
				fmt.Printf("  - %s\n", p)
			}
		}
		fmt.Printf("%d events checked, %d with violations\n", len(events), bad)
		return nil
	},
}

var expandCmd = cli.Command{
	Name:      "expand",
	Usage:     "Expand recurring events into occurrence instances within a range",
	ArgsUsage: "<file.ics>",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "from", Usage: "Range start (YYYY-MM-DD)"},
		&cli.StringFlag{Name: "to", Usage: "Range end (YYYY-MM-DD)"},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		logger := logging.New(cfg.LogLevel)

		if c.NArg() != 1 {
			return fmt.Errorf("expected exactly one ICS file")
		}
		events, err := readEvents(c.Args().First())
		if err != nil {
			return err
		}

		from, err := parseDay(c.String("from"), cfg.Location())
		if err != nil {
			return fmt.Errorf("--from: %w", err)
		}
		to, err := parseDay(c.String("to"), cfg.Location())
		if err != nil {
			return fmt.Errorf("--to: %w", err)
		}
		to = to.AddDate(0, 0, 1).Add(-time.Second)

		sess := engine.New(engine.Config{
			Location:  cfg.Location(),
			WeekStart: cfg.WeekStartDay(),
			Logger:    logger,
		})
		spec := &view.CustomSpec{Unit: view.UnitDay, Count: int(to.Sub(from).Hours()/24) + 1}
		visible, err := sess.EventsForView(view.KindCustom, from, spec, events)
		if err != nil {
			return err
		}
		for _, ev := range visible {
			fmt.Printf("%s  %s  %s\n", ev.Start.Format("2006-01-02 15:04"), ev.ID, ev.Title)
		}
		logger.Debug().Int("instances", len(visible)).Msg("expansion done")
		return nil
	},
}

var viewCmd = cli.Command{
	Name:  "view",
	Usage: "Print the visible dates and query bounds of a view",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "mode", Usage: "View mode: day, week, month, year, custom", Value: "month"},
		&cli.StringFlag{Name: "anchor", Usage: "Anchor date (YYYY-MM-DD), default today"},
		&cli.StringFlag{Name: "unit", Usage: "Custom view unit: day, week, month", Value: "day"},
		&cli.IntFlag{Name: "count", Usage: "Custom view repetition count", Value: 1},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}

		anchor := time.Now().In(cfg.Location())
		if s := c.String("anchor"); s != "" {
			anchor, err = parseDay(s, cfg.Location())
			if err != nil {
				return fmt.Errorf("--anchor: %w", err)
			}
		}

		kind := view.Kind(c.String("mode"))
		var spec *view.CustomSpec
		if kind == view.KindCustom {
			spec = &view.CustomSpec{Unit: view.Unit(c.String("unit")), Count: c.Int("count")}
		}

		dates, err := view.Dates(kind, anchor, cfg.WeekStartDay(), spec)
		if err != nil {
			return err
		}
		bounds, err := view.Bounds(kind, anchor, cfg.WeekStartDay(), spec)
		if err != nil {
			return err
		}

		fmt.Printf("%s\n", view.RangeLabel(dates))
		for _, d := range dates {
			fmt.Println(d.Format("2006-01-02 Mon"))
		}
		if !bounds.IsZero() {
			fmt.Printf("bounds: %s .. %s\n",
				bounds.Start.Format(time.RFC3339), bounds.End.Format(time.RFC3339))
		}
		return nil
	},
}

var convertCmd = cli.Command{
	Name:      "convert",
	Usage:     "Decode an ICS file and re-encode it in canonical form to stdout",
	ArgsUsage: "<file.ics>",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		if c.NArg() != 1 {
			return fmt.Errorf("expected exactly one ICS file")
		}
		events, err := readEvents(c.Args().First())
		if err != nil {
			return err
		}
		enc := ics.NewEncoder(cfg.ICS.BuildProdID())
		_, err = os.Stdout.Write(enc.Encode(events))
		return err
	},
}

func parseDay(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("missing date")
	}
	return time.ParseInLocation("2006-01-02", s, loc)
}
