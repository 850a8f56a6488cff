package report

import (
	"context"
	"fmt"
	"time"

	"github.com/octavian202/public-transport-management/pkg/database"
	"github.com/octavian202/public-transport-management/pkg/util"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	windowFlags := []cli.Flag{
		&cli.StringFlag{
			Name:  "route",
			Usage: "restrict the report to a single route identifier",
		},
		&cli.StringFlag{
			Name:  "start",
			Usage: "earliest departure date to include (YYYY-MM-DD)",
		},
		&cli.StringFlag{
			Name:  "end",
			Usage: "latest departure date to include (YYYY-MM-DD)",
		},
		&cli.StringFlag{
			Name:     "output",
			Usage:    "path of the CSV file to write",
			Required: true,
		},
	}

	return &cli.Command{
		Name:  "report",
		Usage: "Export CSV reports from the transit database",
		Subcommands: []*cli.Command{
			{
				Name:  "occupancy",
				Usage: "export occupancy records for matching trips",
				Flags: windowFlags,
				Action: func(c *cli.Context) error {
					return runReport(c, WriteOccupancyReport)
				},
			},
			{
				Name:  "trips",
				Usage: "export matching trips",
				Flags: windowFlags,
				Action: func(c *cli.Context) error {
					return runReport(c, WriteTripsReport)
				},
			},
		},
	}
}

func runReport(c *cli.Context, write func(context.Context, *Window, string) error) error {
	window, err := windowFromFlags(c)
	if err != nil {
		return err
	}

	if err := database.Connect(); err != nil {
		return err
	}
	defer database.Disconnect()

	return write(context.Background(), window, c.String("output"))
}

func windowFromFlags(c *cli.Context) (*Window, error) {
	window := &Window{
		RouteRef: c.String("route"),
	}

	if startFlag := c.String("start"); startFlag != "" {
		start, err := time.ParseInLocation(util.YearMonthDayFormat, startFlag, time.Local)
		if err != nil {
			return nil, fmt.Errorf("parse start date: %w", err)
		}
		window.Start = start
	}

	if endFlag := c.String("end"); endFlag != "" {
		end, err := time.ParseInLocation(util.YearMonthDayFormat, endFlag, time.Local)
		if err != nil {
			return nil, fmt.Errorf("parse end date: %w", err)
		}
		// Inclusive of the whole end day.
		window.End = end.AddDate(0, 0, 1)
	}

	return window, nil
}
