package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/calendar"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/repository"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/validation"
)

type importCalendarCmd struct {
	file string
}

func (*importCalendarCmd) Name() string     { return "import-calendar" }
func (*importCalendarCmd) Synopsis() string { return "load trading dates from a YAML file" }
func (*importCalendarCmd) Usage() string {
	return `fundctl import-calendar -f <calendar.yaml>

  Adds the trade_dates listed in the file to the trade_date table. Dates already
  present are left as they are.
`
}

func (c *importCalendarCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "YAML file with a trade_dates list")
}

func (c *importCalendarCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" {
		fmt.Fprintln(os.Stderr, "Error: -f is required")
		return subcommands.ExitUsageError
	}

	dates, err := calendar.FileSource{Path: c.file}.LoadTradeDates(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	a, err := openApp(ctx, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	added, err := repository.NewTradeCalendarRepository(a.db).ImportTradeDates(ctx, dates)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("imported %d of %d trading dates\n", added, len(dates))
	return subcommands.ExitSuccess
}

type importNavCmd struct {
	fund string
	date string
	nav  float64
}

func (*importNavCmd) Name() string     { return "import-nav" }
func (*importNavCmd) Synopsis() string { return "store a published NAV" }
func (*importNavCmd) Usage() string {
	return `fundctl import-nav -fund <code> -d <YYYY-MM-DD> -nav <value>

  Stores the NAV of a fund for one date, replacing any stored value.
`
}

func (c *importNavCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.fund, "fund", "", "six digit fund code")
	f.StringVar(&c.date, "d", "", "NAV date")
	f.Float64Var(&c.nav, "nav", 0, "net asset value")
}

func (c *importNavCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := validation.ValidateFundCode(c.fund); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	date, err := validation.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	a, err := openApp(ctx, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	funds, client := a.fundService()
	defer client.Close()

	stored, err := funds.ImportNav(ctx, c.fund, date, c.nav)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("%s %s %v\n", stored.FundCode, stored.Date.Format(validation.DateLayout), stored.Nav)
	return subcommands.ExitSuccess
}
