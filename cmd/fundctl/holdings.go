package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/Rhymond/go-money"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/repository"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/service"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/validation"
)

type holdingsCmd struct {
	account string
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "print the valued holdings of an account" }
func (*holdingsCmd) Usage() string {
	return `fundctl holdings [-a <account id>]

  Prints every holding with its intraday valuation. Without -a every account is printed.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "account id")
}

func (c *holdingsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account != "" {
		if err := validation.ValidateUUID(c.account); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	a, err := openApp(ctx, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	funds, client := a.fundService()
	defer client.Close()

	accountRepo := repository.NewAccountRepository(a.db)
	accounts := service.NewAccountService(
		accountRepo,
		repository.NewHoldingRepository(a.db),
		funds,
		service.SystemClock,
		a.log.Named("account"),
	)

	var ids []string
	if c.account != "" {
		ids = []string{c.account}
	} else {
		all, err := accounts.ListAccounts(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		for _, acc := range all {
			ids = append(ids, acc.ID)
		}
	}

	for _, id := range ids {
		detail, err := accounts.GetAccountDetail(ctx, id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := printAccount(os.Stdout, detail); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}

func printAccount(w io.Writer, d model.AccountDetail) error {
	fmt.Fprintf(w, "%s (%s)\n", d.Name, d.ID)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "fund\tamount\tshares\tvalue\tprofit\t")
	for _, h := range d.Holdings {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n",
			h.FundCode,
			formatCNY(h.TotalAmount),
			decimal.NewFromFloat(h.TotalShares).StringFixed(2),
			formatOptionalCNY(h.EstimatedValue),
			formatOptionalCNY(h.EstimatedProfit),
		)
	}
	fmt.Fprintf(tw, "total\t%s\t\t%s\t%s\t\n",
		formatCNY(d.TotalCost),
		formatOptionalCNY(d.TotalValue),
		formatOptionalCNY(d.TotalProfit),
	)
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

// formatCNY renders a yuan amount rounded to the fen.
func formatCNY(v float64) string {
	fen := decimal.NewFromFloat(v).Shift(2).Round(0).IntPart()
	return money.New(fen, money.CNY).Display()
}

func formatOptionalCNY(v *float64) string {
	if v == nil {
		return "-"
	}
	return formatCNY(*v)
}
