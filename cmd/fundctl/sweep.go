package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/repository"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/service"
)

type sweepCmd struct{}

func (*sweepCmd) Name() string     { return "sweep" }
func (*sweepCmd) Synopsis() string { return "settle every due pending transaction now" }
func (*sweepCmd) Usage() string {
	return `fundctl sweep

  Runs the settlement sweep once, as the daily scheduler would. Rows that cannot
  settle stay pending; the command still succeeds and reports them as failed.
`
}

func (*sweepCmd) SetFlags(*flag.FlagSet) {}

func (*sweepCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	funds, client := a.fundService()
	defer client.Close()

	svc := service.NewSettlementService(
		a.db,
		repository.NewHoldingRepository(a.db),
		repository.NewTransactionRepository(a.db),
		funds,
		service.SystemClock,
		nil,
		a.log.Named("settlement"),
	)

	result, err := svc.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running sweep: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("confirmed %d, failed %d, skipped %d\n", result.Confirmed, result.Failed, result.Skipped)
	return subcommands.ExitSuccess
}
