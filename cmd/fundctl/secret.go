package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/config"
)

type encryptSecretCmd struct{}

func (*encryptSecretCmd) Name() string     { return "encrypt-secret" }
func (*encryptSecretCmd) Synopsis() string { return "encrypt a value for MARKET_API_TOKEN" }
func (*encryptSecretCmd) Usage() string {
	return `fundctl encrypt-secret <value>

  Prints the fernet token of <value> under SECRET_KEY. Store the token in
  MARKET_API_TOKEN; the server decrypts it at startup.
`
}

func (*encryptSecretCmd) SetFlags(*flag.FlagSet) {}

func (*encryptSecretCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one value is required")
		return subcommands.ExitUsageError
	}
	key := os.Getenv("SECRET_KEY")
	if key == "" {
		fmt.Fprintln(os.Stderr, "Error: SECRET_KEY is not set")
		return subcommands.ExitUsageError
	}

	token, err := config.EncryptSecret(f.Arg(0), key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Println(token)
	return subcommands.ExitSuccess
}
