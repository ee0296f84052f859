package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// exitError carries a process exit status through cobra.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// errViolations signals that the transfer was checked and rejected.
var errViolations = &exitError{code: 2}

type cliOptions struct {
	baseURL string
	timeout time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	rootCmd := &cobra.Command{
		Use:           "bridgecheck",
		Short:         "Bridge transfer validator",
		Long:          `Checks bridge transfers against wallet balances and bridge limits, offline or through the bridgecheck API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the bridgecheck API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	remoteCmd := &cobra.Command{
		Use:   "remote",
		Short: "Call a running bridgecheck server",
	}
	remoteCmd.AddCommand(remoteValidateCmd(opts), remoteStatusCmd(opts))

	rootCmd.AddCommand(validateCmd(), remoteCmd)

	return rootCmd
}
