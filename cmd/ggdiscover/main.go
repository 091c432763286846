// Ggdiscover queries the AWS IoT Greengrass discovery API for a device.
//
// It authenticates with the thing's X.509 certificate, prints the Greengrass
// Core address and group CA returned for the thing, and can save the CA or
// test a TLS connection to the Core.
//
// Usage:
//
//	ggdiscover [command] [flags]
//
// See 'ggdiscover --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/muurk/ggdiscover/internal/logging"
	"github.com/muurk/ggdiscover/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ggdiscover",
	Short: "AWS IoT Greengrass Core discovery client",
	Long: `Query the AWS IoT Greengrass discovery API for a thing.

The request is authenticated with the thing's certificate and private key
(mutual TLS). The response names the Greengrass Core the thing should connect
to and the group CA that signs the Core's certificate.

Connection settings can be given as flags or stored in named profiles
(see 'ggdiscover profile').`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel)
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ggdiscover %s\n", version.Full())
	},
}
