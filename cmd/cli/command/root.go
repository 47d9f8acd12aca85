package command

// root.go defines the root command for the georush CLI and its global flags.

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	apiURL  string        // GeoRush server URL
	origin  string        // Origin header sent with every request
	timeout time.Duration // per-command deadline
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "georush",
	Short: "georush - GeoRush server smoke-test client",
	Long: `georush checks that a GeoRush server is reachable over HTTP and over its
realtime channel:
- status: call the JSON status endpoints
- test:   send a "test" event and wait for "test-response"

Use "georush [command] --help" to see the flags of a command.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags = available to all subcommands
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "http://localhost:5000", "GeoRush server URL")
	rootCmd.PersistentFlags().StringVar(&origin, "origin", "http://localhost:3000", "Origin header to send (empty for none)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Second, "deadline for each request")
}
