package command

import (
	"context"

	c "georush/cmd/cli/command/client"
	ws "georush/internal/microservices/websocket"

	"github.com/spf13/cobra"
)

var testCmd = &cobra.Command{
	Use:   "test [payload]",
	Short: "Send a realtime test event",
	Long: `Opens a realtime connection, sends one "test" event and waits for "test-response".
The payload may be any JSON value; other text is sent as a JSON string.`,
	Example: `  georush test '{"foo":1}'
  georush test hello --api http://localhost:5000`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wsClient, err := c.NewWSClient(apiURL, origin, timeout)
		if err != nil {
			return err
		}

		var raw string
		if len(args) == 1 {
			raw = args[0]
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		result, err := wsClient.SendTest(ctx, c.ParsePayload(raw))
		if err != nil {
			c.PrintError(err)
			return err
		}
		c.PrintTestResult(ws.EventTestResponse, result)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(testCmd)
}
