package command

import (
	c "georush/cmd/cli/command/client"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Call the HTTP status endpoints",
	Long:  `Calls GET / and GET /api/test and prints the returned messages.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient := c.NewHTTPClient(apiURL, origin, timeout)

		for _, path := range []string{"/", "/api/test"} {
			result, err := httpClient.GetStatus(path)
			if err != nil {
				c.PrintError(err)
				return err
			}
			c.PrintStatusResult(result)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
