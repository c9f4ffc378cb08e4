package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillchat/desktop/internal/client/rest"
)

var openURLCmd = &cobra.Command{
	Use:   "open-url <url>",
	Short: "forwards a quill:// deep link or web link to the daemon",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := getClient(cmd)
		if err != nil {
			return err
		}

		if err := client.Shell.OpenURL(cmd.Context(), args[0]); err != nil {
			var apiErr *rest.Error
			if errors.As(err, &apiErr) {
				return fmt.Errorf("open url: %s", apiErr.Message)
			}
			return err
		}

		cmd.Printf("Opened %s\n", args[0])
		return nil
	},
}
