package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillchat/desktop/internal/server/api"
	"github.com/quillchat/desktop/internal/updater"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "status of the Quill daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := getClient(cmd)
		if err != nil {
			return err
		}

		status, err := client.Status(cmd.Context())
		if err != nil {
			return err
		}

		cmd.Print(formatStatus(status))
		return nil
	},
}

func formatStatus(status *api.StatusResponse) string {
	out := "Daemon version: " + status.Version + "\n"
	out += "Platform: " + status.Platform + "\n"
	out += "Update state: " + status.Update.State.String() + "\n"

	switch status.Update.State {
	case updater.StateAvailable:
		if status.Update.Metadata != nil {
			out += "Available update: " + status.Update.Metadata.Version + "\n"
		}
	case updater.StateDownloading:
		out += fmt.Sprintf("Download progress: %.1f%%\n", status.Update.Percent)
	case updater.StateDownloaded:
		out += "Update downloaded, restart the application to apply it\n"
	case updater.StateFailed:
		out += fmt.Sprintf("Last failure: %s (%s)\n", status.Update.LastError, status.Update.ErrorKind)
	}

	window := "hidden"
	if status.Window.Visible {
		window = "visible"
	}
	if status.Window.Focused {
		window += ", focused"
	}
	out += "Window: " + window + "\n"
	out += fmt.Sprintf("Badge: %d\n", status.Badge)

	return out
}
