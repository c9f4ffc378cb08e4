package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillchat/desktop/internal/client/rest"
	"github.com/quillchat/desktop/internal/server/api"
	"github.com/quillchat/desktop/util"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Manage application updates",
}

var updateCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "checks the version source for a newer release",
	RunE: func(cmd *cobra.Command, args []string) error {
		SetFlagsFromEnvVars(rootCmd)
		cmd.SetOut(cmd.OutOrStdout())

		if err := util.InitLog(logLevel, "console"); err != nil {
			return fmt.Errorf("failed initializing log %v", err)
		}

		client := rest.New(daemonAddr)

		// connection errors are retried while the daemon is starting up;
		// an answer from the daemon, including a rejection, is final
		var check *api.CheckResponse
		var checkErr error
		err := WithBackOff(func() error {
			var backOffErr error
			check, backOffErr = client.Updates.Check(cmd.Context())
			var apiErr *rest.Error
			if errors.As(backOffErr, &apiErr) {
				checkErr = backOffErr
				return nil
			}
			return backOffErr
		})
		if err != nil {
			return fmt.Errorf("failed to connect to daemon error: %v\n"+
				"If the daemon is not running please run: "+
				"\nquill service install \nquill service start\n", err)
		}
		if checkErr != nil {
			return fmt.Errorf("check for updates: %v", checkErr)
		}

		if !check.Available {
			cmd.Println("You are running the latest version")
			return nil
		}

		cmd.Printf("Update available: %s (current version %s)\n", check.Metadata.Version, check.Metadata.CurrentVersion)
		if check.Metadata.ReleaseNotes != "" {
			cmd.Println(check.Metadata.ReleaseNotes)
		}
		cmd.Println("Run 'quill update install' to download and install it")
		return nil
	},
}

var updateInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "downloads and installs the available update",
	RunE: func(cmd *cobra.Command, args []string) error {
		SetFlagsFromEnvVars(rootCmd)
		cmd.SetOut(cmd.OutOrStdout())

		if err := util.InitLog(logLevel, "console"); err != nil {
			return fmt.Errorf("failed initializing log %v", err)
		}

		client := rest.New(daemonAddr)

		var installErr error
		err := WithBackOff(func() error {
			_, backOffErr := client.Updates.Install(cmd.Context())
			var apiErr *rest.Error
			if errors.As(backOffErr, &apiErr) {
				installErr = backOffErr
				return nil
			}
			return backOffErr
		})
		if err != nil {
			return fmt.Errorf("failed to connect to daemon error: %v\n"+
				"If the daemon is not running please run: "+
				"\nquill service install \nquill service start\n", err)
		}
		if installErr != nil {
			return fmt.Errorf("install update: %v", installErr)
		}

		cmd.Println("Update downloaded and installed, restart the application to apply it")
		return nil
	},
}
