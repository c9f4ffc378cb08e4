package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quillchat/desktop/internal/client/rest"
	"github.com/quillchat/desktop/internal/events"
	"github.com/quillchat/desktop/util"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "streams daemon events to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		SetFlagsFromEnvVars(rootCmd)
		cmd.SetOut(cmd.OutOrStdout())

		if err := util.InitLog(logLevel, "console"); err != nil {
			return fmt.Errorf("failed initializing log %v", err)
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		SetupCloseHandler(ctx, cancel)

		client := rest.New(daemonAddr)
		stream, err := client.Events.Subscribe(ctx)
		if err != nil {
			return fmt.Errorf("failed to connect to daemon error: %v\n"+
				"If the daemon is not running please run: "+
				"\nquill service install \nquill service start\n", err)
		}
		defer stream.Close()

		cmd.Println("Streaming daemon events, press Ctrl+C to stop")
		for {
			event, err := stream.Next(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("event stream closed: %v", err)
			}
			printEvent(cmd, event)
		}
	},
}

func printEvent(cmd *cobra.Command, event events.Event) {
	timestamp := event.Timestamp.Format(time.RFC3339)
	if event.Payload == nil {
		cmd.Printf("%s %s\n", timestamp, event.Name)
		return
	}

	payload, err := json.Marshal(event.Payload)
	if err != nil {
		cmd.Printf("%s %s\n", timestamp, event.Name)
		return
	}
	cmd.Printf("%s %s %s\n", timestamp, event.Name, payload)
}
