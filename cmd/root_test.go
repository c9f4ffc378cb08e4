package cmd

import (
	"fmt"
	"io"
	"testing"

	"github.com/spf13/cobra"
)

func TestInitCommands(t *testing.T) {
	helpFlag := "-h"
	commandArgs := [][]string{{"root", helpFlag}}
	for _, command := range rootCmd.Commands() {
		commandArgs = append(commandArgs, []string{command.Name(), command.Name(), helpFlag})
		for _, subcommand := range command.Commands() {
			commandArgs = append(commandArgs, []string{command.Name() + " " + subcommand.Name(), command.Name(), subcommand.Name(), helpFlag})
		}
	}

	for _, args := range commandArgs {
		t.Run(fmt.Sprintf("Testing Command %s", args[0]), func(t *testing.T) {
			defer func() {
				err := recover()
				if err != nil {
					t.Fatalf("got an panic error while running the command: %s -h. Error: %s", args[0], err)
				}
			}()

			rootCmd.SetArgs(args[1:])
			rootCmd.SetOut(io.Discard)
			if err := rootCmd.Execute(); err != nil {
				t.Errorf("expected no error while running %s command, got %v", args[0], err)
				return
			}
		})
	}
}

func TestFlagNameToEnvVar(t *testing.T) {
	if got := FlagNameToEnvVar("daemon-addr", "QUILL_"); got != "QUILL_DAEMON_ADDR" {
		t.Errorf("expected QUILL_DAEMON_ADDR, got %s", got)
	}
	if got := FlagNameToEnvVar("log-level", "QUILL_"); got != "QUILL_LOG_LEVEL" {
		t.Errorf("expected QUILL_LOG_LEVEL, got %s", got)
	}
}

func TestSetFlagsFromEnvVars(t *testing.T) {
	var testAddr string
	var testLevel string

	var cmd = &cobra.Command{
		Use:          "quill",
		Long:         "test",
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			SetFlagsFromEnvVars(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&testAddr, "daemon-addr", "127.0.0.1:53280", "daemon API address")
	cmd.PersistentFlags().StringVar(&testLevel, "log-level", "info", "log level")

	t.Setenv("QUILL_DAEMON_ADDR", "127.0.0.1:60000")
	t.Setenv("QUILL_LOG_LEVEL", "debug")

	err := cmd.Execute()
	if err != nil {
		t.Fatalf("expected no error while running quill command, got %v", err)
	}
	if testAddr != "127.0.0.1:60000" {
		t.Errorf("expected 127.0.0.1:60000, got %s", testAddr)
	}
	if testLevel != "debug" {
		t.Errorf("expected debug, got %s", testLevel)
	}
}
