package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/kardianos/service"
	"github.com/spf13/cobra"
)

// buildServiceArguments assembles the command line the service manager
// launches the daemon with, carrying the current flag values along.
func buildServiceArguments() []string {
	args := []string{
		"service",
		"run",
		"--log-level",
		logLevel,
		"--daemon-addr",
		daemonAddr,
	}

	if configPath != "" {
		args = append(args, "--config", configPath)
	}

	if logFile != "" {
		args = append(args, "--log-file", logFile)
	}

	return args
}

// configurePlatformSpecificSettings adjusts the service config per OS.
func configurePlatformSpecificSettings(svcConfig *service.Config) {
	if runtime.GOOS == "linux" {
		// Respected only by systemd systems
		svcConfig.Dependencies = []string{"After=network.target syslog.target"}

		if logFile != "" && logFile != "console" {
			dir := filepath.Dir(logFile)
			if err := os.MkdirAll(dir, 0750); err == nil {
				svcConfig.Option["LogOutput"] = true
				svcConfig.Option["LogDirectory"] = dir
			}
		}
	}

	if runtime.GOOS == "windows" {
		svcConfig.Option["OnFailure"] = "restart"
	}
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "installs the Quill service",
	RunE: func(cmd *cobra.Command, args []string) error {
		SetFlagsFromEnvVars(rootCmd)
		cmd.SetOut(cmd.OutOrStdout())

		svcConfig := newSVCConfig()
		svcConfig.Arguments = buildServiceArguments()
		configurePlatformSpecificSettings(svcConfig)

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		s, err := newSVC(newProgram(ctx, cancel), svcConfig)
		if err != nil {
			return err
		}

		if err := s.Install(); err != nil {
			return fmt.Errorf("install service: %w", err)
		}

		cmd.Println("Quill service has been installed")
		return nil
	},
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "uninstalls the Quill service from the system",
	RunE: func(cmd *cobra.Command, args []string) error {
		SetFlagsFromEnvVars(rootCmd)
		cmd.SetOut(cmd.OutOrStdout())

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		s, err := newSVC(newProgram(ctx, cancel), newSVCConfig())
		if err != nil {
			return err
		}

		if err := s.Uninstall(); err != nil {
			return fmt.Errorf("uninstall service: %w", err)
		}

		cmd.Println("Quill service has been uninstalled")
		return nil
	},
}
