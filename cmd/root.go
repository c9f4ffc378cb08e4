package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/quillchat/desktop/internal/client/rest"
	"github.com/quillchat/desktop/internal/config"
)

const daemonProbeTimeout = 3 * time.Second

var (
	configPath           string
	defaultConfigPathDir string
	defaultConfigPath    string
	logLevel             string
	defaultLogFileDir    string
	defaultLogFile       string
	logFile              string
	daemonAddr           string
	serviceName          string

	rootCmd = &cobra.Command{
		Use:          "quill",
		Short:        "",
		Long:         "",
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	defaultConfigPathDir = "/etc/quill/"
	defaultLogFileDir = "/var/log/quill/"

	switch runtime.GOOS {
	case "windows":
		defaultConfigPathDir = os.Getenv("PROGRAMDATA") + "\\Quill\\"
		defaultLogFileDir = os.Getenv("PROGRAMDATA") + "\\Quill\\"
	case "darwin":
		defaultConfigPathDir = "/Library/Application Support/Quill/"
	}

	defaultConfigPath = defaultConfigPathDir + "config.json"
	defaultLogFile = defaultLogFileDir + "daemon.log"

	defaultServiceName := "quill"
	if runtime.GOOS == "windows" {
		defaultServiceName = "Quill"
	}

	rootCmd.PersistentFlags().StringVar(&daemonAddr, "daemon-addr", config.DefaultAPIListenAddress, "Daemon API address to serve CLI requests [host:port]")
	rootCmd.PersistentFlags().StringVarP(&serviceName, "service", "s", defaultServiceName, "Quill system service name")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "Quill config file location")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "sets Quill log level")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", defaultLogFile, "sets Quill log path. If console is specified the log will be output to stdout")

	rootCmd.AddCommand(serviceCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(openURLCmd)
	rootCmd.AddCommand(versionCmd)

	serviceCmd.AddCommand(runCmd, startCmd, stopCmd, restartCmd) // service control commands are subcommands of service
	serviceCmd.AddCommand(installCmd, uninstallCmd)              // service installer commands are subcommands of service

	updateCmd.AddCommand(updateCheckCmd, updateInstallCmd)
}

// SetupCloseHandler handles SIGTERM signal and exits with success
func SetupCloseHandler(ctx context.Context, cancel context.CancelFunc) {
	termCh := make(chan os.Signal, 1)
	signal.Notify(termCh, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		done := ctx.Done()
		select {
		case <-done:
		case <-termCh:
		}

		log.Info("shutdown signal received")
		cancel()
	}()
}

// SetFlagsFromEnvVars reads and updates flag values from environment variables with prefix QUILL_
func SetFlagsFromEnvVars(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.VisitAll(func(f *pflag.Flag) {
		envVar := FlagNameToEnvVar(f.Name, "QUILL_")

		if value, present := os.LookupEnv(envVar); present {
			err := flags.Set(f.Name, value)
			if err != nil {
				log.Infof("unable to configure flag %s using variable %s, err: %v", f.Name, envVar, err)
			}
		}
	})
}

// FlagNameToEnvVar converts flag name to environment var name adding a prefix,
// replacing dashes and making all uppercase (e.g. log-level is converted to QUILL_LOG_LEVEL according to the input prefix)
func FlagNameToEnvVar(cmdFlag string, prefix string) string {
	parsed := strings.ReplaceAll(cmdFlag, "-", "_")
	upper := strings.ToUpper(parsed)
	return prefix + upper
}

// WithBackOff execute function in backoff cycle.
func WithBackOff(bf func() error) error {
	return backoff.RetryNotify(bf, CLIBackOffSettings, func(err error, duration time.Duration) {
		log.Warnf("retrying connection to the daemon in %v due to error %v", duration, err)
	})
}

// CLIBackOffSettings is default backoff settings for CLI commands.
var CLIBackOffSettings = &backoff.ExponentialBackOff{
	InitialInterval:     time.Second,
	RandomizationFactor: backoff.DefaultRandomizationFactor,
	Multiplier:          backoff.DefaultMultiplier,
	MaxInterval:         10 * time.Second,
	MaxElapsedTime:      30 * time.Second,
	Stop:                backoff.Stop,
	Clock:               backoff.SystemClock,
}

// getClient returns a daemon API client after verifying the daemon answers.
func getClient(cmd *cobra.Command) (*rest.Client, error) {
	SetFlagsFromEnvVars(rootCmd)
	cmd.SetOut(cmd.OutOrStdout())

	client := rest.New(daemonAddr)

	ctx, cancel := context.WithTimeout(cmd.Context(), daemonProbeTimeout)
	defer cancel()
	if _, err := client.Status(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to daemon error: %v\n"+
			"If the daemon is not running please run: "+
			"\nquill service install \nquill service start\n", err)
	}

	return client, nil
}
