package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/kardianos/service"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/quillchat/desktop/internal/config"
	"github.com/quillchat/desktop/internal/events"
	"github.com/quillchat/desktop/internal/platform"
	"github.com/quillchat/desktop/internal/server"
	"github.com/quillchat/desktop/internal/shell"
	"github.com/quillchat/desktop/internal/updater"
	"github.com/quillchat/desktop/util"
	"github.com/quillchat/desktop/version"
)

func (p *program) Start(svc service.Service) error {
	// Start should not block. Do the actual work async.
	log.Info("starting Quill daemon")
	go func() {
		if err := p.run(); err != nil {
			log.Errorf("daemon failed: %v", err)
			p.cancel()
		}
	}()
	return nil
}

func (p *program) Stop(svc service.Service) error {
	p.cancel()

	p.serverMu.Lock()
	defer p.serverMu.Unlock()

	if p.manager != nil {
		p.manager.Stop()
	}
	if p.server != nil {
		if err := p.server.Stop(); err != nil {
			log.Warnf("failed stopping API server: %v", err)
		}
	}

	log.Info("stopped Quill daemon")
	return nil
}

// run assembles the daemon: config, event bridge, update manager, shell
// router and the loopback API server.
func (p *program) run() error {
	cfg, err := readRunConfig()
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	bridge := events.NewBridge()

	manager := updater.NewManager(bridge, updater.Options{
		Endpoint:            cfg.UpdateEndpoint,
		CurrentVersion:      version.Version(),
		UserAgent:           version.DesktopUserAgent(),
		StartupCheckDelay:   time.Duration(cfg.UpdateCheckDelaySeconds) * time.Second,
		DisableStartupCheck: cfg.DisableAutoUpdateCheck,
	})

	autostart := platform.NewAutostart(serviceName+"-autostart", "Quill", []string{"service", "run"})
	shellRouter := shell.NewRouter(bridge, autostart)
	if err := shellRouter.SyncAutostart(cfg.LaunchOnLogin); err != nil {
		log.Warnf("failed syncing autostart with config: %v", err)
	}

	srv := server.New(cfg, bridge, manager, shellRouter)
	if err := srv.Start(); err != nil {
		return fmt.Errorf("start API server: %w", err)
	}

	p.serverMu.Lock()
	p.server = srv
	p.manager = manager
	p.serverMu.Unlock()

	manager.Start(p.ctx)

	log.Infof("started Quill daemon %s, API on %s", version.Version(), srv.Addr())
	return nil
}

// readRunConfig loads the config file, creating it on first run, and folds
// explicitly set flags or env vars into it.
func readRunConfig() (*config.Config, error) {
	input := config.ConfigInput{ConfigPath: configPath}

	if runCmd.Flag("daemon-addr").Changed {
		input.APIListenAddress = daemonAddr
	}
	if runCmd.Flag("log-level").Changed {
		input.LogLevel = logLevel
	}
	if runCmd.Flag("log-file").Changed {
		input.LogFile = logFile
	}

	return config.UpdateOrCreateConfig(input)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "runs the Quill daemon in the foreground",
	RunE: func(cmd *cobra.Command, args []string) error {
		SetFlagsFromEnvVars(rootCmd)
		cmd.SetOut(cmd.OutOrStdout())

		if err := util.InitLog(logLevel, logFile); err != nil {
			return fmt.Errorf("failed initializing log %v", err)
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		s, err := newSVC(newProgram(ctx, cancel), newSVCConfig())
		if err != nil {
			cmd.PrintErrln(err)
			return err
		}
		if err := s.Run(); err != nil {
			cmd.PrintErrln(err)
			return err
		}
		return nil
	},
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "starts the Quill service",
	RunE: func(cmd *cobra.Command, args []string) error {
		SetFlagsFromEnvVars(rootCmd)
		cmd.SetOut(cmd.OutOrStdout())

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		s, err := newSVC(newProgram(ctx, cancel), newSVCConfig())
		if err != nil {
			return err
		}
		if err := s.Start(); err != nil {
			return err
		}
		cmd.Println("Quill service has been started")
		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "stops the Quill service",
	RunE: func(cmd *cobra.Command, args []string) error {
		SetFlagsFromEnvVars(rootCmd)
		cmd.SetOut(cmd.OutOrStdout())

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		s, err := newSVC(newProgram(ctx, cancel), newSVCConfig())
		if err != nil {
			return err
		}
		if err := s.Stop(); err != nil {
			return err
		}
		cmd.Println("Quill service has been stopped")
		return nil
	},
}

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "restarts the Quill service",
	RunE: func(cmd *cobra.Command, args []string) error {
		SetFlagsFromEnvVars(rootCmd)
		cmd.SetOut(cmd.OutOrStdout())

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		s, err := newSVC(newProgram(ctx, cancel), newSVCConfig())
		if err != nil {
			return err
		}
		if err := s.Restart(); err != nil {
			return err
		}
		cmd.Println("Quill service has been restarted")
		return nil
	},
}
