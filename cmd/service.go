package cmd

import (
	"context"
	"sync"

	"github.com/kardianos/service"
	"github.com/spf13/cobra"

	"github.com/quillchat/desktop/internal/server"
	"github.com/quillchat/desktop/internal/updater"
)

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage the Quill daemon service",
}

type program struct {
	ctx    context.Context
	cancel context.CancelFunc

	serverMu sync.Mutex
	server   *server.Server
	manager  *updater.Manager
}

func newProgram(ctx context.Context, cancel context.CancelFunc) *program {
	return &program{ctx: ctx, cancel: cancel}
}

func newSVCConfig() *service.Config {
	return &service.Config{
		Name:        serviceName,
		DisplayName: "Quill",
		Description: "Quill desktop messaging daemon",
		Option:      make(service.KeyValue),
	}
}

func newSVC(prg *program, conf *service.Config) (service.Service, error) {
	return service.New(prg, conf)
}
