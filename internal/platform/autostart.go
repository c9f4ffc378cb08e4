package platform

import (
	"errors"
	"fmt"

	"github.com/kardianos/service"
)

// noopProgram satisfies service.Interface for control-only operations.
type noopProgram struct{}

func (noopProgram) Start(service.Service) error { return nil }
func (noopProgram) Stop(service.Service) error  { return nil }

// Autostart registers the daemon with the per-user service manager so it
// launches at login.
type Autostart struct {
	config *service.Config
}

// NewAutostart builds an autostart entry that launches the current binary
// with the given arguments.
func NewAutostart(name, displayName string, arguments []string) *Autostart {
	return &Autostart{
		config: &service.Config{
			Name:        name,
			DisplayName: displayName,
			Description: displayName + " desktop shell",
			Arguments:   arguments,
			Option: service.KeyValue{
				"UserService": true,
			},
		},
	}
}

// Enable installs the login entry.
func (a *Autostart) Enable() error {
	svc, err := service.New(noopProgram{}, a.config)
	if err != nil {
		return err
	}
	if err := svc.Install(); err != nil {
		return fmt.Errorf("install autostart entry: %w", err)
	}
	return nil
}

// Disable removes the login entry. Removing an absent entry is not an error.
func (a *Autostart) Disable() error {
	svc, err := service.New(noopProgram{}, a.config)
	if err != nil {
		return err
	}
	if err := svc.Uninstall(); err != nil {
		if errors.Is(err, service.ErrNotInstalled) {
			return nil
		}
		return fmt.Errorf("uninstall autostart entry: %w", err)
	}
	return nil
}

// Enabled reports whether the login entry exists.
func (a *Autostart) Enabled() (bool, error) {
	svc, err := service.New(noopProgram{}, a.config)
	if err != nil {
		return false, err
	}
	if _, err := svc.Status(); err != nil {
		if errors.Is(err, service.ErrNotInstalled) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
