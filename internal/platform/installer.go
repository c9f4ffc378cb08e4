package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/quillchat/desktop/util"
)

// InstallArtifact applies a staged update artifact by swapping the running
// executable. The previous binary stays in place as a backup until the swap
// succeeded, so a failed install leaves the application runnable. The
// running process keeps the old file open; the new binary takes effect on
// the next launch.
func InstallArtifact(ctx context.Context, artifactPath string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}

	return replaceExecutable(artifactPath, execPath)
}

func replaceExecutable(artifactPath, execPath string) error {
	// copy first: the staging dir may live on another filesystem, where a
	// direct rename would fail
	stagedPath := execPath + ".new"
	if err := util.CopyFileContents(artifactPath, stagedPath); err != nil {
		return fmt.Errorf("stage artifact next to executable: %w", err)
	}
	if err := os.Chmod(stagedPath, 0755); err != nil {
		_ = os.Remove(stagedPath)
		return fmt.Errorf("mark artifact executable: %w", err)
	}

	backupPath := execPath + ".bak"
	if err := os.Rename(execPath, backupPath); err != nil {
		_ = os.Remove(stagedPath)
		return fmt.Errorf("back up executable: %w", err)
	}

	if err := os.Rename(stagedPath, execPath); err != nil {
		if restoreErr := os.Rename(backupPath, execPath); restoreErr != nil {
			log.Errorf("failed restoring %s from backup: %v", execPath, restoreErr)
		}
		_ = os.Remove(stagedPath)
		return fmt.Errorf("replace executable: %w", err)
	}

	if err := os.Remove(backupPath); err != nil {
		log.Debugf("failed removing backup %s: %v", backupPath, err)
	}

	return nil
}
