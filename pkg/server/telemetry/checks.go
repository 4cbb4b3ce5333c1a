package telemetry

import (
	"github.com/heptiolabs/healthcheck"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// DirectoryReadableCheck fails when dir cannot be listed.
func DirectoryReadableCheck(fs afero.Fs, dir string) healthcheck.Check {
	return func() error {
		if _, err := afero.ReadDir(fs, dir); err != nil {
			return errors.Wrapf(err, "unable to read directory %s", dir)
		}
		return nil
	}
}
