package render

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/arthur-debert/petridish/pkg/errors"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/rs/zerolog"
)

const (
	stagePrefix   = ".petridish-stage-"
	staleStageAge = 24 * time.Hour
)

// commit writes res.write into a staging directory and moves the result
// into the destination. The staging directory is removed in every case.
//
// The staging directory is created in the nearest existing parent of the
// destination root, falling back to the system temp dir, so that the final
// move is a rename. With an output of "." that is the parent of the working
// directory. Staging directories older than a day left there by killed runs
// are removed.
func (r *Renderer) commit(plan *Plan, res *resolution) error {
	if len(res.write) == 0 {
		if err := r.fs.MkdirAll(r.destinationRoot, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrIO, "cannot create destination %s", r.destinationRoot).
				WithDetail(errors.DetailPath, r.destinationRoot)
		}
		return nil
	}

	stageRoot, err := r.makeStage()
	if err != nil {
		return err
	}
	defer func() {
		if err := os.RemoveAll(stageRoot); err != nil {
			r.logger.Warn().Err(err).Str("stage", stageRoot).Msg("Failed to remove staging directory")
		}
	}()

	if err := r.stage(stageRoot, res.write); err != nil {
		return err
	}
	return r.promote(stageRoot, plan.EntryDir, res.write)
}

// makeStage creates the staging directory next to the destination root so
// the final move is a rename on the same filesystem. It never lives inside
// the destination root.
func (r *Renderer) makeStage() (string, error) {
	var lastErr error
	for _, parent := range []string{nearestExistingParent(r.destinationRoot), os.TempDir()} {
		if parent == "" {
			continue
		}
		sweepStaleStages(parent, time.Now(), r.logger)
		dir, err := os.MkdirTemp(parent, stagePrefix+"*")
		if err == nil {
			r.logger.Debug().Str("stage", dir).Msg("Created staging directory")
			return dir, nil
		}
		lastErr = err
		r.logger.Debug().Err(err).Str("parent", parent).Msg("Cannot create staging directory here")
	}
	return "", errors.Wrap(lastErr, errors.ErrIO, "cannot create staging directory")
}

// stage writes every entry below stageRoot as one synthfs pipeline.
func (r *Renderer) stage(stageRoot string, entries []Entry) error {
	sfs := synthfs.New()
	ops := make([]synthfs.Operation, 0, len(entries))

	for i, e := range entries {
		e := e
		target := filepath.Join(stageRoot, filepath.FromSlash(e.RelPath))
		id := fmt.Sprintf("stage_%04d_%s", i, e.RelPath)

		ops = append(ops, sfs.CustomOperationWithID(id, func(ctx context.Context, fsys filesystem.FileSystem) error {
			if err := fsys.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("failed to create directory for %s: %w", e.RelPath, err)
			}
			if e.Kind == KindSymlink {
				// Link targets are reproduced byte for byte, so they skip
				// the path-aware synthfs layer.
				return r.fs.Symlink(e.LinkTarget, target)
			}
			return fsys.WriteFile(target, e.Content, fileMode(e.Mode))
		}))
	}

	options := synthfs.DefaultPipelineOptions()
	options.RollbackOnError = true

	r.logger.Debug().Int("operationCount", len(ops)).Msg("Staging rendered entries")
	if _, err := synthfs.RunWithOptions(context.Background(), r.stageFS, options, ops...); err != nil {
		return errors.Wrap(err, errors.ErrIO, "failed to stage rendered files")
	}
	return nil
}

// promote moves staged entries into the destination. A fresh entry
// directory is moved with a single rename; otherwise each entry is renamed
// into place on its own.
func (r *Renderer) promote(stageRoot, entryDir string, entries []Entry) error {
	if err := r.fs.MkdirAll(r.destinationRoot, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot create destination %s", r.destinationRoot).
			WithDetail(errors.DetailPath, r.destinationRoot)
	}

	target := r.destPath(entryDir)
	state, err := r.lstatState(target)
	if err != nil {
		return err
	}
	if state == stateMissing {
		err := r.fs.Rename(filepath.Join(stageRoot, entryDir), target)
		if err == nil {
			return nil
		}
		if !isCrossDevice(err) {
			return errors.Wrapf(err, errors.ErrIO, "cannot move %s into place", entryDir).
				WithDetail(errors.DetailPath, entryDir)
		}
		r.logger.Debug().Msg("Staging directory is on another device, moving entries one by one")
	}

	for _, e := range entries {
		if err := r.moveEntry(stageRoot, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) moveEntry(stageRoot string, e Entry) error {
	src := filepath.Join(stageRoot, filepath.FromSlash(e.RelPath))
	dst := r.destPath(e.RelPath)

	if err := r.fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot create directory for %s", e.RelPath).
			WithDetail(errors.DetailPath, e.RelPath)
	}

	err := r.fs.Rename(src, dst)
	if err != nil && isCrossDevice(err) {
		err = r.replaceAcross(dst, e)
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot write %s", e.RelPath).
			WithDetail(errors.DetailPath, e.RelPath)
	}
	return nil
}

// replaceAcross recreates e in a temporary sibling of dst and renames it over
// dst, for when the staging directory is on another device.
func (r *Renderer) replaceAcross(dst string, e Entry) error {
	tmp := filepath.Join(filepath.Dir(dst), fmt.Sprintf(".%s.petridish-tmp-%d", filepath.Base(dst), time.Now().UnixNano()))

	var err error
	if e.Kind == KindSymlink {
		err = r.fs.Symlink(e.LinkTarget, tmp)
	} else {
		err = r.fs.WriteFile(tmp, e.Content, fileMode(e.Mode))
	}
	if err == nil {
		err = r.fs.Rename(tmp, dst)
	}
	if err != nil {
		_ = r.fs.Remove(tmp)
	}
	return err
}

func fileMode(m fs.FileMode) fs.FileMode {
	if m == 0 {
		return 0644
	}
	return m
}

func isCrossDevice(err error) bool {
	return stderrors.Is(err, syscall.EXDEV)
}

// nearestExistingParent returns the closest existing directory above p, or
// "" if there is none.
func nearestExistingParent(p string) string {
	dir := filepath.Dir(p)
	for {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// sweepStaleStages removes staging directories left behind by killed runs.
func sweepStaleStages(parent string, now time.Time, logger zerolog.Logger) {
	entries, err := os.ReadDir(parent)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), stagePrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil || now.Sub(info.ModTime()) < staleStageAge {
			continue
		}
		stale := filepath.Join(parent, entry.Name())
		if err := os.RemoveAll(stale); err != nil {
			logger.Warn().Err(err).Str("stage", stale).Msg("Failed to remove stale staging directory")
			continue
		}
		logger.Info().Str("stage", stale).Msg("Removed stale staging directory")
	}
}
