package main

import (
	"context"
	"errors"
	"io/fs"

	"github.com/philipparndt/gotakeoff/internal/document"
	"github.com/philipparndt/gotakeoff/internal/engine"
	"github.com/philipparndt/gotakeoff/internal/project"
	"github.com/sirupsen/logrus"
)

// openTakeoff loads page of pdf and restores the takeoff saved in
// projectPath. An empty projectPath uses the sidecar next to pdf if there
// is one.
func openTakeoff(ctx context.Context, pdf string, page int, projectPath string, log *logrus.Entry) (*engine.Engine, document.Source, error) {
	src := cfg.Poppler(pdf)
	info, err := src.Info(ctx)
	if err != nil {
		return nil, nil, err
	}

	e := engine.New(cfg.EngineOptions(log))
	if err := e.LoadDocument(info, page); err != nil {
		return nil, nil, err
	}

	explicit := projectPath != ""
	if !explicit {
		projectPath = cfg.ProjectPath(pdf)
	}
	f, err := project.Load(projectPath)
	switch {
	case err == nil:
	case !explicit && errors.Is(err, fs.ErrNotExist):
		return e, src, nil
	default:
		return nil, nil, err
	}

	state, err := f.RestoreState()
	if err != nil {
		return nil, nil, err
	}
	if err := e.Restore(state); err != nil {
		return nil, nil, err
	}
	log.WithField("project", projectPath).Info("takeoff restored")
	return e, src, nil
}
