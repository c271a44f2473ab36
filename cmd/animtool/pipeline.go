package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/gltfanim/internal/anim"
	"github.com/Faultbox/gltfanim/internal/config"
	"github.com/Faultbox/gltfanim/internal/export"
	"github.com/Faultbox/gltfanim/internal/gltfsrc"
	"github.com/Faultbox/gltfanim/internal/logger"
)

// result is one resampled asset.
type result struct {
	Library  *anim.Library
	Document *export.Document
}

// resampleFile reads every clip of the asset at path and resamples it with
// the settings in cfg.
func resampleFile(ctx context.Context, path string, cfg *config.Config, log *zap.Logger) (*result, error) {
	opts, err := cfg.AnimOptions()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.L()
	}
	opts.Logger = log

	src, err := gltfsrc.Open(path, log)
	if err != nil {
		return nil, err
	}
	clips, err := src.Clips()
	if err != nil {
		return nil, err
	}

	lib, err := anim.Resample(ctx, clips, opts)
	if err != nil {
		return nil, fmt.Errorf("resample %s: %w", path, err)
	}

	doc := export.FromLibrary(lib, export.Options{
		Source:       path,
		Mode:         opts.Mode,
		TargetCoords: opts.TargetCoords,
	})

	if cfg.Resample.StaticEuler {
		poses, err := src.StaticTransforms()
		if err != nil {
			return nil, err
		}
		nodes := make([]int, len(src.Document().Nodes))
		for i := range nodes {
			nodes[i] = i
		}
		doc.AddStatic(nodes, poses)
	}

	return &result{Library: lib, Document: doc}, nil
}
