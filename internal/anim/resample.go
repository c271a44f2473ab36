package anim

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options controls Resample.
type Options struct {
	Mode SamplingMode
	// Workers bounds the clips and the nodes per clip processed at once.
	// Zero or less uses GOMAXPROCS.
	Workers int
	// TargetCoords remaps every frame to the engine convention after merging.
	TargetCoords bool
	Logger       *zap.Logger
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Library is the result of resampling a set of clips.
type Library struct {
	// Clips holds the clip names in input order.
	Clips []string
	// Tracks holds every merged track, by clip order then node id.
	Tracks []Track
	// Warnings collects channels that were skipped.
	Warnings []Warning

	byNode map[int][]Track
}

// ByNode returns the tracks of node across all clips, in clip order.
func (l *Library) ByNode(node int) []Track {
	return l.byNode[node]
}

// Nodes returns the ids of all animated nodes in ascending order.
func (l *Library) Nodes() []int {
	ids := make([]int, 0, len(l.byNode))
	for id := range l.byNode {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Duration returns the longest track duration in the clip at index clip.
func (l *Library) Duration(clip int) float32 {
	var d float32
	for _, t := range l.Tracks {
		if t.ClipIndex == clip && t.Duration > d {
			d = t.Duration
		}
	}
	return d
}

// ResampleClip extracts one clip and merges each of its nodes in parallel.
// Tracks are returned sorted by node id.
func ResampleClip(ctx context.Context, clip Clip, opts Options) ([]Track, []Warning, error) {
	log := opts.logger().With(zap.String("clip", clip.Name))

	nodes, warnings := Extract(clip, log)

	ids := make([]int, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	tracks := make([]Track, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())

	for i, id := range ids {
		nc := nodes[id]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tr, err := Merge(clip.Name, nc, opts.Mode)
			if err != nil {
				return err
			}
			if opts.TargetCoords {
				if tr, err = tr.ToTargetCoords(); err != nil {
					return fmt.Errorf("clip %q node %d: %w", clip.Name, id, err)
				}
			}
			tracks[i] = tr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, warnings, err
	}

	log.Debug("clip resampled", zap.Int("nodes", len(tracks)), zap.Int("warnings", len(warnings)))
	return tracks, warnings, nil
}

// Resample processes every clip in parallel and joins the results. The
// output does not depend on scheduling. The first failing clip cancels the
// rest and its error is returned.
func Resample(ctx context.Context, clips []Clip, opts Options) (*Library, error) {
	type result struct {
		tracks   []Track
		warnings []Warning
	}
	results := make([]result, len(clips))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())

	for i := range clips {
		g.Go(func() error {
			tracks, warnings, err := ResampleClip(ctx, clips[i], opts)
			if err != nil {
				return err
			}
			results[i] = result{tracks: tracks, warnings: warnings}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lib := &Library{byNode: make(map[int][]Track)}
	for i, r := range results {
		lib.Clips = append(lib.Clips, clips[i].Name)
		lib.Warnings = append(lib.Warnings, r.warnings...)
		for _, tr := range r.tracks {
			tr.ClipIndex = i
			lib.Tracks = append(lib.Tracks, tr)
			lib.byNode[tr.Node] = append(lib.byNode[tr.Node], tr)
		}
	}

	opts.logger().Info("resampled animations",
		zap.Int("clips", len(lib.Clips)),
		zap.Int("tracks", len(lib.Tracks)),
		zap.Int("warnings", len(lib.Warnings)))
	return lib, nil
}
