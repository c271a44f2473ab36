package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/davecgh/go-spew/spew"

	"github.com/Faultbox/gltfanim/internal/anim"
	"github.com/Faultbox/gltfanim/internal/cache"
	"github.com/Faultbox/gltfanim/internal/export"
	"github.com/Faultbox/gltfanim/internal/gltfsrc"
	"github.com/Faultbox/gltfanim/internal/logger"
	"github.com/Faultbox/gltfanim/pkg/math"
)

func cmdInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	if _, err := setup(fs, args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("usage: animtool info <file.gltf>")
	}

	src, err := gltfsrc.Open(fs.Arg(0), logger.Named("gltf"))
	if err != nil {
		return err
	}
	clips, err := src.Clips()
	if err != nil {
		return err
	}

	fmt.Printf("Asset:      %s\n", fs.Arg(0))
	fmt.Printf("Nodes:      %d\n", len(src.Document().Nodes))
	fmt.Printf("Animations: %d\n", len(clips))
	fmt.Println()

	for _, c := range clips {
		nodes := make(map[int]int)
		for _, ch := range c.Channels {
			nodes[ch.Node]++
		}
		ids := make([]int, 0, len(nodes))
		for id := range nodes {
			ids = append(ids, id)
		}
		sort.Ints(ids)

		fmt.Printf("%s (%d channels)\n", c.Name, len(c.Channels))
		for _, id := range ids {
			fmt.Printf("  node %-4d %d channels\n", id, nodes[id])
		}
	}
	return nil
}

func cmdResample(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("resample", flag.ExitOnError)
	output := fs.String("o", "", "Output file (default stdout)")
	dump := fs.Bool("dump", false, "Dump merged tracks to stderr")
	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("usage: animtool resample <file.gltf> [-o out.yaml] [-dump]")
	}
	path := fs.Arg(0)

	res, err := resampleFile(ctx, path, cfg, logger.Named("resample"))
	if err != nil {
		return err
	}
	if *dump {
		spew.Fdump(os.Stderr, res.Library.Tracks)
	}

	data, err := export.Marshal(res.Document)
	if err != nil {
		return err
	}
	if err := writeOutput(*output, data); err != nil {
		return err
	}

	if cfg.Cache.Enabled {
		store, err := cache.Open(cfg.Cache.Path, logger.Named("cache"))
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Put(path, data); err != nil {
			return err
		}
	}

	logger.Info("resample complete")
	return nil
}

func cmdEuler(args []string) error {
	fs := flag.NewFlagSet("euler", flag.ExitOnError)
	remap := fs.Bool("remap", false, "Remap from glTF to engine coordinates first")
	if _, err := setup(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 4 {
		return errors.New("usage: animtool euler [-remap] <x> <y> <z> <w>")
	}

	var c [4]float32
	for i := range c {
		v, err := strconv.ParseFloat(fs.Arg(i), 32)
		if err != nil {
			return fmt.Errorf("component %d: %w", i, err)
		}
		c[i] = float32(v)
	}
	q := math.QuatFromArray(c)

	if *remap {
		t := anim.IdentityTransform()
		t.Rotation = anim.QuaternionRotation(q)
		out, err := t.ToTargetCoords(false)
		if err != nil {
			return err
		}
		e := out.Rotation.Euler
		fmt.Printf("zyx: %.4f %.4f %.4f\n", e.X, e.Y, e.Z)
		return nil
	}

	e := math.QuatToEulerZYX(q)
	alt := math.QuatToEulerZYXAlt(q)
	fmt.Printf("zyx: %.4f %.4f %.4f\n", e.X, e.Y, e.Z)
	fmt.Printf("alt: %.4f %.4f %.4f\n", alt.X, alt.Y, alt.Z)
	return nil
}

func cmdCache(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: animtool cache save|load ...")
	}

	switch args[0] {
	case "save":
		return cmdCacheSave(ctx, args[1:])
	case "load":
		return cmdCacheLoad(args[1:])
	}
	return fmt.Errorf("unknown cache command: %s", args[0])
}

func cmdCacheSave(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("cache save", flag.ExitOnError)
	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("usage: animtool cache save <file.gltf>...")
	}

	entries := make(map[string][]byte, fs.NArg())
	for _, path := range fs.Args() {
		res, err := resampleFile(ctx, path, cfg, logger.Named("resample"))
		if err != nil {
			return err
		}
		data, err := export.Marshal(res.Document)
		if err != nil {
			return err
		}
		entries[path] = data
	}

	store, err := cache.Open(cfg.Cache.Path, logger.Named("cache"))
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveAll(entries); err != nil {
		return err
	}
	fmt.Printf("Cached %d models in %s\n", len(entries), cfg.Cache.Path)
	return nil
}

func cmdCacheLoad(args []string) error {
	fs := flag.NewFlagSet("cache load", flag.ExitOnError)
	output := fs.String("o", "", "Output file (default stdout)")
	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("usage: animtool cache load <file.gltf> [-o out.yaml]")
	}

	store, err := cache.Open(cfg.Cache.Path, logger.Named("cache"))
	if err != nil {
		return err
	}
	defer store.Close()

	data, err := store.Get(fs.Arg(0))
	if errors.Is(err, cache.ErrNotFound) {
		return fmt.Errorf("%s is not cached", fs.Arg(0))
	}
	if err != nil {
		return err
	}

	// Reject entries written by an incompatible version.
	if _, err := export.Unmarshal(data); err != nil {
		return err
	}
	return writeOutput(*output, data)
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}
