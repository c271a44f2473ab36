// animtool is a CLI utility for resampling glTF animations into per-node
// frame tracks.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/Faultbox/gltfanim/internal/config"
	"github.com/Faultbox/gltfanim/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch command {
	case "info":
		err = cmdInfo(args)
	case "resample", "rs":
		err = cmdResample(ctx, args)
	case "euler":
		err = cmdEuler(args)
	case "cache":
		err = cmdCache(ctx, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`animtool - glTF animation resampler

Usage:
  animtool <command> [options]

Commands:
  info <file.gltf>                        Show animations and animated nodes
  resample <file.gltf> [-o out] [-dump]   Resample every clip into per-node tracks
  euler <x> <y> <z> <w>                   Convert a quaternion to ZYX Euler angles
  cache save <file.gltf>...               Resample files and store them in the cache
  cache load <file.gltf> [-o out]         Print a cached document

Common options:
  -config <path>    Config file
  -debug            Debug logging
  -mode <mode>      Sampling mode: bracketed or legacy
  -workers <n>      Parallel workers
  -cache <path>     Cache database (enables the cache)
  -euler            Export node rest poses as ZYX Euler angles
  -source-coords    Keep glTF coordinates

Examples:
  animtool info robot.glb
  animtool resample -o robot.yaml robot.glb
  animtool resample -mode legacy robot.glb
  animtool euler 0 0.7071 0 0.7071
  animtool cache save -cache anim.db a.glb b.glb`)
}

// setup parses a subcommand's flags, loads the config and starts logging.
func setup(fs *flag.FlagSet, args []string) (*config.Config, error) {
	flags := config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return nil, err
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, nil
}
