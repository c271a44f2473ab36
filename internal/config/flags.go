package config

import "flag"

// Flags holds the command-line overrides shared by every subcommand.
type Flags struct {
	Config  string
	Debug   bool
	Mode    string
	Workers int
	Cache   string
	Euler   bool
	Source  bool
}

// RegisterFlags adds the shared flags to fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.Mode, "mode", "", "Sampling mode: bracketed or legacy")
	fs.IntVar(&f.Workers, "workers", 0, "Parallel workers (0 = config value)")
	fs.StringVar(&f.Cache, "cache", "", "Cache database path (enables the cache)")
	fs.BoolVar(&f.Euler, "euler", false, "Export rest poses as ZYX Euler angles")
	fs.BoolVar(&f.Source, "source-coords", false, "Keep glTF coordinates instead of remapping")
	return f
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config, f *Flags) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Mode != "" {
		cfg.Resample.Mode = f.Mode
	}
	if f.Workers > 0 {
		cfg.Resample.Workers = f.Workers
	}
	if f.Cache != "" {
		cfg.Cache.Enabled = true
		cfg.Cache.Path = f.Cache
	}
	if f.Euler {
		cfg.Resample.StaticEuler = true
	}
	if f.Source {
		cfg.Resample.TargetCoords = false
	}
}
