package config

import "flag"

// Flags holds the config-override flags shared by all subcommands.
type Flags struct {
	configPath  *string
	debug       *bool
	logFile     *string
	gust        *float64
	groundCover *bool
}

// RegisterFlags registers the shared override flags on a subcommand's
// flag set. Call Apply after parsing.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		configPath:  fs.String("config", "", "Path to config file"),
		debug:       fs.Bool("debug", false, "Enable debug logging"),
		logFile:     fs.String("log-file", "", "Write logs to file"),
		gust:        fs.Float64("gust", -1, "Gust attenuation override"),
		groundCover: fs.Bool("groundcover", false, "Mark the asset as ground cover"),
	}
}

// ConfigPath returns the explicit config path, if provided.
func (f *Flags) ConfigPath() string {
	return *f.configPath
}

// Apply applies flag overrides to the config (highest priority).
func (f *Flags) Apply(cfg *Config) {
	if *f.debug {
		cfg.Logging.Level = "debug"
	}
	if *f.logFile != "" {
		cfg.Logging.LogFile = *f.logFile
	}
	if *f.gust >= 0 {
		cfg.Wind.GustAttenuation = *f.gust
	}
	if *f.groundCover {
		cfg.Wind.GroundCover = true
	}
}
