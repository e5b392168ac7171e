package cmd

import (
	"github.com/bmc"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const unset = "-"

type Flags struct {
	Paths    bmc.StandardPaths
	Config   string
	Set      string
	LogLevel string
}

// env is filled in before any subcommand runs.
type env struct {
	flags      Flags
	conf       *bmc.Configuration
	store      *bmc.Store
	translator *bmc.Translator
}

func (e *env) load(cmd *cobra.Command) error {
	f := &e.flags

	// 1. bind the paths. Overrides defaults.
	bmc.BindStandardPaths(&f.Paths)
	// 2. load the settings file
	conf, err := bmc.LoadSettings(f.Config, &f.Paths)
	if err != nil {
		return err
	}
	// 3. stored settings, then flags
	store := bmc.NewStore(conf.Database())
	if err := store.Settings.Overlay(conf.Settings); err != nil {
		return err
	}
	if f.Set != "" {
		m, err := bmc.ParseOverrides(f.Set)
		if err != nil {
			return errors.Wrap(err, "invalid --set")
		}
		if err := conf.Settings.Apply(m); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("log-level") {
		conf.Settings.LogLevel = f.LogLevel
	}
	if err := conf.Settings.Validate(); err != nil {
		return err
	}

	level, _ := zerolog.ParseLevel(conf.Settings.LogLevel)
	zerolog.SetGlobalLevel(level)

	e.conf = conf
	e.store = store
	e.translator = bmc.NewTranslator(conf)
	return nil
}

func NewCommand() *cobra.Command {
	e := &env{}

	com := &cobra.Command{
		Use:           "bmc",
		Short:         "Reformat braille music",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.load(cmd)
		},
	}

	// This set of flags propagates
	fl := com.PersistentFlags()

	stdpaths := &e.flags.Paths
	pathFlags := pflag.NewFlagSet("Standard Paths", pflag.ExitOnError)
	pathFlags.StringVar(&stdpaths.BMC_APPNAME, "stdpath.app", unset, "App name")
	pathFlags.StringVar(&stdpaths.CONFIG_HOME, "stdpath.config", unset, "Configuration directory")
	pathFlags.StringVar(&stdpaths.STATE_HOME, "stdpath.state", unset, "State directory")
	pathFlags.StringVar(&stdpaths.DATA_HOME, "stdpath.data", unset, "Data directory")
	fl.AddFlagSet(pathFlags)

	cfgFlags := pflag.NewFlagSet("Configuration", pflag.ExitOnError)
	cfgFlags.StringVar(&e.flags.Config, "config", "", `Path to the settings file, "-" for none`)
	cfgFlags.StringVar(&e.flags.Set, "set", "", `Override settings, e.g. "columns 32, output_table brf"`)
	cfgFlags.StringVar(&e.flags.LogLevel, "log-level", "warn", "Log level")
	fl.AddFlagSet(cfgFlags)

	com.AddGroup(
		&cobra.Group{ID: "music", Title: "Music"},
		&cobra.Group{ID: "manage", Title: "Management"},
	)
	com.AddCommand(
		reformatCommand(e),
		checkCommand(e),
		exportCommand(e),
		settingsCommand(e),
		libraryCommand(e),
		pluginsCommand(e),
		tablesCommand(e),
	)
	return com
}

func Run() error {
	return NewCommand().Execute()
}
