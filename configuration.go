package bmc

import (
	"fmt"
	"os"
	"path"
	"slices"
	"strconv"

	"github.com/bmc/pkg/reformat"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Standard paths to use to store bmc related data
// https://specifications.freedesktop.org/basedir-spec/latest/
type StandardPaths struct {
	// Can be used to change the profile
	// Default: "bmc"
	BMC_APPNAME string
	// Path to configuration directory.
	// Default: "$XDG_CONFIG_HOME/$BMC_APPNAME" or "$HOME/.config/$BMC_APPNAME" if unset
	CONFIG_HOME string
	// Path to state directory. Holds the library database.
	// Default: "$XDG_STATE_HOME/$BMC_APPNAME" or "$HOME/.local/state/$BMC_APPNAME" if unset
	STATE_HOME string
	// Path to data directory. Holds tables and plugins.
	// Default: "$XDG_DATA_HOME/$BMC_APPNAME" or "$HOME/.local/share/$BMC_APPNAME"
	DATA_HOME string
}

// DirStandardPaths puts every path in dir.
func DirStandardPaths(dir string) StandardPaths {
	return StandardPaths{"bmc", dir, dir, dir}
}

func (s StandardPaths) init(fs afero.Fs) error {
	for _, p := range []string{s.CONFIG_HOME, s.STATE_HOME, s.DATA_HOME} {
		if err := fs.MkdirAll(p, 0700); err != nil {
			return errors.Wrapf(err, "failed to create standard path: %s", p)
		}
	}
	return nil
}

type stdpathsBuilder struct {
	stdpaths *StandardPaths
	home     string

	app    string
	config string
	state  string
	data   string
}

func newStdpathsBuilder() *stdpathsBuilder {
	return &stdpathsBuilder{home: os.Getenv("HOME")}
}

func (b *stdpathsBuilder) withStdpaths(stdpaths *StandardPaths) *stdpathsBuilder {
	bcp := *b
	bcp.stdpaths = stdpaths
	return &bcp
}

func (b *stdpathsBuilder) isValid(val string) bool {
	return !slices.Contains([]string{"", "-"}, val)
}

func (b *stdpathsBuilder) bind(val, env, def string) string {
	if b.isValid(val) {
		return val
	}
	if v := os.Getenv(env); b.isValid(v) {
		return v
	}
	return def
}

// bindToApp appends the app name unless the path was given explicitly.
func (b *stdpathsBuilder) bindToApp(val, env, def string) string {
	v := b.bind(val, env, def)
	if v == val {
		return val
	}
	return path.Join(v, b.app)
}

func (b *stdpathsBuilder) setApp(val string) *stdpathsBuilder {
	b.app = b.bind(val, "BMC_APPNAME", "bmc")
	return b
}

func (b *stdpathsBuilder) setConfig(val string) *stdpathsBuilder {
	b.config = b.bindToApp(val, "XDG_CONFIG_HOME", path.Join(b.home, ".config"))
	return b
}

func (b *stdpathsBuilder) setState(val string) *stdpathsBuilder {
	b.state = b.bindToApp(val, "XDG_STATE_HOME", path.Join(b.home, ".local", "state"))
	return b
}

func (b *stdpathsBuilder) setData(val string) *stdpathsBuilder {
	b.data = b.bindToApp(val, "XDG_DATA_HOME", path.Join(b.home, ".local", "share"))
	return b
}

func (b *stdpathsBuilder) build() *StandardPaths {
	stdpaths := b.stdpaths
	stdpaths.BMC_APPNAME = b.app
	stdpaths.CONFIG_HOME = b.config
	stdpaths.STATE_HOME = b.state
	stdpaths.DATA_HOME = b.data
	return stdpaths
}

// BindStandardPaths fills the unset paths from the environment, then from
// the XDG defaults.
func BindStandardPaths(stdpaths *StandardPaths) *StandardPaths {
	b := newStdpathsBuilder().withStdpaths(stdpaths)
	return b.setApp(stdpaths.BMC_APPNAME).
		setConfig(stdpaths.CONFIG_HOME).
		setData(stdpaths.DATA_HOME).
		setState(stdpaths.STATE_HOME).
		build()
}

func DefaultPaths() *StandardPaths {
	return BindStandardPaths(&StandardPaths{})
}

// Settings are the user preferences. They come from config.yaml, then the
// settings store, then command line overrides.
type Settings struct {
	// Columns is the line width in cells
	Columns int `yaml:"columns"`
	// FirstLineColumns is the width of the first line of each paragraph, 0
	// for the same as Columns
	FirstLineColumns int `yaml:"first_line_columns"`
	// InputTable transliterates text input to braille. Empty reads Unicode
	// braille only.
	InputTable string `yaml:"input_table"`
	// OutputTable renders the result. Empty keeps Unicode braille.
	OutputTable string `yaml:"output_table"`
	// TablesDir holds user tables. Default: "$DATA_HOME/tables"
	TablesDir string `yaml:"tables_dir"`
	// PluginsDir holds exporter plugins. Default: "$DATA_HOME/plugins"
	PluginsDir string `yaml:"plugins_dir"`
	// LogLevel is a zerolog level name
	LogLevel string `yaml:"log_level"`
}

// SettingKeys lists the names accepted by Set, in file order.
var SettingKeys = []string{
	"columns",
	"first_line_columns",
	"input_table",
	"output_table",
	"tables_dir",
	"plugins_dir",
	"log_level",
}

func DefaultSettings() *Settings {
	return &Settings{
		Columns:  reformat.DefaultStyle().Columns,
		LogLevel: zerolog.WarnLevel.String(),
	}
}

func (s *Settings) Validate() error {
	if s.Columns < 2 {
		return fmt.Errorf("columns must be at least 2, got %d", s.Columns)
	}
	if s.FirstLineColumns < 0 {
		return fmt.Errorf("first_line_columns must not be negative")
	}
	if _, err := zerolog.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("log_level %q is not a level", s.LogLevel)
	}
	return nil
}

// Style is the layout the settings ask for.
func (s *Settings) Style() reformat.Style {
	return reformat.Style{Columns: s.Columns, FirstLineColumns: s.FirstLineColumns}
}

// Set assigns one setting by name.
func (s *Settings) Set(key, value string) error {
	switch key {
	case "columns", "first_line_columns":
		n, err := strconv.Atoi(value)
		if err != nil {
			return errors.Wrapf(err, "setting %s", key)
		}
		if key == "columns" {
			s.Columns = n
		} else {
			s.FirstLineColumns = n
		}
	case "input_table":
		s.InputTable = value
	case "output_table":
		s.OutputTable = value
	case "tables_dir":
		s.TablesDir = value
	case "plugins_dir":
		s.PluginsDir = value
	case "log_level":
		s.LogLevel = value
	default:
		return errors.Errorf("unknown setting %q", key)
	}
	return nil
}

// Get returns one setting by name.
func (s *Settings) Get(key string) (string, error) {
	switch key {
	case "columns":
		return strconv.Itoa(s.Columns), nil
	case "first_line_columns":
		return strconv.Itoa(s.FirstLineColumns), nil
	case "input_table":
		return s.InputTable, nil
	case "output_table":
		return s.OutputTable, nil
	case "tables_dir":
		return s.TablesDir, nil
	case "plugins_dir":
		return s.PluginsDir, nil
	case "log_level":
		return s.LogLevel, nil
	}
	return "", errors.Errorf("unknown setting %q", key)
}

// Apply sets every pair of m, stopping at the first bad one.
func (s *Settings) Apply(m map[string]string) error {
	for _, key := range SettingKeys {
		if v, ok := m[key]; ok {
			if err := s.Set(key, v); err != nil {
				return err
			}
		}
	}
	for key := range m {
		if !slices.Contains(SettingKeys, key) {
			return errors.Errorf("unknown setting %q", key)
		}
	}
	return nil
}

// ConfigFile is the settings file name in the config home.
const ConfigFile = "config.yaml"

type Configuration struct {
	Paths    StandardPaths
	Settings *Settings

	fs afero.Fs
}

func (c *Configuration) FS() afero.Fs { return c.fs }

// SetFS swaps the filesystem tables, plugins and the config file are read
// from.
func (c *Configuration) SetFS(fs afero.Fs) { c.fs = fs }

// Home returns the location where we store tables and plugins
func (c *Configuration) Home() string {
	return c.Paths.DATA_HOME
}

func (c *Configuration) Tables() string {
	if c.Settings.TablesDir != "" {
		return c.Settings.TablesDir
	}
	return path.Join(c.Home(), "tables")
}

func (c *Configuration) Plugins() string {
	if c.Settings.PluginsDir != "" {
		return c.Settings.PluginsDir
	}
	return path.Join(c.Home(), "plugins")
}

// Database is the location of the library database.
func (c *Configuration) Database() string {
	return c.Paths.STATE_HOME
}

// LoadSettings reads the settings file at fpath, or config.yaml in the
// config home when fpath is empty. "-" skips the file. A missing default
// file is not an error.
func LoadSettings(fpath string, stdpaths *StandardPaths) (*Configuration, error) {
	return LoadSettingsFs(afero.NewOsFs(), fpath, stdpaths)
}

func LoadSettingsFs(fs afero.Fs, fpath string, stdpaths *StandardPaths) (*Configuration, error) {
	conf := &Configuration{Paths: *stdpaths, Settings: DefaultSettings(), fs: fs}
	if err := stdpaths.init(fs); err != nil {
		return nil, errors.Wrap(err, "failed to initialize standard paths")
	}

	explicit := fpath != ""
	if !explicit {
		fpath = path.Join(stdpaths.CONFIG_HOME, ConfigFile)
	}
	if fpath == "-" {
		return conf, nil
	}

	data, err := afero.ReadFile(fs, fpath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, conf.Settings); err != nil {
			return nil, errors.Wrapf(err, "failed to parse %s", fpath)
		}
	case explicit || !errors.Is(err, os.ErrNotExist):
		return nil, errors.Wrap(err, "failed to read settings file")
	}

	if err := conf.Settings.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid settings in %s", fpath)
	}
	return conf, nil
}

// SaveSettings writes the settings to config.yaml in the config home.
func (c *Configuration) SaveSettings() error {
	data, err := yaml.Marshal(c.Settings)
	if err != nil {
		return errors.Wrap(err, "failed to marshal settings")
	}
	fpath := path.Join(c.Paths.CONFIG_HOME, ConfigFile)
	if err := afero.WriteFile(c.fs, fpath, data, 0600); err != nil {
		return errors.Wrap(err, "failed to write settings file")
	}
	return nil
}
