package bmc

import (
	"os/exec"
	"path/filepath"

	"github.com/bmc/shared"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// newPluginLogger sends the plugin framework's logs through zerolog.
func newPluginLogger(name string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "plugin." + name,
		Level:  hclog.Warn,
		Output: log.Logger,
	})
}

type bmcPlugin struct {
	exporter shared.Exporter
	client   *plugin.Client
}

// Plugins starts exporter plugins from a directory and keeps them running
// until Close.
type Plugins struct {
	fs         afero.Fs
	dir        string
	registered map[string]*bmcPlugin
}

func NewPlugins(conf *Configuration) *Plugins {
	return &Plugins{
		fs:         conf.FS(),
		dir:        conf.Plugins(),
		registered: make(map[string]*bmcPlugin),
	}
}

// Names lists the executables in the plugins directory.
func (f *Plugins) Names() ([]string, error) {
	entries, err := afero.ReadDir(f.fs, f.dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read plugins directory %s", f.dir)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || e.Mode().Perm()&0111 == 0 {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// Exporter starts the named plugin, or returns it when already running.
func (f *Plugins) Exporter(name string) (shared.Exporter, error) {
	if p, ok := f.registered[name]; ok {
		return p.exporter, nil
	}
	if filepath.Base(name) != name {
		return nil, errors.Errorf("invalid plugin name %q", name)
	}

	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  shared.HandshakeConfig,
		Plugins:          shared.PluginMap,
		Cmd:              exec.Command(filepath.Join(f.dir, name)),
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolNetRPC},
		Logger:           newPluginLogger(name),
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, errors.Wrapf(err, "failed to start plugin %s", name)
	}

	raw, err := rpcClient.Dispense(shared.ExporterName)
	if err != nil {
		client.Kill()
		return nil, errors.Wrapf(err, "plugin %s is not an exporter", name)
	}

	exp, ok := raw.(shared.Exporter)
	if !ok {
		client.Kill()
		return nil, errors.Errorf("plugin %s is not an exporter", name)
	}

	log.Debug().Str("plugin", name).Msg("exporter started")
	f.registered[name] = &bmcPlugin{exporter: exp, client: client}
	return exp, nil
}

// Export hands r to the named exporter.
func (f *Plugins) Export(name string, r *Result, metadata []byte) ([]byte, error) {
	exp, err := f.Exporter(name)
	if err != nil {
		return nil, err
	}
	return Export(exp, r, metadata)
}

func Export(exp shared.Exporter, r *Result, metadata []byte) ([]byte, error) {
	data, err := exp.Export(&shared.Document{
		Name:     r.Source,
		Braille:  r.Output.String(),
		Columns:  r.Metadata.Columns,
		Metadata: metadata,
	})
	return data, errors.Wrap(err, "export failed")
}

// Close stops every started plugin.
func (f *Plugins) Close() {
	for name, p := range f.registered {
		p.client.Kill()
		delete(f.registered, name)
	}
}
