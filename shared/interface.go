package shared

import (
	"github.com/hashicorp/go-plugin"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "BMC_PLUGIN",
	MagicCookieValue: "braille-music",
}

// ExporterName is the name an exporter is dispensed under.
const ExporterName = "exporter"

var PluginMap = map[string]plugin.Plugin{
	ExporterName: &ExporterPlugin{},
}

// Exporters turn a reformatted score into a file format, e.g. BRF for an
// embosser.
type Exporter interface {
	Properties() (Properties, error)
	Export(doc *Document) ([]byte, error)
}

// Serve runs impl as a plugin. It is called from the plugin's main and
// does not return.
func Serve(impl Exporter) {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: HandshakeConfig,
		Plugins: map[string]plugin.Plugin{
			ExporterName: &ExporterPlugin{Impl: impl},
		},
	})
}
