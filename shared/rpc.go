package shared

import (
	"net/rpc"

	"github.com/hashicorp/go-plugin"
)

type exporterRPC struct {
	client *rpc.Client
}

func (g *exporterRPC) Properties() (Properties, error) {
	var p Properties
	err := g.client.Call("Plugin.Properties", new(any), &p)
	return p, err
}

func (g *exporterRPC) Export(doc *Document) ([]byte, error) {
	var data []byte
	if err := g.client.Call("Plugin.Export", doc, &data); err != nil {
		return nil, err
	}
	return data, nil
}

type ExporterRPCServer struct {
	Impl Exporter
}

func (s *ExporterRPCServer) Properties(_ any, p *Properties) error {
	props, err := s.Impl.Properties()
	if err != nil {
		return err
	}
	*p = props
	return nil
}

func (s *ExporterRPCServer) Export(doc *Document, data *[]byte) error {
	d, err := s.Impl.Export(doc)
	if err != nil {
		return err
	}
	*data = d
	return nil
}

// ExporterPlugin speaks net/rpc. Impl is only set on the plugin side.
type ExporterPlugin struct {
	Impl Exporter
}

func (p *ExporterPlugin) Server(*plugin.MuxBroker) (interface{}, error) {
	return &ExporterRPCServer{Impl: p.Impl}, nil
}

func (p *ExporterPlugin) Client(b *plugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &exporterRPC{client: c}, nil
}

// NewExporterClient wraps an rpc client connected to an ExporterRPCServer
// registered as "Plugin".
func NewExporterClient(c *rpc.Client) Exporter {
	return &exporterRPC{client: c}
}
