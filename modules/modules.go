package modules

import (
	"github.com/praetorian-inc/aperture/modules/options"
)

type OpsecLevel string

const (
	Stealth  OpsecLevel = "stealth"
	Moderate OpsecLevel = "moderate"
	None     OpsecLevel = "none"
)

type Platform string

const (
	AWS Platform = "aws"
)

type Metadata struct {
	Id          string
	Name        string
	Description string
	Platform    Platform
	Authors     []string
	References  []string
	OpsecLevel  OpsecLevel
}

type Module interface {
	Invoke() error
	GetOutputProviders() []OutputProvider
}

// OutputProvider consumes module results as they arrive on Run.Data.
type OutputProvider interface {
	Write(result Result) error
}

type Run struct {
	Data chan Result
}

type BaseModule struct {
	Module
	Metadata
	Options         []*options.Option
	Run             Run
	OutputProviders []OutputProvider
}

func (m *BaseModule) Invoke() error {
	panic("not implemented")
}

func (m *BaseModule) GetOptionByName(name string) *options.Option {
	return options.GetOptionByName(name, m.Options)
}

func (m *BaseModule) GetOutputProviders() []OutputProvider {
	return m.OutputProviders
}

func (m *BaseModule) MakeResultCustomFilename(data interface{}, filename string) Result {
	return Result{
		Platform: m.Platform,
		Module:   m.Name,
		Filename: filename,
		Data:     data,
	}
}

func RenderOutputProviders(providers []func(options []*options.Option) OutputProvider, opts []*options.Option) []OutputProvider {
	op := []OutputProvider{}
	for _, p := range providers {
		op = append(op, p(opts))
	}

	return op
}
