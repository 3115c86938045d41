package outputproviders

import (
	"fmt"

	"github.com/praetorian-inc/aperture/modules"
	o "github.com/praetorian-inc/aperture/modules/options"
)

type ConsoleProvider struct {
}

func NewConsoleProvider(options []*o.Option) modules.OutputProvider {
	return &ConsoleProvider{}
}

// Write writes the `data` field of the result
// to the console.
func (cp *ConsoleProvider) Write(result modules.Result) error {
	fmt.Println(result.String())
	return nil
}
