package outputproviders

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/praetorian-inc/aperture/internal/message"
	"github.com/praetorian-inc/aperture/modules"
	o "github.com/praetorian-inc/aperture/modules/options"
)

type JsonFileProvider struct {
	OutputPath string
	FileName   string
}

func NewJsonFileProvider(opts []*o.Option) modules.OutputProvider {
	return &JsonFileProvider{
		OutputPath: o.GetOptionByName(o.OutputOpt.Name, opts).Value,
		FileName:   "",
	}
}

func (fp *JsonFileProvider) Write(result modules.Result) error {
	var filename string

	if _, ok := result.Data.(modules.CSVMarshaler); ok {
		// CSV-able data belongs to the CSV provider
		slog.Debug("JSON provider is skipping CSV output", "module", result.Module)
		return nil
	}

	if result.Filename == "" {
		filename = fp.DefaultFileName(result.Module)
	} else {
		filename = result.Filename
	}
	fullpath := GetFullPath(filename, fp.OutputPath)
	dir := filepath.Dir(fullpath)

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		err := os.MkdirAll(dir, os.ModePerm)
		if err != nil {
			return err
		}
	}

	file, err := os.Create(fullpath)
	if err != nil {
		return err
	}
	defer file.Close()
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	err = encoder.Encode(result.Data)
	if err != nil {
		return err
	}

	message.Success("Output written to %s", fullpath)

	return nil
}

func (fp *JsonFileProvider) DefaultFileName(prefix string) string {
	return DefaultFileName(prefix, "json")
}
