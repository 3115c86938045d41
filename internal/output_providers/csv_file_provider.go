package outputproviders

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/praetorian-inc/aperture/internal/message"
	"github.com/praetorian-inc/aperture/modules"
	o "github.com/praetorian-inc/aperture/modules/options"
)

// CsvFileProvider writes results whose data implements modules.CSVMarshaler.
// Anything else is left to the JSON provider.
type CsvFileProvider struct {
	OutputPath string
}

func NewCsvFileProvider(opts []*o.Option) modules.OutputProvider {
	return &CsvFileProvider{
		OutputPath: o.GetOptionByName(o.OutputOpt.Name, opts).Value,
	}
}

func (cp *CsvFileProvider) Write(result modules.Result) error {
	data, ok := result.Data.(modules.CSVMarshaler)
	if !ok {
		slog.Debug("CSV provider is skipping non-CSV output", "module", result.Module)
		return nil
	}

	rows := data.CSVRows()
	if len(rows) == 0 {
		slog.Info("No rows to write to CSV", "module", result.Module)
		return nil
	}

	filename := result.Filename
	if filename == "" {
		filename = DefaultFileName(result.Module, "csv")
	}
	fullpath := GetFullPath(filename, cp.OutputPath)

	if err := os.MkdirAll(filepath.Dir(fullpath), os.ModePerm); err != nil {
		return err
	}

	file, err := os.Create(fullpath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(data.CSVHeader()); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("error writing CSV row: %w", err)
		}
	}

	message.Success("CSV output written to %s (%d rows)", fullpath, len(rows))

	return nil
}
