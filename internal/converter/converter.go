package converter

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/nconklindev/clientline/internal/client"
	"github.com/nconklindev/clientline/internal/logging"
	"github.com/nconklindev/clientline/internal/types"

	"github.com/google/uuid"
)

// Job describes one file conversion.
type Job struct {
	InputFile string
	// OutputFile defaults to InputFile with its extension replaced by
	// OutputExt.
	OutputFile string
	OutputExt  string
	Sheet      string
	// Data, when set, is used instead of reading InputFile again.
	Data     *types.FileData
	Workers  int
	Rules    client.Rules
	Progress chan<- float64
	Logger   *logging.Logger
}

// Run reads the job's input, converts every row and writes the kept records
// as JSON lines. Nothing is written when the batch is empty; the returned
// result still carries the row counts in that case.
func Run(ctx context.Context, job Job) (*types.ConversionResult, error) {
	runID := uuid.NewString()
	log := job.Logger
	if log == nil {
		log = logging.Nop()
	}
	log = log.With("run_id", runID, "input", filepath.Base(job.InputFile))

	outputFile := job.OutputFile
	if outputFile == "" {
		outputFile = OutputPath(job.InputFile, job.OutputExt)
	}

	start := time.Now()
	log.Info("conversion started", "output", outputFile, "workers", job.Workers)

	data := job.Data
	if data == nil {
		var err error
		data, err = ReadFileData(job.InputFile, job.Sheet)
		if err != nil {
			log.Error("read failed", "error", err)
			return nil, fmt.Errorf("read %s: %w", filepath.Base(job.InputFile), err)
		}
	}
	log.Debug("file read", "sheet", data.Sheet, "header_row", data.HeaderRow, "columns", len(data.Headers), "rows", len(data.Rows))

	result := &types.ConversionResult{
		RunID:      runID,
		InputFile:  job.InputFile,
		OutputFile: outputFile,
		Sheet:      data.Sheet,
	}

	records, stats, err := Convert(ctx, data.Rows, Options{
		Rules:    job.Rules,
		Workers:  job.Workers,
		Progress: job.Progress,
		Logger:   log,
	})
	result.RowsRead = stats.RowsRead
	result.RowsDropped = stats.RowsDropped
	if errors.Is(err, ErrEmptyBatch) {
		log.Warn("no client records", "rows", stats.RowsRead)
		return result, err
	}
	if err != nil {
		log.Error("conversion failed", "error", err)
		return nil, err
	}

	if err := WriteFile(outputFile, records); err != nil {
		log.Error("write failed", "error", err)
		return nil, fmt.Errorf("write %s: %w", filepath.Base(outputFile), err)
	}
	result.RecordsWritten = len(records)

	log.Info("conversion finished",
		"rows", stats.RowsRead,
		"written", result.RecordsWritten,
		"dropped", stats.RowsDropped,
		"dur_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}
