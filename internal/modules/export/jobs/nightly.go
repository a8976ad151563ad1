// Package jobs holds the scheduled batch runs built on the exporter
package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pushlab/push-analytics/internal/modules/export"
)

// runTimeout bounds one nightly batch end to end
const runTimeout = 30 * time.Minute

// NightlyExport writes the full batch CSV into a directory, one file
// per run, named by date and run id so reruns never clobber earlier
// output.
type NightlyExport struct {
	exporter *export.BatchExporter
	dir      string
	limit    int
	log      zerolog.Logger
}

func NewNightlyExport(exporter *export.BatchExporter, dir string, limit int, log zerolog.Logger) *NightlyExport {
	return &NightlyExport{
		exporter: exporter,
		dir:      dir,
		limit:    limit,
		log:      log.With().Str("job", "nightly_export").Logger(),
	}
}

func (j *NightlyExport) Name() string { return "nightly_export" }

func (j *NightlyExport) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	runID := uuid.New().String()
	name := fmt.Sprintf("pushes_%s_%s.csv", time.Now().Format("2006-01-02"), runID)
	path := filepath.Join(j.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	start := time.Now()
	if err := j.exporter.ExportAll(ctx, f, j.limit); err != nil {
		return fmt.Errorf("export batch: %w", err)
	}

	j.log.Info().
		Str("file", path).
		Str("run_id", runID).
		Dur("took", time.Since(start)).
		Msg("nightly export written")
	return nil
}
