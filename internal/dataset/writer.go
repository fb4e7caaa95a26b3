package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"telephony-insights-go/internal/types"
)

// ErrArtifactWrite marks an artifact that could not be written. Nothing is
// left under the final name when it is returned.
var ErrArtifactWrite = errors.New("dataset: artifact write failed")

// Columns is the tabular artifact schema, in order.
var Columns = []string{"call_id", "caller_token", "agent_id", "start_ts", "duration_sec", "topic", "resolved"}

// TimestampLayout is ISO-8601 without zone, as the dashboard expects.
const TimestampLayout = "2006-01-02T15:04:05"

const RecordsSheet = "calls"

func recordRow(r types.CallRecord) []string {
	resolved := "0"
	if r.Resolved {
		resolved = "1"
	}
	return []string{
		r.CallID,
		r.CallerToken,
		r.AgentID,
		r.StartTime.Format(TimestampLayout),
		strconv.Itoa(r.DurationSeconds),
		string(r.Topic),
		resolved,
	}
}

// writeAtomic writes through a temp file in the target directory and
// renames it into place only after a clean close.
func writeAtomic(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrArtifactWrite, path, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrArtifactWrite, path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			err = fmt.Errorf("%w: %s: %w", ErrArtifactWrite, path, err)
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// WriteRecordsCSV writes records to path as CSV with a header row.
func WriteRecordsCSV(path string, records []types.CallRecord) error {
	return writeAtomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(Columns); err != nil {
			return err
		}
		for _, r := range records {
			if err := cw.Write(recordRow(r)); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// WriteRecordsXLSX writes the same table as a single-sheet workbook.
func WriteRecordsXLSX(path string, records []types.CallRecord) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", RecordsSheet); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrArtifactWrite, path, err)
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(RecordsSheet, "A1", &header); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrArtifactWrite, path, err)
	}
	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrArtifactWrite, path, err)
		}
		resolved := 0
		if r.Resolved {
			resolved = 1
		}
		row := []interface{}{
			r.CallID,
			r.CallerToken,
			r.AgentID,
			r.StartTime.Format(TimestampLayout),
			r.DurationSeconds,
			string(r.Topic),
			resolved,
		}
		if err := f.SetSheetRow(RecordsSheet, cell, &row); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrArtifactWrite, path, err)
		}
	}

	return writeAtomic(path, func(w io.Writer) error {
		return f.Write(w)
	})
}

// WriteTranscripts writes one text file per transcript into dir and
// returns the written paths in input order. On failure the files already
// written by this call are removed, so a batch is never left half done.
func WriteTranscripts(dir string, transcripts []types.DialogueTranscript) ([]string, error) {
	paths := make([]string, 0, len(transcripts))
	for _, t := range transcripts {
		p := filepath.Join(dir, t.FileName())
		text := t.Text()
		if err := writeAtomic(p, func(w io.Writer) error {
			_, err := io.WriteString(w, text)
			return err
		}); err != nil {
			for _, written := range paths {
				os.Remove(written)
			}
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}
