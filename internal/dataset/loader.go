package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"telephony-insights-go/internal/types"
)

// LoadRecords reads a records artifact written by WriteRecordsCSV or
// WriteRecordsXLSX. Columns are located by header name, in any order.
func LoadRecords(path string) ([]types.CallRecord, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = readXLSX(path)
	default:
		rows, err = readCSV(path)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: no header row", path)
	}

	idx := map[string]int{}
	for i, h := range rows[0] {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range Columns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", path, c)
		}
	}

	out := make([]types.CallRecord, 0, len(rows)-1)
	for n, r := range rows[1:] {
		cell := func(name string) string {
			if i := idx[name]; i < len(r) {
				return strings.TrimSpace(r[i])
			}
			return ""
		}
		rec, err := parseRecord(cell)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", path, n+2, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseRecord(cell func(string) string) (types.CallRecord, error) {
	start, err := time.Parse(TimestampLayout, cell("start_ts"))
	if err != nil {
		return types.CallRecord{}, fmt.Errorf("start_ts: %w", err)
	}
	duration, err := strconv.Atoi(cell("duration_sec"))
	if err != nil {
		return types.CallRecord{}, fmt.Errorf("duration_sec: %w", err)
	}
	topic, ok := types.ParseTopic(cell("topic"))
	if !ok {
		return types.CallRecord{}, fmt.Errorf("unknown topic %q", cell("topic"))
	}
	var resolved bool
	switch cell("resolved") {
	case "1", "true", "True":
		resolved = true
	case "0", "false", "False":
	default:
		return types.CallRecord{}, fmt.Errorf("resolved: %q is not 0 or 1", cell("resolved"))
	}
	return types.CallRecord{
		CallID:          cell("call_id"),
		CallerToken:     cell("caller_token"),
		AgentID:         cell("agent_id"),
		StartTime:       start,
		DurationSeconds: duration,
		Topic:           topic,
		Resolved:        resolved,
	}, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return rows, nil
}

// ReadTranscript loads a transcript file back into its lines.
func ReadTranscript(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, nil
	}
	return strings.Split(string(b), "\n"), nil
}
