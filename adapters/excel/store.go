package excel

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"riskuq/domain/core"
	"riskuq/domain/uncertainty"
)

// Sheet layout of an output container file: one sheet per metric table plus
// three bookkeeping sheets. Underscore-prefixed names cannot collide with
// metric names.
const (
	metaSheet    = "_meta"
	schemaSheet  = "_schema"
	samplesSheet = "_samples"
)

// Store persists analysis outputs as self-contained xlsx files under one
// data directory. Every value is written as its shortest exact decimal text
// so floats survive a save and load bit for bit, and a schema sheet records
// each column's kind so integer columns are not widened on the way back in.
type Store struct {
	dir    string
	logger *logrus.Logger
}

// NewStore creates a file store rooted at dir. The directory is created on
// the first save. A nil logger falls back to a default one.
func NewStore(dir string, logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.New()
	}
	return &Store{dir: dir, logger: logger}
}

func (s *Store) path(name string) string {
	if s.dir == "" {
		return name
	}
	return filepath.Join(s.dir, name)
}

// Save writes the output and everything needed to restore it to name inside
// the data directory, overwriting any existing file.
func (s *Store) Save(out *uncertainty.Output, name string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSamples(f, out.Samples); err != nil {
		return fmt.Errorf("failed to write samples sheet: %w", err)
	}

	snapshot := out.Snapshot()
	if err := writeSchema(f, snapshot); err != nil {
		return fmt.Errorf("failed to write schema sheet: %w", err)
	}
	for _, nt := range snapshot {
		if err := writeTable(f, nt); err != nil {
			return fmt.Errorf("failed to write table %s: %w", nt.Name, err)
		}
	}
	if err := writeMeta(f, out, snapshot); err != nil {
		return fmt.Errorf("failed to write meta sheet: %w", err)
	}

	// The implicit default sheet would read back as an unknown table.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	path := s.path(name)
	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save output file: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"path":   path,
		"tables": len(snapshot),
		"run_id": out.ID.String(),
	}).Info("Saved analysis output")
	return nil
}

// Load restores an output previously written by Save. A missing file maps to
// core.ErrOutputNotFound.
func (s *Store) Load(name string) (*uncertainty.Output, error) {
	path := s.path(name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", core.ErrOutputNotFound, path)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open output file: %w", err)
	}
	defer f.Close()

	meta, tableNames, err := readMeta(f)
	if err != nil {
		return nil, err
	}
	samples, err := readSamples(f, meta)
	if err != nil {
		return nil, err
	}

	out := uncertainty.NewOutput(samples, s.logger)
	if raw, ok := meta["run_id"]; ok {
		id, err := core.ParseRunID(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid run_id in %s: %w", path, err)
		}
		out.ID = id
	}
	if raw, ok := meta["created_at"]; ok {
		created, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid created_at in %s: %w", path, err)
		}
		out.Created = core.NewTimestamp(created)
	}
	out.Unit = meta["unit"]
	if method := meta["sensitivity_method"]; method != "" {
		out.SetSensitivityMeta(method, prefixedKwargs(meta, "sensitivity_kwarg:"))
	}
	if kw := prefixedKwargs(meta, "model_kwarg:"); len(kw) > 0 {
		out.ModelKwargs = kw
	}

	schema, err := readSchema(f)
	if err != nil {
		return nil, err
	}
	for _, name := range tableNames {
		t, err := readTable(f, name, schema[name])
		if err != nil {
			return nil, fmt.Errorf("failed to read table %s: %w", name, err)
		}
		kind := uncertainty.TableKind(meta["table_kind:"+name])
		out.SetTable(name, kind, t)
	}
	return out, nil
}

func writeSamples(f *excelize.File, samples *uncertainty.SampleSet) error {
	if _, err := f.NewSheet(samplesSheet); err != nil {
		return err
	}
	labels := samples.Labels()
	header := make([]interface{}, len(labels))
	for i, l := range labels {
		header[i] = l
	}
	if err := f.SetSheetRow(samplesSheet, "A1", &header); err != nil {
		return err
	}
	for i := 0; i < samples.N(); i++ {
		row := samples.Values(i)
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = formatFloat(v)
		}
		ref, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(samplesSheet, ref, &cells); err != nil {
			return err
		}
	}
	return nil
}

func writeSchema(f *excelize.File, snapshot []uncertainty.NamedTable) error {
	if _, err := f.NewSheet(schemaSheet); err != nil {
		return err
	}
	header := []interface{}{"table", "column", "kind"}
	if err := f.SetSheetRow(schemaSheet, "A1", &header); err != nil {
		return err
	}
	rowIdx := 2
	for _, nt := range snapshot {
		for _, col := range nt.Table.Columns() {
			ref, err := excelize.CoordinatesToCellName(1, rowIdx)
			if err != nil {
				return err
			}
			row := []interface{}{nt.Name, col.Name, string(col.Kind)}
			if err := f.SetSheetRow(schemaSheet, ref, &row); err != nil {
				return err
			}
			rowIdx++
		}
	}
	return nil
}

func writeTable(f *excelize.File, nt uncertainty.NamedTable) error {
	if _, err := f.NewSheet(nt.Name); err != nil {
		return err
	}
	for j, col := range nt.Table.Columns() {
		ref, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(nt.Name, ref, col.Name); err != nil {
			return err
		}
		for i := 0; i < col.Len(); i++ {
			ref, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(nt.Name, ref, cellText(col, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeMeta(f *excelize.File, out *uncertainty.Output, snapshot []uncertainty.NamedTable) error {
	if _, err := f.NewSheet(metaSheet); err != nil {
		return err
	}
	var pairs [][2]string
	pairs = append(pairs,
		[2]string{"run_id", out.ID.String()},
		[2]string{"created_at", out.Created.Time().Format(time.RFC3339Nano)},
		[2]string{"unit", out.Unit},
		[2]string{"sampling_method", out.Samples.Method()},
	)
	pairs = append(pairs, kwargPairs("sampling_kwarg:", out.Samples.Kwargs())...)
	if out.SensitivityMethod != "" {
		pairs = append(pairs, [2]string{"sensitivity_method", out.SensitivityMethod})
		pairs = append(pairs, kwargPairs("sensitivity_kwarg:", out.SensitivityKwargs)...)
	}
	pairs = append(pairs, kwargPairs("model_kwarg:", out.ModelKwargs)...)
	for i, nt := range snapshot {
		pairs = append(pairs, [2]string{fmt.Sprintf("table:%d", i), nt.Name})
		pairs = append(pairs, [2]string{"table_kind:" + nt.Name, string(nt.Kind)})
	}
	for i, pair := range pairs {
		ref, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := []interface{}{pair[0], pair[1]}
		if err := f.SetSheetRow(metaSheet, ref, &row); err != nil {
			return err
		}
	}
	return nil
}

func readMeta(f *excelize.File) (map[string]string, []string, error) {
	rows, err := f.GetRows(metaSheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read meta sheet: %w", err)
	}
	meta := make(map[string]string, len(rows))
	var tableNames []string
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		key := row[0]
		value := ""
		if len(row) > 1 {
			value = row[1]
		}
		meta[key] = value
		if strings.HasPrefix(key, "table:") {
			tableNames = append(tableNames, value)
		}
	}
	return meta, tableNames, nil
}

func readSamples(f *excelize.File, meta map[string]string) (*uncertainty.SampleSet, error) {
	rows, err := f.GetRows(samplesSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read samples sheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("samples sheet has no header row")
	}
	labels := rows[0]
	values := make([][]float64, 0, len(rows)-1)
	for i, row := range rows[1:] {
		parsed := make([]float64, len(labels))
		for j := range labels {
			if j >= len(row) {
				return nil, core.NewShapeError("sample row", len(row), len(labels))
			}
			v, err := strconv.ParseFloat(row[j], 64)
			if err != nil {
				return nil, fmt.Errorf("sample cell (%d,%d): %w", i, j, err)
			}
			parsed[j] = v
		}
		values = append(values, parsed)
	}
	return uncertainty.NewSampleSet(labels, values, meta["sampling_method"], prefixedKwargs(meta, "sampling_kwarg:"))
}

type columnSchema struct {
	name string
	kind uncertainty.ColumnKind
}

func readSchema(f *excelize.File) (map[string][]columnSchema, error) {
	rows, err := f.GetRows(schemaSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema sheet: %w", err)
	}
	schema := make(map[string][]columnSchema)
	for _, row := range rows[1:] {
		if len(row) < 3 {
			continue
		}
		table := row[0]
		schema[table] = append(schema[table], columnSchema{
			name: row[1],
			kind: uncertainty.ColumnKind(row[2]),
		})
	}
	return schema, nil
}

func readTable(f *excelize.File, name string, cols []columnSchema) (*uncertainty.Table, error) {
	if len(cols) == 0 {
		return uncertainty.EmptyTable(), nil
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s has no header row", name)
	}
	data := rows[1:]
	built := make([]*uncertainty.Column, len(cols))
	for j, cs := range cols {
		switch cs.kind {
		case uncertainty.KindFloat:
			values := make([]float64, len(data))
			for i, row := range data {
				v, err := strconv.ParseFloat(cellAt(row, j), 64)
				if err != nil {
					return nil, fmt.Errorf("column %s row %d: %w", cs.name, i, err)
				}
				values[i] = v
			}
			built[j] = uncertainty.FloatColumn(cs.name, values)
		case uncertainty.KindInt:
			values := make([]int64, len(data))
			for i, row := range data {
				v, err := strconv.ParseInt(cellAt(row, j), 10, 64)
				if err != nil {
					return nil, fmt.Errorf("column %s row %d: %w", cs.name, i, err)
				}
				values[i] = v
			}
			built[j] = uncertainty.IntColumn(cs.name, values)
		case uncertainty.KindString:
			values := make([]string, len(data))
			for i, row := range data {
				values[i] = cellAt(row, j)
			}
			built[j] = uncertainty.StringColumn(cs.name, values)
		default:
			return nil, fmt.Errorf("column %s has unknown kind %q", cs.name, cs.kind)
		}
	}
	return uncertainty.NewTable(built...)
}

// cellAt tolerates the trailing-cell trimming xlsx readers apply to rows
// ending in empty strings.
func cellAt(row []string, j int) string {
	if j < len(row) {
		return row[j]
	}
	return ""
}

func cellText(col *uncertainty.Column, i int) string {
	switch col.Kind {
	case uncertainty.KindInt:
		return strconv.FormatInt(col.Ints[i], 10)
	case uncertainty.KindString:
		return col.Strings[i]
	default:
		return formatFloat(col.Floats[i])
	}
}

// formatFloat renders the shortest decimal text that parses back to the
// identical float64.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func kwargPairs(prefix string, kwargs map[string]string) [][2]string {
	keys := make([]string, 0, len(kwargs))
	for k := range kwargs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([][2]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, [2]string{prefix + k, kwargs[k]})
	}
	return pairs
}

func prefixedKwargs(meta map[string]string, prefix string) map[string]string {
	out := make(map[string]string)
	for k, v := range meta {
		if strings.HasPrefix(k, prefix) {
			out[strings.TrimPrefix(k, prefix)] = v
		}
	}
	return out
}
