package uncertainty

import (
	"github.com/sirupsen/logrus"

	"riskuq/domain/core"
)

// TableKind partitions metric tables into direct evaluation outputs and
// derived sensitivity indices. The tag is explicit so listing never relies
// on name conventions.
type TableKind string

const (
	TableUncertainty TableKind = "uncertainty"
	TableSensitivity TableKind = "sensitivity"
)

// NamedTable couples a metric table with its name and category tag.
type NamedTable struct {
	Name  string
	Kind  TableKind
	Table *Table
}

// Output aggregates everything one uncertainty analysis run produces: the
// sample set, one table per computed metric, and the metadata needed to
// reproduce the run. Created with samples only, populated by an evaluator,
// optionally extended by a sensitivity step, and persistable as a unit at
// any point.
type Output struct {
	ID      core.RunID
	Created core.Timestamp
	Samples *SampleSet
	// Unit is the value unit of the underlying exposures.
	Unit string

	// SensitivityMethod and SensitivityKwargs record the estimator that
	// produced the sensitivity tables, if any.
	SensitivityMethod string
	SensitivityKwargs map[string]string
	// ModelKwargs is the frozen (string-coerced) extra configuration passed
	// through to the risk-model call.
	ModelKwargs map[string]string

	tables map[string]NamedTable
	order  []string
	logger *logrus.Logger
}

// NewOutput creates an output holding samples only. A nil logger falls back
// to a fresh default logger.
func NewOutput(samples *SampleSet, logger *logrus.Logger) *Output {
	if logger == nil {
		logger = logrus.New()
	}
	return &Output{
		ID:      core.NewRunID(),
		Created: core.Now(),
		Samples: samples,
		tables:  make(map[string]NamedTable),
		logger:  logger,
	}
}

// SetLogger replaces the logger, e.g. after restoring a persisted output.
func (o *Output) SetLogger(logger *logrus.Logger) {
	if logger != nil {
		o.logger = logger
	}
}

func (o *Output) log() *logrus.Logger {
	if o.logger == nil {
		o.logger = logrus.New()
	}
	return o.logger
}

// SetTable stores or replaces a metric table under the given name and tag.
func (o *Output) SetTable(name string, kind TableKind, t *Table) {
	if t == nil {
		t = EmptyTable()
	}
	if _, exists := o.tables[name]; !exists {
		o.order = append(o.order, name)
	}
	o.tables[name] = NamedTable{Name: name, Kind: kind, Table: t}
}

// Table returns the stored table and its kind.
func (o *Output) Table(name string) (*Table, TableKind, bool) {
	nt, ok := o.tables[name]
	if !ok {
		return nil, "", false
	}
	return nt.Table, nt.Kind, true
}

// Snapshot returns all stored tables in insertion order, for persistence.
func (o *Output) Snapshot() []NamedTable {
	out := make([]NamedTable, 0, len(o.order))
	for _, name := range o.order {
		out = append(out, o.tables[name])
	}
	return out
}

func (o *Output) metricsOfKind(kind TableKind) []string {
	var names []string
	for _, name := range o.order {
		nt := o.tables[name]
		if nt.Kind == kind && !nt.Table.Empty() {
			names = append(names, name)
		}
	}
	return names
}

// UncertaintyMetrics lists the names of all non-empty uncertainty tables.
func (o *Output) UncertaintyMetrics() []string {
	return o.metricsOfKind(TableUncertainty)
}

// SensitivityMetrics lists the names of all non-empty sensitivity tables.
func (o *Output) SensitivityMetrics() []string {
	return o.metricsOfKind(TableSensitivity)
}

// GetUncertainty horizontally concatenates the requested uncertainty tables,
// aligned by shared row index. Without arguments all uncertainty tables are
// joined. A requested metric that is absent yields the empty table, never an
// error.
func (o *Output) GetUncertainty(metrics ...string) *Table {
	if len(metrics) == 0 {
		metrics = o.UncertaintyMetrics()
	}
	tables := make([]*Table, 0, len(metrics))
	for _, name := range metrics {
		t, kind, ok := o.Table(name)
		if !ok || kind != TableUncertainty {
			return EmptyTable()
		}
		tables = append(tables, t)
	}
	joined, err := HConcat(tables...)
	if err != nil {
		o.log().WithError(err).Warn("uncertainty tables are not row-aligned")
		return EmptyTable()
	}
	return joined
}

// GetSensitivity returns the rows of the requested sensitivity tables whose
// si column equals the given index name. Numeric columns are concatenated
// across metrics; the shared descriptor columns (parameter labels, index
// name) of the first non-empty table are prepended once. Absent metrics are
// skipped.
func (o *Output) GetSensitivity(si string, metrics ...string) *Table {
	if len(metrics) == 0 {
		metrics = o.SensitivityMetrics()
	}
	var numeric []*Column
	var descriptors []*Column
	rows := -1
	for _, name := range metrics {
		t, kind, ok := o.Table(name)
		if !ok || kind != TableSensitivity || t.Empty() {
			continue
		}
		filtered := t.FilterString(SensitivityIndexColumn, si)
		if filtered.Empty() {
			continue
		}
		if rows == -1 {
			rows = filtered.NumRows()
			descriptors = filtered.DescriptorColumns()
		} else if filtered.NumRows() != rows {
			o.log().WithField("metric", name).Warn("sensitivity table row count differs, skipping")
			continue
		}
		numeric = append(numeric, filtered.NumericColumns()...)
	}
	if rows == -1 {
		return EmptyTable()
	}
	return &Table{cols: append(descriptors, numeric...)}
}

// SetSensitivityMeta records the estimator name and arguments used to
// produce the sensitivity tables.
func (o *Output) SetSensitivityMeta(method string, kwargs map[string]string) {
	o.SensitivityMethod = method
	o.SensitivityKwargs = make(map[string]string, len(kwargs))
	for k, v := range kwargs {
		o.SensitivityKwargs[k] = v
	}
}

// SensitivityIndexColumn is the categorical column identifying which
// sensitivity index a row reports.
const SensitivityIndexColumn = "si"
