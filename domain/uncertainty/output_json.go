package uncertainty

import (
	"encoding/json"

	"riskuq/domain/core"
)

type namedTableJSON struct {
	Name  string    `json:"name"`
	Kind  TableKind `json:"kind"`
	Table *Table    `json:"table"`
}

type outputJSON struct {
	ID                core.RunID        `json:"id"`
	Created           core.Timestamp    `json:"created"`
	Unit              string            `json:"unit,omitempty"`
	Samples           *SampleSet        `json:"samples"`
	Tables            []namedTableJSON  `json:"tables"`
	SensitivityMethod string            `json:"sensitivity_method,omitempty"`
	SensitivityKwargs map[string]string `json:"sensitivity_kwargs,omitempty"`
	ModelKwargs       map[string]string `json:"model_kwargs,omitempty"`
}

func (o *Output) MarshalJSON() ([]byte, error) {
	snap := o.Snapshot()
	tables := make([]namedTableJSON, len(snap))
	for i, nt := range snap {
		tables[i] = namedTableJSON{Name: nt.Name, Kind: nt.Kind, Table: nt.Table}
	}
	return json.Marshal(outputJSON{
		ID:                o.ID,
		Created:           o.Created,
		Unit:              o.Unit,
		Samples:           o.Samples,
		Tables:            tables,
		SensitivityMethod: o.SensitivityMethod,
		SensitivityKwargs: o.SensitivityKwargs,
		ModelKwargs:       o.ModelKwargs,
	})
}

func (o *Output) UnmarshalJSON(data []byte) error {
	var raw outputJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	restored := NewOutput(raw.Samples, nil)
	restored.ID = raw.ID
	restored.Created = raw.Created
	restored.Unit = raw.Unit
	restored.SensitivityMethod = raw.SensitivityMethod
	restored.SensitivityKwargs = raw.SensitivityKwargs
	restored.ModelKwargs = raw.ModelKwargs
	for _, nt := range raw.Tables {
		restored.SetTable(nt.Name, nt.Kind, nt.Table)
	}
	*o = *restored
	return nil
}
