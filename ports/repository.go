package ports

import (
	"context"

	"riskuq/domain/core"
	"riskuq/domain/uncertainty"
)

// OutputRepository persists full analysis outputs keyed by run. Load of an
// unknown run returns an error matching core.ErrNotFound.
type OutputRepository interface {
	Save(ctx context.Context, out *uncertainty.Output) error
	Load(ctx context.Context, id core.RunID) (*uncertainty.Output, error)
	Delete(ctx context.Context, id core.RunID) error
}
