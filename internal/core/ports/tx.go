package ports

import "context"

// TxRunner executes fn as one logical storage unit. The status-change
// sequence (update lead, upsert biometric, write notification) runs inside
// a single transaction so partial failure cannot leave the entities
// inconsistent.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
