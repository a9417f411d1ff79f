package domain

import "context"

// SnapshotRepository persists the full account index. Load reports found=false
// when no snapshot has ever been written.
type SnapshotRepository interface {
	Save(ctx context.Context, accounts []Account) error
	Load(ctx context.Context) (accounts []Account, found bool, err error)
}
