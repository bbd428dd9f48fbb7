package repository

import (
	"context"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-local/internal/adapters/kv"
	"github.com/comitanigiacomo/kanso-local/internal/core/domain"
)

var _ domain.SyncMetadataRepository = (*SyncMetadataRepository)(nil)

type SyncMetadataRepository struct {
	doc *kv.Document[domain.SyncMetadata]
}

func NewSyncMetadataRepository(store kv.Store, log *zap.Logger) *SyncMetadataRepository {
	return &SyncMetadataRepository{
		doc: kv.NewDocument[domain.SyncMetadata](store, KeySyncMetadata, log),
	}
}

// Get returns the stored metadata, or {pendingCount: 0} when there is none.
func (r *SyncMetadataRepository) Get(ctx context.Context) (domain.SyncMetadata, error) {
	meta, ok, err := r.doc.Get(ctx)
	if err != nil {
		return domain.SyncMetadata{}, err
	}
	if !ok {
		return domain.SyncMetadata{PendingCount: 0}, nil
	}
	return meta, nil
}

func (r *SyncMetadataRepository) Set(ctx context.Context, meta domain.SyncMetadata) error {
	return r.doc.Set(ctx, meta)
}
