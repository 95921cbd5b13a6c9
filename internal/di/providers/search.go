package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/inkwell-app/inkwell-server/internal/config"
	"github.com/inkwell-app/inkwell-server/internal/logger"
	"github.com/inkwell-app/inkwell-server/internal/search"
	"github.com/inkwell-app/inkwell-server/internal/store"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index, wired into the store
// so article writes are indexed as they happen.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	index, err := search.NewIndex(search.Options{
		DataPath: cfg.Data.BasePath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	storeHandle.SetSearchIndexer(index)

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{Index: index}, nil
}

// TriggerSearchReindexIfNeeded rebuilds the index from stored articles when
// it is empty but articles exist, which happens after a mapping-version
// rebuild or index corruption. Should be called after all services are wired.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	docCount, _ := indexHandle.DocumentCount()
	if docCount > 0 {
		return
	}

	go func() {
		if indexed := reindexVisibleArticles(context.Background(), storeHandle.Store, indexHandle.Index, log); indexed > 0 {
			log.Info("Search reindex completed", "documents", indexed)
		}
	}()
}

// reindexVisibleArticles walks every stored article and indexes the ones the
// feed exposes. Drafts and private articles stay out of the index, same as
// the store's incremental indexing on writes.
func reindexVisibleArticles(ctx context.Context, s *store.Store, idx *search.Index, log *logger.Logger) int {
	indexed := 0
	for a, err := range s.Articles.List(ctx) {
		if err != nil {
			log.Error("Search reindex aborted", "error", err)
			return indexed
		}
		if !a.Visible() {
			continue
		}
		if err := idx.IndexArticle(a); err != nil {
			log.Warn("Failed to index article", "article_id", a.ID, "error", err)
			continue
		}
		indexed++
	}
	return indexed
}
