package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"tanshin_insight/pkg/core/report"
)

// ResultCache stores completed analyses keyed by document ID so repeated
// analyze polls never re-run extraction. DB primary, file fallback when no
// pool is configured.
type ResultCache struct {
	pool    *pgxpool.Pool
	fileDir string
}

// NewResultCache builds the cache. With a nil pool and an empty dir the
// cache defaults to a local .cache directory.
func NewResultCache(pool *pgxpool.Pool, dir string) *ResultCache {
	if pool == nil && dir == "" {
		dir = filepath.Join(".cache", "results")
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Printf("[ResultCache] cannot create %s: %v", dir, err)
		}
	}
	return &ResultCache{pool: pool, fileDir: dir}
}

type resultEntry struct {
	DocumentID string           `json:"document_id"`
	Result     *report.Response `json:"result"`
	AnalyzedAt time.Time        `json:"analyzed_at"`
}

// Get returns the cached result for a document, or nil on a miss. Cache
// errors are misses: the caller re-analyzes.
func (c *ResultCache) Get(ctx context.Context, documentID string) (*report.Response, error) {
	if c.pool != nil {
		var dataJSON []byte
		err := c.pool.QueryRow(ctx,
			`SELECT data FROM analysis_results WHERE document_id = $1 LIMIT 1`,
			documentID).Scan(&dataJSON)
		if err != nil {
			return nil, nil
		}
		var resp report.Response
		if err := json.Unmarshal(dataJSON, &resp); err != nil {
			return nil, fmt.Errorf("failed to unmarshal cached result: %w", err)
		}
		return &resp, nil
	}

	if c.fileDir != "" {
		data, err := os.ReadFile(c.resultPath(documentID))
		if err != nil {
			return nil, nil
		}
		var entry resultEntry
		if err := json.Unmarshal(data, &entry); err != nil || entry.Result == nil {
			return nil, nil
		}
		return entry.Result, nil
	}

	return nil, nil
}

// Save stores an analysis result under its document ID, overwriting any
// previous entry.
func (c *ResultCache) Save(ctx context.Context, documentID string, resp *report.Response) error {
	dataJSON, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if c.pool != nil {
		_, err = c.pool.Exec(ctx, `
			INSERT INTO analysis_results (document_id, data)
			VALUES ($1, $2)
			ON CONFLICT (document_id)
			DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
		`, documentID, dataJSON)
		if err != nil {
			return fmt.Errorf("failed to save result to db: %w", err)
		}
		return nil
	}

	if c.fileDir != "" {
		entry := resultEntry{
			DocumentID: documentID,
			Result:     resp,
			AnalyzedAt: time.Now(),
		}
		fileBytes, err := json.MarshalIndent(entry, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result entry: %w", err)
		}
		if err := os.WriteFile(c.resultPath(documentID), fileBytes, 0o644); err != nil {
			return fmt.Errorf("failed to save result to file cache: %w", err)
		}
	}
	return nil
}

func (c *ResultCache) resultPath(documentID string) string {
	return filepath.Join(c.fileDir, documentID+".json")
}
