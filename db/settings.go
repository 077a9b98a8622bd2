package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Divy2003/realstate/model"
)

// GetSettings returns the singleton settings document, bootstrapping the
// defaults on first access.
func (db *DB) GetSettings(ctx context.Context) (*model.SiteSettings, error) {
	var doc string
	err := db.QueryRowContext(ctx, "SELECT doc FROM settings WHERE id = 1").Scan(&doc)
	if err == sql.ErrNoRows {
		defaults := model.DefaultSettings()
		if err := db.writeSettings(ctx, &defaults, true); err != nil {
			return nil, err
		}
		return &defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	var s model.SiteSettings
	if err := json.Unmarshal([]byte(doc), &s); err != nil {
		return nil, fmt.Errorf("decode settings document: %w", err)
	}
	return &s, nil
}

// UpdateSettings deep-merges the partial document into the singleton and
// returns the merged result.
func (db *DB) UpdateSettings(ctx context.Context, partial map[string]any) (*model.SiteSettings, error) {
	current, err := db.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(current)
	if err != nil {
		return nil, err
	}
	var base map[string]any
	if err := json.Unmarshal(raw, &base); err != nil {
		return nil, err
	}

	deepMerge(base, partial)

	mergedRaw, err := json.Marshal(base)
	if err != nil {
		return nil, err
	}
	var merged model.SiteSettings
	if err := json.Unmarshal(mergedRaw, &merged); err != nil {
		return nil, fmt.Errorf("decode merged settings: %w", err)
	}

	if err := db.writeSettings(ctx, &merged, false); err != nil {
		return nil, err
	}
	return &merged, nil
}

// UpdateCompany merges a partial company section only.
func (db *DB) UpdateCompany(ctx context.Context, partial map[string]any) (*model.SiteSettings, error) {
	return db.UpdateSettings(ctx, map[string]any{"company": partial})
}

func (db *DB) writeSettings(ctx context.Context, s *model.SiteSettings, insert bool) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings document: %w", err)
	}
	now := time.Now().UTC()
	if insert {
		_, err = db.ExecContext(ctx,
			"INSERT INTO settings (id, doc, updated_at) VALUES (1, ?, ?)", string(raw), now)
	} else {
		_, err = db.ExecContext(ctx,
			"UPDATE settings SET doc = ?, updated_at = ? WHERE id = 1", string(raw), now)
	}
	if err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// deepMerge merges src into dst recursively; nested objects merge key-wise,
// everything else overwrites.
func deepMerge(dst, src map[string]any) {
	for k, v := range src {
		if srcMap, ok := v.(map[string]any); ok {
			if dstMap, ok := dst[k].(map[string]any); ok {
				deepMerge(dstMap, srcMap)
				continue
			}
		}
		dst[k] = v
	}
}
