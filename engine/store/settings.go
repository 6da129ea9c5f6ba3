package store

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/seeflow/see/engine/core"
)

var settingsKey = []byte("app_settings")

// GetSettings reads AppSettings, returning DefaultAppSettings if none has
// ever been saved. The defaults are not written to the database.
func (s *Store) GetSettings() (AppSettings, error) {
	var cfg AppSettings
	found := false
	err := s.view("get_settings", func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSettings).Get(settingsKey)
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &cfg)
	})
	if err != nil {
		return AppSettings{}, err
	}
	if !found {
		return DefaultAppSettings(), nil
	}
	return cfg, nil
}

// SaveSettings upserts AppSettings.
func (s *Store) SaveSettings(ctx context.Context, cfg AppSettings) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return core.NewError(fmt.Errorf("marshal settings: %w", err), core.KindStoreSerialization, nil)
	}
	return s.update(ctx, "save_settings", func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSettings).Put(settingsKey, data)
	})
}
