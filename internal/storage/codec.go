package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Veraticus/meu-bolso/internal/common"
)

// GetJSON decodes the value under key into dst.
// It reports found=false when the key is absent. A value that does not
// decode is reported as common.ErrMalformedData.
func GetJSON(ctx context.Context, s Store, key string, dst any) (bool, error) {
	data, err := s.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return true, fmt.Errorf("%w: key %q: %v", common.ErrMalformedData, key, err)
	}
	return true, nil
}

// PutJSON encodes v and stores it under key.
func PutJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	return s.Set(ctx, key, data)
}
