package dberr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestStorage(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Storage("op", nil))
	})

	t.Run("record not found maps to ErrNotFound", func(t *testing.T) {
		err := Storage("get category", gorm.ErrRecordNotFound)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NotErrorIs(t, err, ErrStorage)
	})

	t.Run("driver failures are storage errors", func(t *testing.T) {
		cause := errors.New("disk I/O error")
		err := Storage("add word", cause)

		assert.ErrorIs(t, err, ErrStorage)
		assert.ErrorIs(t, err, cause)

		var storageErr *StorageError
		assert.True(t, errors.As(err, &storageErr))
		assert.Equal(t, "add word", storageErr.Op)
		assert.Contains(t, err.Error(), "disk I/O error")
	})

	t.Run("wrapped storage errors still match", func(t *testing.T) {
		err := fmt.Errorf("import: %w", Storage("add word", errors.New("locked")))
		assert.ErrorIs(t, err, ErrStorage)
	})
}

func TestNotFound(t *testing.T) {
	err := NotFound("category", 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "category 42: record not found", err.Error())
}
