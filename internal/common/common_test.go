package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIError_WithDetailsKeepsSentinelIntact(t *testing.T) {
	detailed := ErrNotFound.WithDetails("record missing")

	assert.Nil(t, ErrNotFound.Details)
	assert.Equal(t, "record missing", detailed.Details)
	assert.True(t, errors.Is(detailed, ErrNotFound))
	assert.False(t, errors.Is(detailed, ErrConflict))
}

func TestAPIError_IsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("write profile: %w", ErrStorageFailure.WithDetails("disk full"))

	assert.True(t, errors.Is(err, ErrStorageFailure))
	apiErr, ok := IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, "STORAGE_FAILURE", apiErr.Code)
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(45, 2, 20)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	empty := NewPagination(0, 1, 20)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
}

func TestNormalizePage(t *testing.T) {
	assert.Equal(t, PageRequest{Page: 1, PageSize: DefaultPageSize}, NormalizePage(0, 0))
	assert.Equal(t, PageRequest{Page: 3, PageSize: MaxPageSize}, NormalizePage(3, 1000))
	assert.Equal(t, 40, NormalizePage(3, 20).Offset())
}
