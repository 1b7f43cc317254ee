package asciiart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBudgetAccounting(t *testing.T) {
	budget := NewMemoryBudget(1000)
	assert.Equal(t, 1000, budget.Limit())
	assert.Equal(t, 0, budget.Reserved())
	assert.Equal(t, 1000, budget.Available())

	buf, err := NewPixelBuffer(10, 10, budget) // 300 bytes
	require.NoError(t, err)
	assert.Equal(t, 300, budget.Reserved())
	assert.Equal(t, 700, budget.Available())

	buf.Release()
	assert.Equal(t, 0, budget.Reserved())

	// Releasing twice must not go negative.
	buf.Release()
	assert.Equal(t, 0, budget.Reserved())
}

func TestMemoryBudgetDefaultLimit(t *testing.T) {
	assert.Equal(t, LargeBudget, NewMemoryBudget(0).Limit())
	assert.Equal(t, LargeBudget, NewMemoryBudget(-5).Limit())
}

func TestNewPixelBuffer(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		limit   int
		wantErr error
	}{
		{name: "fits exactly", w: 10, h: 10, limit: 300},
		{name: "over budget", w: 10, h: 10, limit: 299, wantErr: ErrOutOfMemory},
		{name: "zero width", w: 0, h: 10, limit: 1000, wantErr: ErrAllocationFailure},
		{name: "negative height", w: 10, h: -1, limit: 1000, wantErr: ErrAllocationFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			budget := NewMemoryBudget(tt.limit)
			buf, err := NewPixelBuffer(tt.w, tt.h, budget)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, 0, budget.Reserved())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.w*tt.h*3, buf.Size())
			buf.Release()
		})
	}
}

func TestPixelBufferUnbudgeted(t *testing.T) {
	buf, err := NewPixelBuffer(4, 4, nil)
	require.NoError(t, err)
	buf.Set(1, 2, 10, 20, 30)
	r, g, b := buf.At(1, 2)
	assert.Equal(t, [3]uint8{10, 20, 30}, [3]uint8{r, g, b})
	buf.Release()
}

func TestPixelBufferClone(t *testing.T) {
	budget := NewMemoryBudget(1000)
	buf, err := NewPixelBuffer(5, 5, budget)
	require.NoError(t, err)
	buf.Set(2, 3, 1, 2, 3)

	dup, err := buf.Clone()
	require.NoError(t, err)
	assert.Equal(t, 150, budget.Reserved(), "clone reserves from the same budget")

	r, g, b := dup.At(2, 3)
	assert.Equal(t, [3]uint8{1, 2, 3}, [3]uint8{r, g, b})

	// Writes to the clone do not leak back.
	dup.Set(2, 3, 9, 9, 9)
	r, _, _ = buf.At(2, 3)
	assert.Equal(t, uint8(1), r)

	dup.Release()
	buf.Release()
	assert.Equal(t, 0, budget.Reserved())
}

func TestPixelBufferCloneOverBudget(t *testing.T) {
	budget := NewMemoryBudget(100) // 5x5x3=75 fits once, not twice
	buf, err := NewPixelBuffer(5, 5, budget)
	require.NoError(t, err)
	defer buf.Release()

	_, err = buf.Clone()
	assert.ErrorIs(t, err, ErrOutOfMemory)
	assert.Equal(t, 75, budget.Reserved(), "failed clone must not leak reservation")
}
