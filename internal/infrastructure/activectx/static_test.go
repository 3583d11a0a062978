package activectx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/recall/internal/domain/entity"
)

func TestStaticResolver_Empty(t *testing.T) {
	r := NewStaticResolver()

	v, err := r.ResolveActive(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestStaticResolver_HintAndDefault(t *testing.T) {
	r := NewStaticResolver()
	r.SetDefault(entity.NewVisit("https://default.example", "Default"))
	r.Set("tab-2", entity.NewVisit("https://tab2.example", "Tab 2"))

	v, err := r.ResolveActive(context.Background(), "tab-2")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "https://tab2.example", v.URL)

	v, err = r.ResolveActive(context.Background(), "tab-9")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "https://default.example", v.URL)

	r.Remove("tab-2")
	v, err = r.ResolveActive(context.Background(), "tab-2")
	require.NoError(t, err)
	assert.Equal(t, "https://default.example", v.URL)
}

func TestStaticResolver_ClearDefault(t *testing.T) {
	r := NewStaticResolver()
	r.SetDefault(entity.NewVisit("https://default.example", ""))
	r.SetDefault(entity.NewVisit("  ", ""))

	v, err := r.ResolveActive(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestStaticResolver_ReturnsCopy(t *testing.T) {
	r := NewStaticResolver()
	r.SetDefault(entity.NewVisit("https://default.example", "Default"))

	v, err := r.ResolveActive(context.Background(), "")
	require.NoError(t, err)
	v.Title = "mutated"

	again, err := r.ResolveActive(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "Default", again.Title)
}

func TestStaticResolver_CanceledContext(t *testing.T) {
	r := NewStaticResolver()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.ResolveActive(ctx, "")
	require.ErrorIs(t, err, context.Canceled)
}
