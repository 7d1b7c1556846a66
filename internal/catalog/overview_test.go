package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/travel-guide/internal/catalog"
	"github.com/neexbeast/travel-guide/internal/latency"
)

func TestOverview_Success(t *testing.T) {
	ov, err := newService().Overview(context.Background(), "paris")
	require.NoError(t, err)
	require.NotNil(t, ov)

	assert.Equal(t, "Paris", ov.Destination.Name)
	require.Len(t, ov.Places.Attractions, 1)
	require.Len(t, ov.Places.Food, 1)
	require.Len(t, ov.Places.Hotels, 1)
	require.Len(t, ov.Places.Culture, 1)
	assert.Equal(t, "Louvre", ov.Places.Culture[0].Name)
	assert.Len(t, ov.Markers, 4)
}

func TestOverview_UnknownDestination(t *testing.T) {
	ov, err := newService().Overview(context.Background(), "atlantis")
	require.NoError(t, err)
	assert.Nil(t, ov)
}

func TestOverview_DestinationFailureIsFatal(t *testing.T) {
	s := catalog.NewService(sampleCatalog(), failing(latency.OpCatalog))

	_, err := s.Overview(context.Background(), "paris")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading overview")
}

func TestOverview_Parallel(t *testing.T) {
	// Six loads of 50ms each must finish well under their serial sum.
	s := catalog.NewService(sampleCatalog(), latency.NewSimulator(latency.Config{Catalog: 50 * time.Millisecond}))

	start := time.Now()
	ov, err := s.Overview(context.Background(), "paris")
	require.NoError(t, err)
	require.NotNil(t, ov)
	assert.Less(t, time.Since(start), 250*time.Millisecond)
}
