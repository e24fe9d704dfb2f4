package retrieval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schema-link/internal/config"
)

func testRetrievalConfig() *config.RetrievalConfig {
	return &config.RetrievalConfig{KSearch: 10, RRFK: 60, TokenBudget: 500}
}

func TestHybridRetrieveFusesBothProviders(t *testing.T) {
	semantic := &fakeProvider{
		ranks: []string{"Orders", "Customers"},
		content: map[string]string{
			"Orders":    "# Table: Orders",
			"Customers": "# Table: Customers",
			"Shipments": "# Table: Shipments",
		},
	}
	lexical := &fakeProvider{ranks: []string{"Customers", "Shipments"}}

	r := NewHybridRetriever(semantic, lexical, testRetrievalConfig())
	rc, err := r.Retrieve(context.Background(), "total order amount for key accounts")

	require.NoError(t, err)
	require.Len(t, rc.Chunks, 3)
	// Customers in both lists outranks single-list entries.
	assert.Equal(t, "Customers", rc.Chunks[0].TableName)
	assert.Equal(t, 1, semantic.calls)
	assert.Equal(t, 1, lexical.calls)
}

func TestHybridRetrieveDegradesOnProviderFailure(t *testing.T) {
	semantic := &fakeProvider{
		ranks:   []string{"Orders"},
		content: map[string]string{"Orders": "# Table: Orders"},
	}
	lexical := &fakeProvider{fail: true}

	r := NewHybridRetriever(semantic, lexical, testRetrievalConfig())
	rc, err := r.Retrieve(context.Background(), "orders")

	require.NoError(t, err)
	require.Len(t, rc.Chunks, 1)
	assert.Equal(t, "Orders", rc.Chunks[0].TableName)
}

func TestHybridRetrieveEmptyContextIsAnError(t *testing.T) {
	r := NewHybridRetriever(&fakeProvider{fail: true}, &fakeProvider{fail: true}, testRetrievalConfig())

	rc, err := r.Retrieve(context.Background(), "anything")

	assert.ErrorIs(t, err, ErrNoContext)
	assert.Empty(t, rc.Chunks)
}

func TestHybridRetrieveHonorsKSearch(t *testing.T) {
	semantic := &fakeProvider{
		ranks:   []string{"A", "B", "C"},
		content: map[string]string{"A": "a", "B": "b", "C": "c"},
	}
	cfg := &config.RetrievalConfig{KSearch: 2, RRFK: 60, TokenBudget: 500}

	r := NewHybridRetriever(semantic, &fakeProvider{}, cfg)
	rc, err := r.Retrieve(context.Background(), "q")

	require.NoError(t, err)
	assert.Len(t, rc.Chunks, 2)
}
