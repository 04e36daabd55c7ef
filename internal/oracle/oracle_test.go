package oracle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBatch_CommitmentRoundTrip(t *testing.T) {
	b, err := NewBatch(16, 8)
	require.NoError(t, err)
	assert.Equal(t, uint64(16), b.Start)
	assert.Len(t, b.SeedHex(), 64)
	assert.Len(t, b.Commitment(), 64)

	seed, err := ParseSeed(b.SeedHex())
	require.NoError(t, err)
	assert.Equal(t, b.Seed, seed)
	assert.True(t, Verify(seed, strings.ToUpper(b.Commitment())))

	other, err := NewBatch(16, 8)
	require.NoError(t, err)
	assert.NotEqual(t, b.Seed, other.Seed)
	assert.False(t, Verify(other.Seed, b.Commitment()))
}

func TestParseSeed(t *testing.T) {
	_, err := ParseSeed("0x" + strings.Repeat("ab", 32))
	require.NoError(t, err)

	for _, in := range []string{"", "zz", strings.Repeat("ab", 31), strings.Repeat("ab", 33)} {
		_, err := ParseSeed(in)
		assert.ErrorIs(t, err, ErrInvalidSeed, in)
	}
}

func TestClient_Refill(t *testing.T) {
	var got RefillRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/pools/3/refill", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":3,"total_available":8,"global_next_index":8}`))
	}))
	defer srv.Close()

	b, err := NewBatch(0, 8)
	require.NoError(t, err)
	st, err := NewClient(srv.URL+"/", "tok").Refill(context.Background(), 3, b)
	require.NoError(t, err)
	assert.Equal(t, uint64(8), st.GlobalNextIndex)
	assert.Equal(t, b.SeedHex(), got.Seed)
	assert.Equal(t, uint32(8), got.Count)
}

func TestClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"seed replay"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").Pool(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "409")
}
