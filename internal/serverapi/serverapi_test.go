package serverapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"zlbots/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerApi_GetActiveServers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte(`{"success":true,"activeServers":[{"gameInstanceId":"abc","placeId":"1"}]}`))
		case "/unavailable":
			_, _ = w.Write([]byte(`{"success":false}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer server.Close()

	t.Run("servers are returned", func(t *testing.T) {
		servers, err := NewServerApi(server.URL+"/ok", nil).GetActiveServers(context.Background())
		require.NoError(t, err)
		require.Len(t, servers, 1)
		assert.Equal(t, Text("abc"), servers[0].GameInstanceId)
	})

	t.Run("bad status", func(t *testing.T) {
		_, err := NewServerApi(server.URL+"/broken", nil).GetActiveServers(context.Background())
		var statusErr *common.StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	})

	t.Run("unavailable", func(t *testing.T) {
		_, err := NewServerApi(server.URL+"/unavailable", nil).GetActiveServers(context.Background())
		assert.True(t, errors.Is(err, ErrUnavailable))
	})
}
