package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedBody = "time,latitude,longitude,depth,mag,place,type,id\n" +
	"2024-03-01T12:00:00Z,38.8,-122.8,2.1,1.2,\"7km NW of The Geysers, CA\",earthquake,nc100\n" +
	"2024-03-02T08:30:00Z,19.4,-155.3,30.5,2.8,\"5km S of Volcano, Hawaii\",earthquake,hv200\n"

func TestClientLoad(t *testing.T) {
	t.Run("fetches and normalizes the feed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/csv")
			_, _ = w.Write([]byte(feedBody))
		}))
		defer srv.Close()

		client := NewClient(WithURL(srv.URL))
		table, report, err := client.Load(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 2, table.Len())
		assert.Equal(t, []string{"CA", "Hawaii"}, table.Regions)
		assert.Equal(t, 2, report.Kept)
	})

	t.Run("non-2xx status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "upstream broken", http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := NewClient(WithURL(srv.URL))
		_, _, err := client.Load(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrFeedStatus)
	})

	t.Run("unreachable host is a fetch error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		srv.Close()

		client := NewClient(WithURL(srv.URL))
		_, _, err := client.Load(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrFetchFeed)
	})

	t.Run("malformed csv body is a parse error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("time,place\n2024-03-01T00:00:00Z,\"unterminated\n"))
		}))
		defer srv.Close()

		client := NewClient(WithURL(srv.URL))
		_, _, err := client.Load(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrParseFeed)
	})

	t.Run("slow upstream trips the client timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(feedBody))
		}))
		defer srv.Close()

		client := NewClient(WithURL(srv.URL), WithTimeout(20*time.Millisecond))
		_, _, err := client.Load(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrFetchFeed)
	})

	t.Run("canceled context aborts the fetch", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(feedBody))
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := NewClient(WithURL(srv.URL))
		_, _, err := client.Load(ctx)
		assert.ErrorIs(t, err, ErrFetchFeed)
	})
}

func TestClientOptions(t *testing.T) {
	t.Run("defaults to the USGS monthly feed", func(t *testing.T) {
		assert.Contains(t, NewClient().URL(), "earthquake.usgs.gov")
	})

	t.Run("ignores an empty url", func(t *testing.T) {
		assert.Equal(t, NewClient().URL(), NewClient(WithURL("")).URL())
	})

	t.Run("custom http client is used", func(t *testing.T) {
		custom := &http.Client{Timeout: time.Second}
		client := NewClient(WithHTTPClient(custom))
		assert.Same(t, custom, client.httpClient)
	})
}
