package templates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPAPIResolver_Lookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/json/203.0.113.9", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"success","country":"United States","regionName":"North Carolina","city":"Charlotte","timezone":"America/New_York"}`))
	}))
	defer srv.Close()

	g, err := IPAPIResolver{Client: srv.Client(), BaseURL: srv.URL}.Lookup(context.Background(), "203.0.113.9")
	require.NoError(t, err)
	assert.Equal(t, "Charlotte, North Carolina, United States", FormatGeo(g))
	assert.Equal(t, "America/New_York", g.Timezone)
}

func TestIPAPIResolver_Failures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail","message":"reserved range"}`))
	}))
	defer srv.Close()
	r := IPAPIResolver{Client: srv.Client(), BaseURL: srv.URL}

	_, err := r.Lookup(context.Background(), "203.0.113.9")
	assert.ErrorContains(t, err, "reserved range")

	for _, ip := range []string{"", "nope", "127.0.0.1", "10.1.2.3", "192.168.0.4"} {
		_, err := r.Lookup(context.Background(), ip)
		assert.ErrorIs(t, err, ErrGeoUnresolvable, ip)
	}
}

func TestFormatGeo_SkipsBlanks(t *testing.T) {
	assert.Equal(t, "Charlotte, United States", FormatGeo(Geo{City: " Charlotte ", Country: "United States"}))
	assert.Empty(t, FormatGeo(Geo{}))
}
