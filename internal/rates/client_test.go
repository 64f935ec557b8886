package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const usdBody = `{"table":"C","currency":"dolar amerykański","code":"USD","rates":[{"no":"004/C/NBP/2025","effectiveDate":"2025-01-07","bid":4.1028,"ask":4.1856}]}`

func newFake(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/", NewHTTPClient(WithTimeout(time.Second)), zap.NewNop())
}

func TestGetRate_OK(t *testing.T) {
	var gotPath, gotAccept string
	c := newFake(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(usdBody))
	})

	rate, err := c.GetRate(context.Background(), "usd")
	require.NoError(t, err)
	assert.Equal(t, "/api/exchangerates/rates/C/USD/", gotPath)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "USD", rate.Code)
	assert.Equal(t, "4.1856", rate.Ask.String())
	assert.Equal(t, "2025-01-07", rate.Date.String())
}

func TestGetRate_NotFoundIsUnsupported(t *testing.T) {
	c := newFake(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "404 NotFound - Not Found - Brak danych", http.StatusNotFound)
	})

	_, err := c.GetRate(context.Background(), "AED")
	require.Error(t, err)
	assert.Equal(t, KindUnsupported, KindOf(err))
	assert.Equal(t, `Not supported currency "AED"`, err.Error())
}

func TestGetRate_TransientFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"bad request": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		},
		"not json": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>maintenance</html>"))
		},
		"empty rates": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"code":"USD","rates":[]}`))
		},
		"bad date": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"code":"USD","rates":[{"effectiveDate":"07.01.2025","ask":4.1}]}`))
		},
		"timeout": func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(1500 * time.Millisecond)
			_, _ = w.Write([]byte(usdBody))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			c := newFake(t, h)
			_, err := c.GetRate(context.Background(), "USD")
			require.Error(t, err)
			assert.Equal(t, KindTransient, KindOf(err))
		})
	}
}

func TestGetRate_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, nil, nil)
	_, err := c.GetRate(context.Background(), "USD")
	assert.Equal(t, KindTransient, KindOf(err))
}

func TestGetRate_CancelledContext(t *testing.T) {
	c := newFake(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(usdBody))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetRate(ctx, "USD")
	assert.Equal(t, KindTransient, KindOf(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPClient_CapsConcurrentRequests(t *testing.T) {
	var inFlight, peak int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		_, _ = w.Write([]byte(usdBody))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, NewHTTPClient(WithMaxConns(2), WithTimeout(5*time.Second)), zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.GetRate(context.Background(), "USD")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestHTTPClient_CapsConcurrentRequestsOverTLS(t *testing.T) {
	var inFlight, peak int32
	var protoMu sync.Mutex
	protos := map[string]bool{}
	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		protoMu.Lock()
		protos[r.Proto] = true
		protoMu.Unlock()
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		_, _ = w.Write([]byte(usdBody))
	}))
	srv.EnableHTTP2 = true
	srv.StartTLS()
	defer srv.Close()

	hc := NewHTTPClient(WithMaxConns(2), WithTimeout(5*time.Second))
	tr := hc.Transport.(*http.Transport)
	tr.TLSClientConfig = srv.Client().Transport.(*http.Transport).TLSClientConfig.Clone()
	c := NewClient(srv.URL, hc, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.GetRate(context.Background(), "USD")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
	assert.Equal(t, map[string]bool{"HTTP/1.1": true}, protos)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNone, KindOf(nil))
	assert.Equal(t, KindNone, KindOf(context.Canceled))
	assert.Equal(t, "transient", KindTransient.String())
}
