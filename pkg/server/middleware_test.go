package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	testhelper "github.com/mrincompetent/pivpn-exporter/pkg/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	log, logOutput := testhelper.Logger()
	handler := RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/brew", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	require.NoError(t, log.Sync())
	assert.Contains(t, logOutput.String(), `debug	Served request	{"method": "POST", "path": "/brew", "remote": "192.0.2.1:1234", "status": 418, "duration": `)
}
