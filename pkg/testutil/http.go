// Package testutil holds helpers shared by handler tests: request
// building against an httptest server and envelope decoding.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// DoJSON issues a request with a JSON body (nil for none) and returns the
// response. A non-empty token is sent as a bearer credential.
func DoJSON(t *testing.T, client *http.Client, method, url, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

// Decode reads the response body into out and closes it.
func Decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// Envelope is a generic response body: one resource field or an error.
type Envelope map[string]json.RawMessage

// Field unmarshals a named envelope field into out, failing the test if
// the field is absent.
func (e Envelope) Field(t *testing.T, name string, out any) {
	t.Helper()
	raw, ok := e[name]
	require.True(t, ok, "envelope missing field %q", name)
	require.NoError(t, json.Unmarshal(raw, out))
}

// ReadEnvelope decodes the body into an Envelope.
func ReadEnvelope(t *testing.T, resp *http.Response) Envelope {
	t.Helper()
	var env Envelope
	Decode(t, resp, &env)
	return env
}
