package simba_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SIMBAChain/simba-sdk-go/pkg/simba"
)

func TestResponseJSON(t *testing.T) {
	t.Parallel()

	resp := &simba.Response{
		StatusCode: http.StatusOK,
		Body:       []byte(`{"name": "minter", "version": 3}`),
	}

	var payload struct {
		Name    string `json:"name"`
		Version int    `json:"version"`
	}

	require.NoError(t, resp.JSON(&payload))
	assert.Equal(t, "minter", payload.Name)
	assert.Equal(t, 3, payload.Version)
}

func TestResponseJSONInvalid(t *testing.T) {
	t.Parallel()

	resp := &simba.Response{StatusCode: http.StatusOK, Body: []byte("not json")}

	var payload map[string]interface{}

	err := resp.JSON(&payload)
	require.Error(t, err)
	assert.ErrorContains(t, err, "decoding response body")
}

func TestResponseText(t *testing.T) {
	t.Parallel()

	resp := &simba.Response{Body: []byte("plain text")}

	assert.Equal(t, "plain text", resp.Text())
}
