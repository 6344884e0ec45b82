package providers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/o-sovereign/acsa-orchestrator/core"
)

func TestApplyDefaultsFillsZeroValues(t *testing.T) {
	client := NewBaseClient("provider/test", 10*time.Second, nil)
	client.DefaultMaxTokens = 1000
	client.DefaultTemperature = 0.7

	tokens, temp := client.ApplyDefaults(0, 0)
	assert.Equal(t, uint32(1000), tokens)
	assert.Equal(t, 0.7, temp)

	tokens, temp = client.ApplyDefaults(500, 0.2)
	assert.Equal(t, uint32(500), tokens)
	assert.Equal(t, 0.2, temp)
}

func TestHandleErrorMapsStatusCodes(t *testing.T) {
	client := NewBaseClient("provider/test", 10*time.Second, nil)

	err := client.HandleError("openai", http.StatusUnauthorized, []byte("bad key"))
	assert.ErrorIs(t, err, core.ErrConfigMissing)

	err = client.HandleError("openai", http.StatusTooManyRequests, []byte("slow down"))
	assert.ErrorIs(t, err, core.ErrProviderTransport)

	err = client.HandleError("openai", http.StatusBadRequest, []byte("bad request"))
	assert.ErrorIs(t, err, core.ErrProviderTransport)

	err = client.HandleError("openai", http.StatusInternalServerError, []byte("oops"))
	assert.ErrorIs(t, err, core.ErrProviderTransport)
}
