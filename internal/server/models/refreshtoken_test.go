package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRefreshToken_Expired(t *testing.T) {
	at := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tok := &RefreshToken{Expires: at}

	assert.False(t, tok.Expired(at.Add(-time.Second)))
	assert.True(t, tok.Expired(at))
	assert.True(t, tok.Expired(at.Add(time.Second)))
}
