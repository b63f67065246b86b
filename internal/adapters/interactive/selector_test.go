package interactive

import (
	"context"
	"testing"

	"github.com/buidlhub/buidl-cli/internal/domain/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmNonInteractive(t *testing.T) {
	s := NewSelectorAdapter(&config.RuntimeConfig{NonInteractive: true})

	ok, err := s.Confirm(context.Background(), "Deploy to mumbai?")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.SelectNetwork(context.Background(), []string{"hardhat", "mumbai"}, "network")
	assert.Error(t, err)
}

func TestFuzzySearch(t *testing.T) {
	items := []string{"hardhat", "localhost", "mumbai"}
	search := createFuzzySearchFunc(items)

	assert.True(t, search("", 0))
	assert.True(t, search("HARD", 0))
	assert.True(t, search("mmb", 2))
	assert.False(t, search("xyz", 1))
}
