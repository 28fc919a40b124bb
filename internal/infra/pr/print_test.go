package pr_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peerwatch/internal/infra/pr"
)

func TestReadLineWithoutInit(t *testing.T) {
	_, err := pr.ReadLine("> ")
	require.ErrorIs(t, err, io.EOF)
}

func TestPf(t *testing.T) {
	type pair struct {
		Kind string
		ID   int64
	}
	got := pr.Pf(pair{Kind: "user", ID: 7})
	assert.Contains(t, got, `"user"`)
	assert.Contains(t, got, "pair")
	assert.Contains(t, got, "7")
}
