package receipt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/russellmiller3/enact/pkg/receipt"
)

func TestAuditLog_AppendLinksHashes(t *testing.T) {
	log := receipt.NewAuditLog()

	e1, err := log.Append("run-1", "PASS")
	require.NoError(t, err)
	assert.Empty(t, e1.PreviousHash)
	assert.NotEmpty(t, e1.Hash)

	e2, err := log.Append("run-2", "BLOCK")
	require.NoError(t, err)
	assert.Equal(t, e1.Hash, e2.PreviousHash)

	require.NoError(t, log.VerifyChain())
}

func TestAuditLog_VerifyChainDetectsTampering(t *testing.T) {
	log := receipt.NewAuditLog()
	_, err := log.Append("run-1", "PASS")
	require.NoError(t, err)
	_, err = log.Append("run-2", "BLOCK")
	require.NoError(t, err)

	entries := log.Entries()
	entries[0].Decision = "PASS_TAMPERED"

	tampered := receipt.NewAuditLog()
	for _, e := range entries {
		tampered.AppendRaw(e)
	}
	assert.Error(t, tampered.VerifyChain())
}

func TestAuditLog_EmptyChainIsValid(t *testing.T) {
	log := receipt.NewAuditLog()
	assert.NoError(t, log.VerifyChain())
}
