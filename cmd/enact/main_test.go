package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliTestSecret = "this-is-a-32-character-test-secret!"

func setCLIEnv(t *testing.T, receiptsDir, manifestPath string) {
	t.Helper()
	t.Setenv("ENACT_SECRET", cliTestSecret)
	t.Setenv("ENACT_RECEIPTS_DIR", receiptsDir)
	t.Setenv("ENACT_MANIFEST", manifestPath)
	t.Setenv("ENACT_ALLOW_INSECURE_SECRET", "")
	t.Setenv("TICKETS_DATABASE_URL", "")
}

func writeManifest(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "workflows.yaml")
	body := "workflows:\n  - name: noop\n    steps: []\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRun_NoStepWorkflowPasses(t *testing.T) {
	dir := t.TempDir()
	setCLIEnv(t, dir, writeManifest(t, dir))

	payloadPath := filepath.Join(dir, "payload.json")
	require.NoError(t, os.WriteFile(payloadPath, []byte(`{}`), 0o644))

	var stdout, stderr bytes.Buffer
	code := Run([]string{"enact", "run", "--workflow", "noop", "--user", "a@x.com", "--payload", payloadPath}, &stdout, &stderr)

	assert.Equal(t, 0, code, "stderr: %s", stderr.String())
	assert.Contains(t, stdout.String(), "PASS")
}

func TestRun_MissingFlagsIsUsageError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run([]string{"enact", "run"}, &stdout, &stderr)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "required")
	assert.Contains(t, stderr.String(), "--workflow")
}

func TestVerify_RoundTripAfterRun(t *testing.T) {
	dir := t.TempDir()
	setCLIEnv(t, dir, writeManifest(t, dir))

	payloadPath := filepath.Join(dir, "payload.json")
	require.NoError(t, os.WriteFile(payloadPath, []byte(`{}`), 0o644))

	var runOut bytes.Buffer
	code := Run([]string{"enact", "run", "--workflow", "noop", "--user", "a@x.com", "--payload", payloadPath, "--json"}, &runOut, &runOut)
	require.Equal(t, 0, code, runOut.String())

	runID := extractRunID(t, runOut.String())

	var verifyOut bytes.Buffer
	code = Run([]string{"enact", "verify", "--run-id", runID}, &verifyOut, &verifyOut)
	assert.Equal(t, 0, code)
	assert.Contains(t, verifyOut.String(), "verified:")
}

func TestRollback_RoundTripAfterRun(t *testing.T) {
	dir := t.TempDir()
	setCLIEnv(t, dir, writeManifest(t, dir))

	payloadPath := filepath.Join(dir, "payload.json")
	require.NoError(t, os.WriteFile(payloadPath, []byte(`{}`), 0o644))

	var runOut bytes.Buffer
	code := Run([]string{"enact", "run", "--workflow", "noop", "--user", "a@x.com", "--payload", payloadPath, "--json"}, &runOut, &runOut)
	require.Equal(t, 0, code, runOut.String())
	runID := extractRunID(t, runOut.String())

	var rbOut bytes.Buffer
	code = Run([]string{"enact", "rollback", "--run-id", runID}, &rbOut, &rbOut)
	assert.Equal(t, 0, code, rbOut.String())
	assert.Contains(t, rbOut.String(), "ROLLED_BACK")
}

func TestUnknownCommandIsUsageError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run([]string{"enact", "bogus"}, &stdout, &stderr)
	assert.Equal(t, 2, code)
}

// extractRunID pulls "runID": "..." out of a --json run receipt without
// pulling in a throwaway struct just for this test.
func extractRunID(t *testing.T, jsonOut string) string {
	t.Helper()
	idx := strings.Index(jsonOut, `"runID": "`)
	require.GreaterOrEqual(t, idx, 0, "no runID field in output: %s", jsonOut)
	rest := jsonOut[idx+len(`"runID": "`):]
	end := strings.Index(rest, `"`)
	require.GreaterOrEqual(t, end, 0)
	return rest[:end]
}
