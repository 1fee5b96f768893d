package document

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chapool/go-docseal/internal/seal"
	"github.com/chapool/go-docseal/internal/test"
	"github.com/chapool/go-docseal/internal/test/sorobantest"
	"github.com/stellar/go/keypair"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := New()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestHash(t *testing.T) {
	content := []byte("diploma")
	path := filepath.Join(t.TempDir(), "diploma.txt")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	out, err := run(t, "hash", path, "--vc-text", "credential")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, seal.Digest(content), lines[0])
	assert.Equal(t, seal.DigestText("credential"), lines[1])

	_, err = run(t, "hash", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestStatusAndSeal(t *testing.T) {
	node := sorobantest.NewNode(t)
	signer := keypair.MustRandom()
	cfg := test.NewTestConfig(t, node, signer)

	t.Setenv("SOROBAN_RPC_URLS", node.URL())
	t.Setenv("SOROBAN_CONTRACT_ID", cfg.Soroban.ContractID)
	t.Setenv("SOROBAN_POLL_INTERVAL", "5ms")
	t.Setenv("WALLET_SECRET_SEED", signer.Seed())
	t.Setenv("SERVER_LOGGER_LEVEL", "error")

	out, err := run(t, "status", strings.Repeat("ab", 32))
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "SUCCESS"`)

	path := filepath.Join(t.TempDir(), "diploma.txt")
	require.NoError(t, os.WriteFile(path, []byte("diploma"), 0o600))

	out, err = run(t, "seal", path, "--first", "--student-name", "Ayse", "--max-signers", "2")
	require.NoError(t, err, out)
	assert.Contains(t, out, `"hash"`)
	require.Len(t, node.Sent(), 1)

	_, err = run(t, "seal", path, "--student-name", "Ayse", "--max-signers", "2", "--allowed-signer", "nope")
	require.Error(t, err)
	require.Len(t, node.Sent(), 1)
}
