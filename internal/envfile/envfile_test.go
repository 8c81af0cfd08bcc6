package envfile

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davrd/autorel/internal/logging"
	"github.com/davrd/autorel/internal/prompt"
)

func TestMissing_DeduplicatesAgainstExistingState(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GH_TOKEN=ghp_existing\n"), 0600))

	reqs := []Request{
		{Name: "GH_TOKEN", Message: "GitHub token"},
		{Name: "SLACK_TOKEN", Message: "Slack token"},
	}

	missing, err := Missing(path, reqs)
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, "SLACK_TOKEN", missing[0].Name)
}

func TestMissing_AbsentFileIsEmptyState(t *testing.T) {
	t.Parallel()

	reqs := []Request{{Name: "GH_TOKEN", Message: "GitHub token"}}
	missing, err := Missing(filepath.Join(t.TempDir(), ".env"), reqs)
	require.NoError(t, err)
	assert.Equal(t, reqs, missing)
}

func TestMissing_PreservesContributionOrder(t *testing.T) {
	t.Parallel()

	reqs := []Request{
		{Name: "B_TOKEN"},
		{Name: "A_TOKEN"},
		{Name: "B_TOKEN"}, // repeat keeps the first occurrence only
	}

	missing, err := Missing(filepath.Join(t.TempDir(), ".env"), reqs)
	require.NoError(t, err)
	require.Len(t, missing, 2)
	assert.Equal(t, "B_TOKEN", missing[0].Name)
	assert.Equal(t, "A_TOKEN", missing[1].Name)
}

func TestMissing_SkipsCommentsAndMalformedLines(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("# comment\nnot a pair\nGH_TOKEN=x\n"), 0600))

	missing, err := Missing(path, []Request{{Name: "GH_TOKEN"}, {Name: "OTHER"}})
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, "OTHER", missing[0].Name)
}

func newMaterializer(t *testing.T, dir, input string) *Materializer {
	t.Helper()
	var out bytes.Buffer
	return &Materializer{
		Path:        filepath.Join(dir, ".env"),
		IgnorePath:  filepath.Join(dir, ".gitignore"),
		IgnoreEntry: ".env",
		Prompter:    prompt.NewReaderWithIO(strings.NewReader(input), &out),
		Log:         logging.ForTest(t),
	}
}

func TestMaterialize_WritesValuesAndIgnoreEntry(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m := newMaterializer(t, dir, "y\nghp_secret\nxoxb-slack\n")

	wrote, err := m.Materialize([]Request{
		{Name: "GH_TOKEN", Message: "Enter a GitHub token"},
		{Name: "SLACK_TOKEN", Message: "Enter a Slack token"},
	})
	require.NoError(t, err)
	assert.True(t, wrote)

	env, err := os.ReadFile(m.Path)
	require.NoError(t, err)
	assert.Equal(t, "GH_TOKEN=ghp_secret\nSLACK_TOKEN=xoxb-slack\n", string(env))

	ignore, err := os.ReadFile(m.IgnorePath)
	require.NoError(t, err)
	assert.Contains(t, string(ignore), ".env\n")
}

func TestMaterialize_AppendsToExistingEnv(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m := newMaterializer(t, dir, "y\nvalue\n")
	require.NoError(t, os.WriteFile(m.Path, []byte("KEEP=old"), 0600))

	wrote, err := m.Materialize([]Request{{Name: "NEW_TOKEN", Message: "token"}})
	require.NoError(t, err)
	assert.True(t, wrote)

	env, err := os.ReadFile(m.Path)
	require.NoError(t, err)
	assert.Equal(t, "KEEP=old\nNEW_TOKEN=value\n", string(env))
}

func TestMaterialize_DeclinedSkipsWithoutError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m := newMaterializer(t, dir, "n\n")

	wrote, err := m.Materialize([]Request{{Name: "GH_TOKEN", Message: "token"}})
	require.NoError(t, err)
	assert.False(t, wrote)

	_, statErr := os.Stat(m.Path)
	assert.True(t, os.IsNotExist(statErr), "nothing written when declined")
}

func TestMaterialize_BlankAnswersAreSkipped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m := newMaterializer(t, dir, "y\n\nvalue\n")

	wrote, err := m.Materialize([]Request{
		{Name: "SKIPPED", Message: "skipped"},
		{Name: "KEPT", Message: "kept"},
	})
	require.NoError(t, err)
	assert.True(t, wrote)

	env, err := os.ReadFile(m.Path)
	require.NoError(t, err)
	assert.Equal(t, "KEPT=value\n", string(env))
}

func TestMaterialize_AllBlankWritesNothing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m := newMaterializer(t, dir, "y\n\n")

	wrote, err := m.Materialize([]Request{{Name: "GH_TOKEN", Message: "token"}})
	require.NoError(t, err)
	assert.False(t, wrote)

	_, statErr := os.Stat(m.Path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestMaterialize_NoRequestsIsNoop(t *testing.T) {
	t.Parallel()

	m := newMaterializer(t, t.TempDir(), "")
	wrote, err := m.Materialize(nil)
	require.NoError(t, err)
	assert.False(t, wrote)
}

func TestEnsureIgnored_Idempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".gitignore")
	require.NoError(t, os.WriteFile(path, []byte("node_modules/\n.env\n"), 0644))

	require.NoError(t, EnsureIgnored(path, ".env"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), ".env"))
}

func TestEnsureIgnored_CreatesMissingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".gitignore")
	require.NoError(t, EnsureIgnored(path, ".env"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ".env\n", string(data))
}

func TestEnsureIgnored_AppendsWithoutTrailingNewline(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".gitignore")
	require.NoError(t, os.WriteFile(path, []byte("dist/"), 0644))
	require.NoError(t, EnsureIgnored(path, ".env"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "dist/\n.env\n", string(data))
}
