package hooks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davrd/autorel/internal/errors"
	"github.com/davrd/autorel/internal/logging"
)

func TestBail_FirstResultWins(t *testing.T) {
	t.Parallel()

	h := NewBail[string, string]("configure-plugin")
	var invoked []string

	h.Tap("a", func(_ context.Context, _ string) (string, bool, error) {
		invoked = append(invoked, "a")
		return "", false, nil
	})
	h.Tap("b", func(_ context.Context, _ string) (string, bool, error) {
		invoked = append(invoked, "b")
		return "X", true, nil
	})
	h.Tap("c", func(_ context.Context, _ string) (string, bool, error) {
		invoked = append(invoked, "c")
		return "Y", true, nil
	})

	result, ok, err := h.Run(context.Background(), logging.ForTest(t), "npm")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "X", result)
	assert.Equal(t, []string{"a", "b"}, invoked, "c must never be invoked")
}

func TestBail_ZeroHandlers(t *testing.T) {
	t.Parallel()

	h := NewBail[string, string]("resolve-repository")

	result, ok, err := h.Run(context.Background(), logging.ForTest(t), "")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, result)
}

func TestBail_AllPass(t *testing.T) {
	t.Parallel()

	h := NewBail[string, int]("h")
	h.Tap("a", func(_ context.Context, _ string) (int, bool, error) { return 0, false, nil })
	h.Tap("b", func(_ context.Context, _ string) (int, bool, error) { return 0, false, nil })

	_, ok, err := h.Run(context.Background(), logging.ForTest(t), "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBail_DefaultRegisteredLastRuns(t *testing.T) {
	t.Parallel()

	h := NewBail[string, string]("resolve-author")
	h.Tap("plugin", func(_ context.Context, _ string) (string, bool, error) {
		return "", false, nil
	})
	h.Tap("default", func(_ context.Context, _ string) (string, bool, error) {
		return "fallback", true, nil
	})

	result, ok, err := h.Run(context.Background(), logging.ForTest(t), "")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "fallback", result)
}

func TestBail_HandlerErrorAborts(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	h := NewBail[string, string]("h")
	h.Tap("a", func(_ context.Context, _ string) (string, bool, error) {
		return "", false, boom
	})
	h.Tap("b", func(_ context.Context, _ string) (string, bool, error) {
		t.Fatal("must not run after an error")
		return "", false, nil
	})

	_, ok, err := h.Run(context.Background(), logging.ForTest(t), "")
	assert.False(t, ok)
	assert.True(t, errors.Is(err, boom))
}

func TestWaterfall_ThreadsAccumulatorInOrder(t *testing.T) {
	t.Parallel()

	h := NewWaterfall[[]string]("collect-env")
	h.Tap("a", func(_ context.Context, acc []string) ([]string, error) {
		return append(acc, "a"), nil
	})
	h.Tap("b", func(_ context.Context, acc []string) ([]string, error) {
		return append(acc, "b"), nil
	})

	out, err := h.Run(context.Background(), logging.ForTest(t), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, out)
}

func TestWaterfall_ZeroHandlersReturnsSeed(t *testing.T) {
	t.Parallel()

	h := NewWaterfall[[]string]("collect-env")
	seed := []string{"seed"}

	out, err := h.Run(context.Background(), logging.ForTest(t), seed)
	require.NoError(t, err)
	assert.Equal(t, seed, out)
}

func TestWaterfall_HandlerMayLeaveAccumulatorUnchanged(t *testing.T) {
	t.Parallel()

	h := NewWaterfall[[]string]("collect-env")
	h.Tap("noop", func(_ context.Context, acc []string) ([]string, error) {
		return acc, nil
	})
	h.Tap("adds", func(_ context.Context, acc []string) ([]string, error) {
		return append(acc, "x"), nil
	})

	out, err := h.Run(context.Background(), logging.ForTest(t), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, out)
}

func TestWaterfall_HandlerErrorAborts(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	h := NewWaterfall[int]("h")
	h.Tap("a", func(_ context.Context, acc int) (int, error) { return acc + 1, nil })
	h.Tap("b", func(_ context.Context, _ int) (int, error) { return 0, boom })
	h.Tap("c", func(_ context.Context, _ int) (int, error) {
		t.Fatal("must not run after an error")
		return 0, nil
	})

	_, err := h.Run(context.Background(), logging.ForTest(t), 0)
	assert.True(t, errors.Is(err, boom))
}

func TestLen(t *testing.T) {
	t.Parallel()

	b := NewBail[string, string]("b")
	assert.Equal(t, 0, b.Len())
	b.Tap("x", func(_ context.Context, _ string) (string, bool, error) { return "", false, nil })
	assert.Equal(t, 1, b.Len())

	w := NewWaterfall[int]("w")
	assert.Equal(t, 0, w.Len())
	w.Tap("x", func(_ context.Context, acc int) (int, error) { return acc, nil })
	assert.Equal(t, 1, w.Len())
}
