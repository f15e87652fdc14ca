package plugin

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoTag(name string) TemplateTag {
	return TemplateTag{
		Name: name,
		Args: []Arg{
			{DisplayName: "A", Type: "string"},
			{DisplayName: "B", Type: "string", Optional: true},
		},
		Run: func(_ context.Context, args ...string) (string, error) {
			out := ""
			for _, a := range args {
				out += "[" + a + "]"
			}
			return out, nil
		},
	}
}

func TestRegistryRegisterAndInvoke(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterTemplateTag(echoTag("echo")))

	out, err := r.Invoke(context.Background(), "echo", "x")
	require.NoError(t, err)
	assert.Equal(t, "[x]", out)

	out, err = r.Invoke(context.Background(), "echo", "x", "y")
	require.NoError(t, err)
	assert.Equal(t, "[x][y]", out)

	_, err = r.Invoke(context.Background(), "echo")
	assert.ErrorContains(t, err, "needs 1 arguments")

	_, err = r.Invoke(context.Background(), "echo", "1", "2", "3")
	assert.ErrorContains(t, err, "at most 2 arguments")

	_, err = r.Invoke(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUnknownTag)
}

func TestRegistryRejectsInvalidTags(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterTemplateTag(echoTag("echo")))

	assert.ErrorIs(t, r.RegisterTemplateTag(echoTag("echo")), ErrDuplicateTag)
	assert.Error(t, r.RegisterTemplateTag(TemplateTag{Name: "no-run"}))
	assert.Error(t, r.RegisterTemplateTag(TemplateTag{Run: echoTag("x").Run}))
	assert.Len(t, r.Tags(), 1)
}

func TestRegistryShutdownOrder(t *testing.T) {
	r := NewRegistry()

	var order []string
	r.OnShutdown(func(context.Context) error {
		order = append(order, "first")
		return errors.New("first failed")
	})
	r.OnShutdown(func(context.Context) error {
		order = append(order, "second")
		return nil
	})

	err := r.Shutdown(context.Background())
	assert.ErrorContains(t, err, "first failed")
	assert.Equal(t, []string{"second", "first"}, order)

	// hooks run once
	assert.NoError(t, r.Shutdown(context.Background()))
	assert.Len(t, order, 2)
}
