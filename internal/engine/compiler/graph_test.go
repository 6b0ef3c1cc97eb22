package compiler_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/engine/compiler"
)

func cmd(name string, deps ...string) *domain.WriteCommand {
	return &domain.WriteCommand{Bundle: name, Dependencies: deps}
}

func names(cmds []*domain.WriteCommand) []string {
	out := make([]string, len(cmds))
	for i, c := range cmds {
		out[i] = c.Bundle
	}
	return out
}

func TestGraph_Closure(t *testing.T) {
	t.Parallel()

	g, err := compiler.NewGraph([]*domain.WriteCommand{
		cmd("ui", "shared", "fonts"),
		cmd("fonts", "shared"),
		cmd("shared"),
		cmd("level", "ui"),
	})
	require.NoError(t, err)

	closure, err := g.Closure("level")
	require.NoError(t, err)
	assert.Equal(t, []string{"fonts", "shared", "ui"}, names(closure))

	closure, err = g.Closure("shared")
	require.NoError(t, err)
	assert.Empty(t, closure)
}

func TestGraph_ClosureToleratesCycles(t *testing.T) {
	t.Parallel()

	g, err := compiler.NewGraph([]*domain.WriteCommand{
		cmd("a", "b"),
		cmd("b", "c"),
		cmd("c", "a"),
	})
	require.NoError(t, err)

	closure, err := g.Closure("a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, names(closure))
}

func TestGraph_Errors(t *testing.T) {
	t.Parallel()

	_, err := compiler.NewGraph([]*domain.WriteCommand{cmd("a"), cmd("a")})
	require.ErrorContains(t, err, domain.ErrDuplicateBundle.Error())

	_, err = compiler.NewGraph([]*domain.WriteCommand{cmd("a", "ghost")})
	require.ErrorContains(t, err, domain.ErrMissingDependency.Error())

	g, err := compiler.NewGraph([]*domain.WriteCommand{cmd("a")})
	require.NoError(t, err)
	_, err = g.Closure("ghost")
	require.ErrorContains(t, err, domain.ErrUnknownBundle.Error())
}

func TestGraph_WalkAndGet(t *testing.T) {
	t.Parallel()

	g, err := compiler.NewGraph([]*domain.WriteCommand{cmd("z"), cmd("a", "z")})
	require.NoError(t, err)

	assert.Equal(t, []string{"z", "a"}, names(slices.Collect(g.Walk())))

	got, ok := g.Get("a")
	require.True(t, ok)
	assert.Equal(t, []string{"z"}, got.Dependencies)

	_, ok = g.Get("ghost")
	assert.False(t, ok)
}
