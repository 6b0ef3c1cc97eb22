package compiler

import (
	"iter"
	"slices"

	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/zerr"
)

// Graph indexes compiled commands by bundle name.
type Graph struct {
	commands map[string]*domain.WriteCommand
	order    []string
}

// NewGraph indexes cmds. It fails on duplicate bundle names and on dependencies that
// name a bundle without a command.
func NewGraph(cmds []*domain.WriteCommand) (*Graph, error) {
	g := &Graph{commands: make(map[string]*domain.WriteCommand, len(cmds))}
	for _, cmd := range cmds {
		if _, exists := g.commands[cmd.Bundle]; exists {
			return nil, zerr.With(domain.ErrDuplicateBundle, "bundle", cmd.Bundle)
		}
		g.commands[cmd.Bundle] = cmd
		g.order = append(g.order, cmd.Bundle)
	}
	for _, cmd := range cmds {
		for _, dep := range cmd.Dependencies {
			if _, ok := g.commands[dep]; !ok {
				err := zerr.With(domain.ErrMissingDependency, "bundle", cmd.Bundle)
				return nil, zerr.With(err, "dependency", dep)
			}
		}
	}
	return g, nil
}

// Get returns the command of bundle.
func (g *Graph) Get(bundle string) (*domain.WriteCommand, bool) {
	cmd, ok := g.commands[bundle]
	return cmd, ok
}

// Walk yields the commands in compilation order.
func (g *Graph) Walk() iter.Seq[*domain.WriteCommand] {
	return func(yield func(*domain.WriteCommand) bool) {
		for _, name := range g.order {
			if !yield(g.commands[name]) {
				return
			}
		}
	}
}

// Closure returns the commands bundle transitively depends on, sorted by bundle name.
// Dependency cycles between bundles are allowed; bundle itself is never part of the result.
func (g *Graph) Closure(bundle string) ([]*domain.WriteCommand, error) {
	root, ok := g.commands[bundle]
	if !ok {
		return nil, zerr.With(domain.ErrUnknownBundle, "bundle", bundle)
	}

	visited := map[string]bool{bundle: true}
	var names []string
	var visit func(cmd *domain.WriteCommand)
	visit = func(cmd *domain.WriteCommand) {
		for _, dep := range cmd.Dependencies {
			if visited[dep] {
				continue
			}
			visited[dep] = true
			names = append(names, dep)
			visit(g.commands[dep])
		}
	}
	visit(root)

	slices.Sort(names)
	out := make([]*domain.WriteCommand, len(names))
	for i, name := range names {
		out[i] = g.commands[name]
	}
	return out, nil
}
