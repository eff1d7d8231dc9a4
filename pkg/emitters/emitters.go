// Package emitters bundles the built-in Swift strategies.
package emitters

import (
	"github.com/goliatone/go-modelgen/pkg/emit"
	"github.com/goliatone/go-modelgen/pkg/emitters/codable"
	"github.com/goliatone/go-modelgen/pkg/emitters/marshal"
	"github.com/goliatone/go-modelgen/pkg/emitters/objectmapper"
	"github.com/goliatone/go-modelgen/pkg/emitters/swiftyjson"
)

// Strategies returns a fresh instance of every built-in strategy.
func Strategies() []emit.Strategy {
	return []emit.Strategy{
		swiftyjson.New(),
		objectmapper.New(),
		marshal.New(),
		codable.New(),
	}
}

// Registry returns a registry holding every built-in strategy.
func Registry() *emit.Registry {
	registry := emit.NewRegistry()
	for _, strategy := range Strategies() {
		registry.MustRegister(strategy)
	}
	return registry
}
