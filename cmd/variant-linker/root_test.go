package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRootCmd_RegistersEverySubcommand(t *testing.T) {
	cmd := newRootCmd()

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}

	assert.Contains(t, names, "annotate")
	assert.Contains(t, names, "config")
	assert.Contains(t, names, "cache")
}

func TestNewRootCmd_ConfigHasGetAndSetSubcommands(t *testing.T) {
	cmd := newRootCmd()

	for _, c := range cmd.Commands() {
		if c.Name() == "config" {
			var sub []string
			for _, s := range c.Commands() {
				sub = append(sub, s.Name())
			}
			assert.Contains(t, sub, "set")
			assert.Contains(t, sub, "get")
		}
		if c.Name() == "cache" {
			var sub []string
			for _, s := range c.Commands() {
				sub = append(sub, s.Name())
			}
			assert.Contains(t, sub, "stats")
			assert.Contains(t, sub, "clear")
		}
	}
}
