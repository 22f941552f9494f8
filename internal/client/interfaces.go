// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"

	"github.com/lightningsoon/KeyMinder/internal/adapter"
	"github.com/lightningsoon/KeyMinder/internal/config"
	"github.com/lightningsoon/KeyMinder/internal/logger"
)

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run executes the command line in args and returns when it is done.
	Run(ctx context.Context, args []string) error
}

// Prompter reads interactive input.
type Prompter interface {
	// Password reads a line without echoing it.
	Password(prompt string) (string, error)

	// Line reads a visible line.
	Line(prompt string) (string, error)
}

// Clipboard receives copied secrets.
type Clipboard interface {
	WriteAll(text string) error
}

// AdapterFactory builds the server adapter once flags are parsed.
type AdapterFactory func(cfg config.ClientConfig, logger *logger.Logger) (adapter.ServerAdapter, error)
