package main

import (
	"io"
	"os"

	"github.com/alnah/go-md2site/internal/logger"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *logger.Logger
}

// DefaultEnv returns the production environment. Log records go to stderr.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: logger.New(logger.LevelInfo),
	}
}
