//go:build tools

package main

// Pin the swagger doc generator used by `swag init -g cmd/mmserve/docs.go`.
import (
	_ "github.com/swaggo/swag"
)
