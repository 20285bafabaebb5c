package data

import (
	_ "embed"
)

// SeedJSON holds the users and products loaded by the seed operation
//
//go:embed seed.json
var SeedJSON []byte
