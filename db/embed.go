// Package db provides embedded database schema and seed files.
package db

import _ "embed"

// Schema contains the DDL statements for all application tables.
//
//go:embed migrations/001_schema.sql
var Schema string

// SeedUsers and SeedProducts are the default fixtures used by cmd/seed-db
// when no input files are given.
//
//go:embed seed/users.json
var SeedUsers []byte

//go:embed seed/products.json
var SeedProducts []byte
