// Package db holds the embedded database schema.
package db

import _ "embed"

// Schema contains the DDL for every application table.
//
//go:embed migrations/001_schema.sql
var Schema string
