package main

import (
	"echo_bank/internal/config" // Custom import path (Config)
	"echo_bank/internal/db"     // Custom import path (Database)
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	db.MigrateDSN(cfg.DSN())   // Create or update the documents table
}
