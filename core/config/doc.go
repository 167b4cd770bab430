// Package config provides configuration management for Rainbow Recipes.
//
// It uses Viper to read environment variables (optionally from a .env file).
// Defaults come from the `default` struct tags of each section.
//
// # Configuration Structure
//
//   - Server: HTTP port, optional API key, timeouts
//   - Database: driver (mysql, sqlite) and connection details
//   - Auth: session token secret and lifetime
//   - Storage: S3/MinIO settings for the merge audit trail
//   - Log: level and format
//
// Nested keys map to upper-case environment variables: database.driver -> DATABASE_DRIVER.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
