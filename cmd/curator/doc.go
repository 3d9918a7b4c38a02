// Command curator classifies film files into library tiers and writes a
// manifest of destinations. It never moves files.
//
// Subcommands:
//   - classify: run the decision pipeline over file names or JSON-lines records
//   - evidence: show the full gate table and stage trail for one film
//   - cache: inspect or prune the metadata lookup caches
//   - config: write or print the configuration
//   - rules: list the active category routing rules
package main
