// Command trackmux selects, converts and remuxes the tracks of a batch of
// Matroska files according to a job profile.
//
// Usage:
//
//	trackmux run --profile show.toml
//	trackmux plan --profile show.toml
//	trackmux file --profile show.toml --input ep1.mkv --output "01 - Pilot.mkv"
//	trackmux check [--profile show.toml]
//	trackmux history [--run <id>]
//	trackmux config init | profile init
package main
