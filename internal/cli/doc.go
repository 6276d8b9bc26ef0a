// Package cli implements the command-line interfaces for rpi-courses and rpi-calendar.
//
// Each tool is a Cobra root command with a config subcommand. The commands load
// configuration, install the logger, run one pipeline (course merge or calendar
// scrape) and print a one-line summary of what was written.
package cli
