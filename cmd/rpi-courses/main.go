// Command rpi-courses merges a QuACS semester's catalog and schedule files into
// a single rpi_courses_<term>.json document.
package main

import "github.com/pfrederiksen/rpi-planner-data/internal/cli"

func main() {
	cli.Execute(cli.NewCoursesCmd())
}
