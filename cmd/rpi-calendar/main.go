// Command rpi-calendar scrapes the RPI registrar academic calendar for one
// academic year into Academic_calendar_<yy>.json.
package main

import "github.com/pfrederiksen/rpi-planner-data/internal/cli"

func main() {
	cli.Execute(cli.NewCalendarCmd())
}
