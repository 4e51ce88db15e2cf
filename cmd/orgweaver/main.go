// cmd/orgweaver/main.go
//
// Entry point for the orgweaver CLI. With no subcommand it opens the chart
// editor in the terminal; subcommands work on files for scripting.

package main

func main() {
	Execute()
}
