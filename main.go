// The main package for the menu-agent executable.
package main

import (
	_ "time/tzdata"

	"github.com/JakeFAU/weekly-menu-agent/cmd"
)

func main() {
	cmd.Execute()
}
