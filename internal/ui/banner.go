package ui

import (
	"github.com/pterm/pterm"
)

func PrintBanner() {
	logo := `
    ___   __  __               ______                     __
   /   | / /_/ /___ ______   / ____/_  ______ __________/ /
  / /| |/ __/ / __ ` + "`" + `/ ___/  / / __/ / / / __ ` + "`" + `/ ___/ __  /
 / ___ / /_/ / /_/ (__  )  / /_/ / /_/ / /_/ / /  / /_/ /
/_/  |_\__/_/\__,_/____/   \____/\__,_/\__,_/_/   \__,_/
`
	pterm.FgCyan.Println(logo)
	pterm.DefaultCenter.Println(pterm.FgGray.Sprint("Threat scanning and remediation"))
	pterm.Println()
}
