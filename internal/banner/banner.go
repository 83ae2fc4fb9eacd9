// Package banner prints the startup message shown when the viewer starts.
package banner

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

const art = `
  ██╗      ██████╗  ██████╗  █████╗ ███╗   ██╗
  ██║     ██╔═══██╗██╔════╝ ██╔══██╗████╗  ██║
  ██║     ██║   ██║██║  ███╗███████║██╔██╗ ██║
  ██║     ██║   ██║██║   ██║██╔══██║██║╚██╗██║
  ███████╗╚██████╔╝╚██████╔╝██║  ██║██║ ╚████║
  ╚══════╝ ╚═════╝  ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═══╝
`

// Print writes the startup banner and viewer URL to w.
func Print(w io.Writer, url string) {
	heading := color.New(color.FgGreen, color.Bold)
	info := color.New(color.FgCyan)
	link := color.New(color.FgCyan, color.Bold)

	fmt.Fprintln(w)
	heading.Fprint(w, art)
	info.Fprintln(w, "  Logan log viewer is running!")
	info.Fprint(w, "  View logs at: ")
	link.Fprintln(w, url)
	fmt.Fprintln(w)
}
