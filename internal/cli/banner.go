package cli

import (
	"io"

	"github.com/fatih/color"

	"github.com/raysh454/spectre/internal/app"
)

func printBanner(w io.Writer, version string, cfg *app.Config) {
	cyan := color.New(color.FgCyan, color.Bold)
	gray := color.New(color.FgHiBlack)
	green := color.New(color.FgGreen)

	cyan.Fprintln(w, "  ____  ____  _____ ____ _____ ____  _____")
	cyan.Fprintln(w, " / ___||  _ \\| ____/ ___|_   _|  _ \\| ____|")
	cyan.Fprintln(w, " \\___ \\| |_) |  _|| |     | | | |_) |  _|")
	cyan.Fprintln(w, "  ___) |  __/| |__| |___  | | |  _ <| |___")
	cyan.Fprintln(w, " |____/|_|   |_____\\____| |_| |_| \\_\\_____|")
	gray.Fprintf(w, "  recon dashboard %s\n\n", version)
	green.Fprint(w, "  [+] ")
	gray.Fprintf(w, "listening on %s\n", cfg.Listen)
	green.Fprint(w, "  [+] ")
	gray.Fprintf(w, "scan backend %s\n\n", cfg.Backend)
}
