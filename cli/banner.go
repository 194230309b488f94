package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/runabol/mountgate"
	"github.com/runabol/mountgate/conf"
)

func (c *CLI) displayBanner() {
	mode := conf.StringDefault("cli.banner.mode", "console")
	if mode == "off" {
		return
	}
	banner := color.WhiteString(fmt.Sprintf(`
 +-+-+-+-+-+-+-+-+-+
 |m|o|u|n|t|g|a|t|e|
 +-+-+-+-+-+-+-+-+-+

 %s
`, mountgate.FormattedVersion()))

	if mode == "console" {
		fmt.Fprintln(c.errOut, banner)
	} else {
		log.Info().Msg(banner)
	}
}
