package display

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/openclaw/reward-poller/internal/config"
	"github.com/openclaw/reward-poller/internal/model"
	"github.com/openclaw/reward-poller/internal/timestamp"
)

const (
	clearScreen = "\033[H\033[2J"
	ruler       = "========================================="
)

type palette struct {
	title   *color.Color
	clock   *color.Color
	running *color.Color
	header  *color.Color
	name    *color.Color
	number  *color.Color
	when    *color.Color
	wait    *color.Color
	muted   *color.Color
	classes map[model.StatusClass]*color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		title:   color.New(color.Bold, color.FgCyan),
		clock:   color.New(color.Bold, color.FgYellow),
		running: color.New(color.Bold, color.FgGreen),
		header:  color.New(color.Bold, color.FgWhite),
		name:    color.New(color.FgCyan),
		number:  color.New(color.FgYellow),
		when:    color.New(color.FgMagenta),
		wait:    color.New(color.FgBlue),
		muted:   color.New(color.FgHiBlack),
		classes: map[model.StatusClass]*color.Color{
			model.StatusClassSuccess: color.New(color.Bold, color.FgGreen),
			model.StatusClassFailure: color.New(color.Bold, color.FgRed),
			model.StatusClassWaiting: color.New(color.Bold, color.FgYellow),
			model.StatusClassNeutral: color.New(color.FgWhite),
		},
	}

	all := []*color.Color{p.title, p.clock, p.running, p.header, p.name, p.number, p.when, p.wait, p.muted}
	for _, c := range p.classes {
		all = append(all, c)
	}
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Renderer writes account snapshots as a text table. Interactive
// renderers clear the screen and colour statuses; plain renderers append.
type Renderer struct {
	out         io.Writer
	interactive bool
	palette     palette
	now         func() time.Time
}

func NewRenderer(out io.Writer, interactive bool) *Renderer {
	return &Renderer{
		out:         out,
		interactive: interactive,
		palette:     newPalette(interactive),
		now:         time.Now,
	}
}

// IsInteractive resolves a display mode against the output sink. "auto"
// means interactive only when out is a terminal.
func IsInteractive(mode string, out io.Writer) bool {
	switch mode {
	case config.DisplayModeTTY:
		return true
	case config.DisplayModePlain:
		return false
	}
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (r *Renderer) Interactive() bool {
	return r.interactive
}

// Render writes one full snapshot with a single Write call.
func (r *Renderer) Render(states []model.AccountState) error {
	var buf bytes.Buffer
	r.write(&buf, states)
	_, err := r.out.Write(buf.Bytes())
	return err
}

func (r *Renderer) write(buf *bytes.Buffer, states []model.AccountState) {
	p := r.palette
	now := r.now()

	if r.interactive {
		buf.WriteString(clearScreen)
	} else {
		buf.WriteString("\n")
	}

	fmt.Fprintln(buf, p.title.Sprint("=== Multi-account reward poller (server-scheduled) ==="))
	fmt.Fprintln(buf, p.clock.Sprint("Current time: "+now.Format(TimeLayout)))
	fmt.Fprintln(buf, p.running.Sprint("Run state: running"))
	fmt.Fprintln(buf, p.title.Sprint(ruler))

	fmt.Fprintln(buf, p.header.Sprint(
		pad("Account", 15)+
			pad("Status", 32)+
			pad("Claims", 8)+
			pad("Balance", 10)+
			pad("Next claim", 20)+
			"Wait",
	))

	for _, s := range states {
		wait := NoDataText
		if s.NextClaimTime != nil {
			wait = FormatDuration(timestamp.CalculateWaitTime(s.NextClaimTime, now))
		}

		statusColor := p.classes[s.Status.Class()]
		fmt.Fprintln(buf,
			p.name.Sprint(pad(s.Name, 15))+
				statusColor.Sprint(pad(s.StatusText, 32))+
				p.number.Sprint(pad(humanize.Comma(int64(s.ClaimCount)), 8))+
				p.number.Sprint(pad(FormatBalance(s.Balance), 10))+
				p.when.Sprint(pad(FormatTime(s.NextClaimTime), 20))+
				p.wait.Sprint(wait),
		)

		if s.LastError != nil {
			fmt.Fprintln(buf, p.muted.Sprint("    -> error: "+*s.LastError))
		}
	}

	fmt.Fprintln(buf, p.title.Sprint(ruler))
	fmt.Fprintln(buf, p.muted.Sprint("Press Ctrl+C to exit"))
	fmt.Fprintln(buf, p.muted.Sprint("Each account is scheduled independently from the server's next claim time"))
}

// FormatBalance renders a balance with thousands separators.
func FormatBalance(v float64) string {
	return humanize.Commaf(v)
}

func pad(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-n)
}
