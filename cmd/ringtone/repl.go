package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-ringtone/measure/tone"
)

const replPrompt = "♪ "

// repl renders one composition per input line until EOF or "q". When dir is
// set every successful render is saved there as take-N.wav.
func (a *app) repl(ctx context.Context, in io.Reader, dir string) error {
	s := a.styles
	fmt.Fprintln(a.out, s.title.Render("ringtone")+s.muted.Render(" - enter a composition, q to quit"))

	sc := bufio.NewScanner(in)
	take := 0
	for {
		fmt.Fprint(a.out, s.label.Render(replPrompt))
		if !sc.Scan() {
			fmt.Fprintln(a.out)
			return sc.Err()
		}

		line := strings.TrimSpace(sc.Text())
		switch line {
		case "":
			continue
		case "q", "quit", "exit":
			return nil
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		buf, err := a.render(ctx, line)
		if err != nil {
			a.tel.capture(err)
			fmt.Fprintln(a.out, s.err.Render("error:")+" "+err.Error())
			continue
		}

		summary := fmt.Sprintf("%.2fs", buf.Duration())
		if res, err := tone.Analyze(buf.Samples, buf.SampleRate); err == nil && !res.Silent() {
			summary += fmt.Sprintf("  peak %.2f  %s", res.Peak, noteName(nearestPitch(res.Frequency)))
		}
		fmt.Fprintln(a.out, s.ok.Render("ok")+" "+s.muted.Render(summary))

		if dir == "" {
			continue
		}
		take++
		if err := a.write(filepath.Join(dir, fmt.Sprintf("take-%d.wav", take)), buf); err != nil {
			fmt.Fprintln(a.out, s.err.Render("error:")+" "+err.Error())
		}
	}
}
