package main

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dgnsrekt/basictts/tts"
	"github.com/muesli/reflow/truncate"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var langPrefix string

var voicesCmd = &cobra.Command{
	Use:     "voices",
	Short:   "List the voices of the speech engine",
	Long:    paragraph(fmt.Sprintf("\n%s the voices the speech engine offers, waiting for them to load.", keyword("List"))),
	Example: paragraph("basictts voices\nbasictts voices --filter-lang en"),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, host, closer, err := newHost(cmd)
		if err != nil {
			return err
		}
		defer closer.Close() //nolint:errcheck

		gate := tts.NewGate(host, cfg.SpeakerOptions()...)
		voices, err := gate.CheckVoices(cmd.Context(), cfg.MaxAttempts)
		if err != nil {
			return err
		}

		printVoices(os.Stdout, filterVoices(voices, langPrefix), terminalWidth())
		return nil
	},
}

func init() {
	voicesCmd.Flags().StringVar(&langPrefix, "filter-lang", "", "only list voices whose language starts with this prefix")
}

// filterVoices keeps voices whose language starts with prefix and sorts
// them by language, then name.
func filterVoices(voices []tts.Voice, prefix string) []tts.Voice {
	prefix = strings.ToLower(prefix)
	out := lo.Filter(voices, func(v tts.Voice, _ int) bool {
		return strings.HasPrefix(strings.ToLower(v.Lang), prefix)
	})
	slices.SortStableFunc(out, func(a, b tts.Voice) int {
		return cmp.Or(
			cmp.Compare(strings.ToLower(a.Lang), strings.ToLower(b.Lang)),
			cmp.Compare(a.Name, b.Name),
		)
	})
	return out
}

func printVoices(w io.Writer, voices []tts.Voice, width int) {
	noun := "voices"
	if len(voices) == 1 {
		noun = "voice"
	}
	_, _ = fmt.Fprintln(w, heading(fmt.Sprintf("%s %s", humanize.Comma(int64(len(voices))), noun)))

	nameWidth := 0
	for _, v := range voices {
		nameWidth = max(nameWidth, len(v.Name))
	}

	for _, v := range voices {
		row := fmt.Sprintf("  %-*s  %-8s", nameWidth, v.Name, v.Lang)
		if v.Default {
			row += " " + keyword("default")
		}
		if !v.LocalService {
			row += " " + faint("remote")
		}
		_, _ = fmt.Fprintln(w, truncate.StringWithTail(row, uint(width), "…")) //nolint:gosec
	}
}

func terminalWidth() int {
	fd := int(os.Stdout.Fd()) //nolint:gosec
	if !term.IsTerminal(fd) {
		return 120
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return 80
	}
	return w
}
