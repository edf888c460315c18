package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/dgnsrekt/basictts/internal/platform"
	"github.com/dgnsrekt/basictts/tts"
	"github.com/dgnsrekt/basictts/tts/engines"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var errUnsupported = errors.New("text-to-speech is not available on this system")

var checkCmd = &cobra.Command{
	Use:     "check",
	Short:   "Report whether text-to-speech is supported",
	Long:    paragraph(fmt.Sprintf("\n%s each primitive the speech engine must provide and whether its voices load.", keyword("Check"))),
	Example: paragraph("basictts check\nbasictts check --engine espeak"),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		info := platform.Detect()
		w := os.Stdout
		printPlatform(w, info, cfg.Engine)

		host, closer, hostErr := engines.NewHost(cfg)
		if closer != nil {
			defer closer.Close() //nolint:errcheck
		}

		gate := tts.NewGate(host, cfg.SpeakerOptions()...)
		missing := gate.Missing()
		printPrimitives(w, missing)

		if hostErr != nil {
			_, _ = fmt.Fprintf(w, "\n%s %v\n", missingMark, hostErr)
			return errUnsupported
		}
		if len(missing) > 0 {
			return errUnsupported
		}

		voices, err := gate.CheckVoices(cmd.Context(), cfg.MaxAttempts)
		if err != nil {
			_, _ = fmt.Fprintf(w, "\n%s %v\n", missingMark, err)
			return err
		}
		_, _ = fmt.Fprintf(w, "\n%s %s voices available\n", okMark, humanize.Comma(int64(len(voices))))
		return nil
	},
}

func printPlatform(w io.Writer, info platform.Info, engine string) {
	resolved := engines.Resolve(engine, info)
	if resolved == "" {
		resolved = "none"
	}
	_, _ = fmt.Fprintln(w, heading("Platform"))
	_, _ = fmt.Fprintf(w, "  os      %s/%s\n", info.OS, info.Arch)
	_, _ = fmt.Fprintf(w, "  audio   %s\n", info.Audio)
	_, _ = fmt.Fprintf(w, "  ci      %t\n", info.IsCI)
	_, _ = fmt.Fprintf(w, "  engine  %s %s\n", resolved, faint("("+engine+")"))
	_, _ = fmt.Fprintln(w)
}

func printPrimitives(w io.Writer, missing []tts.Primitive) {
	_, _ = fmt.Fprintln(w, heading("Primitives"))
	for _, p := range tts.Primitives() {
		if lo.Contains(missing, p) {
			_, _ = fmt.Fprintf(w, "  %s %-10s %s\n", missingMark, p, faint(p.Reason()))
			continue
		}
		_, _ = fmt.Fprintf(w, "  %s %s\n", okMark, p)
	}
}
