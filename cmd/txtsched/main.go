// Command txtsched converts daily lineup text files into JSON, writing
// day1.json next to day1.txt.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/isaacthefallenapple/sniester/internal/clash"
	"github.com/isaacthefallenapple/sniester/internal/config"
	"github.com/isaacthefallenapple/sniester/internal/export"
	"github.com/isaacthefallenapple/sniester/internal/festival"
	appLog "github.com/isaacthefallenapple/sniester/internal/log"
	"github.com/isaacthefallenapple/sniester/internal/model"
	"github.com/isaacthefallenapple/sniester/internal/txtsched"
)

type flagConfig struct {
	configPath string
	format     string
	files      []string
}

func main() {
	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	if err := conf.ApplyLogLevel(); err != nil {
		appLog.Error("failed to set log level", err)
		os.Exit(1)
	}

	if err := run(flags.files, os.Stdout, conf, flags.format); err != nil {
		appLog.Error("lineup conversion failed", err)
		os.Exit(1)
	}
}

// run converts files one after another and stops at the first failure.
func run(files []string, progress io.Writer, conf *config.Config, format string) error {
	opts, err := conf.TextOptions()
	if err != nil {
		return err
	}

	var ext string
	switch format {
	case "json":
		ext = ".json"
	case "ics":
		ext = ".ics"
	default:
		return fmt.Errorf("unknown format %q (want json or ics)", format)
	}

	for _, in := range files {
		out := txtsched.OutputPath(in, ext)
		fmt.Fprintln(progress, "Parsing", in, "to", out)

		if err := convert(in, out, opts, conf.Strict, format); err != nil {
			return err
		}
	}
	return nil
}

func convert(in, out string, opts txtsched.Options, strict bool, format string) error {
	lineup, err := txtsched.ParseFile(in, opts)
	if err != nil {
		return err
	}

	window, err := festival.NewWindow(lineup.Date, 1, opts.RolloverHour)
	if err != nil {
		return err
	}
	if err := window.Enforce(lineup.Events, strict); err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	clash.Report(lineup.Events)

	// Encode fully before touching out so a failure leaves no partial file.
	var buf bytes.Buffer
	switch format {
	case "ics":
		err = export.WriteICS(&buf, lineup.Events, export.ICSOptions{Name: "day " + strconv.Itoa(lineup.Day)})
	default:
		err = export.WriteJSON(&buf, lineup.Events, model.LayoutOffset)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	appLog.Debug("lineup converted", "in", in, "out", out, "day", lineup.Day, "event_count", len(lineup.Events))
	return nil
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "", "Path to YAML config file (defaults built in)")
	flag.StringVar(&cfg.format, "format", "json", "Output format: json or ics")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] day1.txt [day2.txt ...]\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()
	cfg.files = flag.Args()

	return cfg
}
