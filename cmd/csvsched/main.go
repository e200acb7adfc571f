// Command csvsched converts the festival timetable grid (CSV on stdin) into
// a JSON event list on stdout.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/isaacthefallenapple/sniester/internal/clash"
	"github.com/isaacthefallenapple/sniester/internal/config"
	"github.com/isaacthefallenapple/sniester/internal/csvsched"
	"github.com/isaacthefallenapple/sniester/internal/export"
	"github.com/isaacthefallenapple/sniester/internal/festival"
	appLog "github.com/isaacthefallenapple/sniester/internal/log"
)

type flagConfig struct {
	configPath string
	format     string
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

	if err := run(os.Stdin, os.Stdout, conf, flags.format); err != nil {
		appLog.Error("csv conversion failed", err)
		os.Exit(1)
	}
}

func run(in io.Reader, out io.Writer, conf *config.Config, format string) error {
	opts, err := conf.CSVOptions()
	if err != nil {
		return err
	}

	events, err := csvsched.Parse(in, opts)
	if err != nil {
		return err
	}

	window, err := festival.NewWindow(opts.BaseDate, conf.CSV.Days, opts.RolloverHour)
	if err != nil {
		return err
	}
	if err := window.Enforce(events, conf.Strict); err != nil {
		return err
	}
	clash.Report(events)

	appLog.Debug("csv conversion completed", "event_count", len(events), "format", format)

	switch format {
	case "json":
		return export.WriteJSON(out, events, conf.CSVLayout())
	case "ics":
		return export.WriteICS(out, events, export.ICSOptions{
			Name:     "timetable " + opts.BaseDate.Format("2006"),
			Floating: conf.CSV.Timezone == "",
		})
	default:
		return fmt.Errorf("unknown format %q (want json or ics)", format)
	}
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "", "Path to YAML config file (defaults built in)")
	flag.StringVar(&cfg.format, "format", "json", "Output format: json or ics")

	flag.Parse()

	return cfg
}
