package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/go-errors/errors"
	"github.com/integrii/flaggy"
	"github.com/jesseduffield/yaml"
	"github.com/sirupsen/logrus"

	"example.com/pgpdump/pkg/config"
	"example.com/pgpdump/pkg/dump"
	applog "example.com/pgpdump/pkg/log"
	jsondump "example.com/pgpdump/pkg/render/json"
	textdump "example.com/pgpdump/pkg/render/text"
)

var (
	commit      string
	version     = "unversioned"
	date        string
	buildSource = "unknown"

	configFlag    = false
	debuggingFlag = false

	flags   cliFlags
	inPath  string
	outPath string
)

// cliFlags are the dump switches given on the command line. Each one only
// ever turns an option on over the user config.
type cliFlags struct {
	JSON   bool
	Raw    bool
	MPI    bool
	Grips  bool
	Pretty bool
}

func main() {
	info := fmt.Sprintf(
		"%s\nDate: %s\nBuildSource: %s\nCommit: %s\nOS: %s\nArch: %s",
		version,
		date,
		buildSource,
		commit,
		runtime.GOOS,
		runtime.GOARCH,
	)

	flaggy.SetName("pgpdump")
	flaggy.SetDescription("Print the packet structure of OpenPGP data without decrypting or verifying it")

	flaggy.Bool(&flags.JSON, "j", "json", "Print the dump as JSON")
	flaggy.Bool(&flags.Raw, "r", "raw", "Include a hexdump of every packet and subpacket")
	flaggy.Bool(&flags.MPI, "m", "mpi", "Print the contents of MPIs, not only their sizes")
	flaggy.Bool(&flags.Grips, "g", "grips", "Print key fingerprints and grips")
	flaggy.Bool(&flags.Pretty, "p", "pretty", "Indent JSON output")
	flaggy.String(&outPath, "o", "output", "Write the dump to a file instead of stdout")
	flaggy.Bool(&configFlag, "c", "config", "Print the current default config")
	flaggy.Bool(&debuggingFlag, "d", "debug", "Log to development.log in the config directory")
	flaggy.AddPositionalValue(&inPath, "file", 1, false, "Input file; stdin when omitted or -")
	flaggy.SetVersion(info)

	flaggy.Parse()

	if configFlag {
		var buf bytes.Buffer
		encoder := yaml.NewEncoder(&buf)
		err := encoder.Encode(config.GetDefaultConfig())
		if err != nil {
			log.Fatal(err.Error())
		}
		fmt.Printf("%v\n", buf.String())
		os.Exit(0)
	}

	appConfig := loadAppConfig(debuggingFlag, logrus.StandardLogger())
	logger := applog.NewLogger(appConfig)

	err := runFiles(appConfig.UserConfig, flags, inPath, outPath, logger)
	if err != nil {
		newErr := errors.Wrap(err, 0)
		logger.Error(newErr.ErrorStack())
		printError(appConfig.UserConfig, err)
		os.Exit(1)
	}
}

// loadAppConfig reads the user config. A dump needs no persisted state, so
// when the config directory is unusable the defaults are used instead.
func loadAppConfig(debug bool, warn logrus.FieldLogger) *config.AppConfig {
	appConfig, err := config.NewAppConfig("pgpdump", version, commit, date, debug)
	if err == nil {
		return appConfig
	}
	warn.WithError(err).Warn("unable to load config, using defaults")
	return config.NewDefaultAppConfig("pgpdump", version, commit, date, debug)
}

func printError(uc *config.UserConfig, err error) {
	if uc.Output.Color {
		color.New(color.FgRed).Fprintln(os.Stderr, err.Error())
		return
	}
	fmt.Fprintln(os.Stderr, err.Error())
}

func runFiles(uc *config.UserConfig, f cliFlags, in, out string, logger logrus.FieldLogger) error {
	var r io.Reader = os.Stdin
	if in != "" && in != "-" {
		file, err := os.Open(in)
		if err != nil {
			return err
		}
		defer file.Close()
		r = file
	}

	var w io.Writer = os.Stdout
	if out != "" {
		file, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return err
		}
		defer file.Close()
		w = file
	}
	return run(r, w, uc, f, logger)
}

// run dumps r to w. Whatever was decoded is written even when the dump
// stops early; the dump error is returned after it.
func run(r io.Reader, w io.Writer, uc *config.UserConfig, f cliFlags, logger logrus.FieldLogger) error {
	asJSON := f.JSON || uc.Output.Format == config.FormatJSON
	opts := dumpOptions(uc, f, asJSON)
	opts.Log = logger

	res, dumpErr := dump.Dump(r, opts)

	var err error
	if asJSON {
		err = jsondump.Render(w, res, jsondump.Options{Pretty: f.Pretty || uc.Output.Pretty})
	} else {
		err = textdump.Render(w, res)
	}
	if dumpErr != nil {
		return dumpErr
	}
	return err
}

func dumpOptions(uc *config.UserConfig, f cliFlags, asJSON bool) dump.Options {
	opts := dump.Options{
		DumpRaw:   f.Raw || uc.Dump.Raw,
		DumpMPI:   f.MPI || uc.Dump.MPI,
		DumpGrips: f.Grips || uc.Dump.Grips,
		RawLimit:  uc.Dump.RawLimit,
	}
	if asJSON {
		opts.RawLimit = uc.Dump.JSONRawLimit
	}
	return opts
}
