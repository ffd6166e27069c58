package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/filemagic/magic-go/pkg/magic"
	"github.com/filemagic/magic-go/pkg/magic/logging"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitSetup  = 2
)

type options struct {
	configPath string
	magicFiles []string
	brief      bool
	debug      bool
	version    bool

	compile bool
	check   bool
	list    bool

	mime         bool
	mimeType     bool
	mimeEncoding bool
	extension    bool
	apple        bool
	dereference  bool
	uncompress   bool
	keepGoing    bool
	raw          bool
	errorFlag    bool
}

func newFlagSet(opts *options, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("magic-go", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	fs.StringArrayVarP(&opts.magicFiles, "magic-file", "m", nil, "use this magic database (repeatable)")
	fs.BoolVarP(&opts.brief, "brief", "b", false, "do not prepend file names to output lines")
	fs.BoolVar(&opts.debug, "debug", false, "log libmagic failures to stderr")
	fs.BoolVarP(&opts.version, "version", "v", false, "print version information and exit")

	fs.BoolVarP(&opts.compile, "compile", "C", false, "compile the magic databases")
	fs.BoolVarP(&opts.check, "checking-printout", "c", false, "check the magic databases")
	fs.BoolVar(&opts.list, "list", false, "list the entries of the magic databases")

	fs.BoolVarP(&opts.mime, "mime", "i", false, "output MIME type and encoding")
	fs.BoolVar(&opts.mimeType, "mime-type", false, "output the MIME type")
	fs.BoolVar(&opts.mimeEncoding, "mime-encoding", false, "output the MIME encoding")
	fs.BoolVar(&opts.extension, "extension", false, "output valid extensions")
	fs.BoolVar(&opts.apple, "apple", false, "output the Apple creator and type")
	fs.BoolVarP(&opts.dereference, "dereference", "L", false, "follow symlinks")
	fs.BoolVarP(&opts.uncompress, "uncompress", "z", false, "look inside compressed files")
	fs.BoolVarP(&opts.keepGoing, "keep-going", "k", false, "report every match, not just the first")
	fs.BoolVarP(&opts.raw, "raw", "r", false, "do not translate unprintable characters")
	fs.BoolVarP(&opts.errorFlag, "errors", "E", false, "treat filesystem errors as errors")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: magic-go [flags] FILE...\n\nFlags:\n")
		fs.PrintDefaults()
	}
	return fs
}

// flags returns the libmagic flags selected on the command line.
func (o *options) flags() magic.Flags {
	var f magic.Flags
	for _, opt := range []struct {
		set  bool
		flag magic.Flags
	}{
		{o.mime, magic.Mime},
		{o.mimeType, magic.MimeType},
		{o.mimeEncoding, magic.MimeEncoding},
		{o.extension, magic.Extension},
		{o.apple, magic.Apple},
		{o.dereference, magic.Symlink},
		{o.uncompress, magic.Compress},
		{o.keepGoing, magic.Continue},
		{o.raw, magic.Raw},
		{o.errorFlag, magic.Error},
	} {
		if opt.set {
			f |= opt.flag
		}
	}
	return f
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options
	fs := newFlagSet(&opts, stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitSetup
	}

	if opts.version {
		fmt.Fprintf(stdout, "magic-go %s\nlibmagic %s\n", magic.WrapperVersion(), magic.LibraryVersionString())
		return exitOK
	}

	cfg := DefaultConfig()
	if opts.configPath != "" {
		loaded, err := LoadConfig(opts.configPath)
		if err != nil {
			fmt.Fprintf(stderr, "magic-go: %v\n", err)
			return exitSetup
		}
		cfg = loaded
	}
	if fs.Changed("magic-file") {
		cfg.MagicFiles = opts.magicFiles
	}
	cfg.Brief = cfg.Brief || opts.brief
	cfg.Debug = cfg.Debug || opts.debug

	flags, err := cfg.MagicFlags()
	if err != nil {
		fmt.Fprintf(stderr, "magic-go: %v\n", err)
		return exitSetup
	}
	flags = flags.Union(opts.flags())

	db, err := cfg.Database()
	if err != nil {
		fmt.Fprintf(stderr, "magic-go: %v\n", err)
		return exitSetup
	}

	databaseOnly := opts.compile || opts.check || opts.list
	if !databaseOnly && fs.NArg() == 0 {
		fs.Usage()
		return exitSetup
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(stderr, "magic-go: %v\n", err)
		return exitSetup
	}
	defer func() { _ = logger.Sync() }()

	cookie, err := magic.OpenConfig(magic.Config{Flags: flags, Logger: logging.NewZap(logger)})
	if err != nil {
		fmt.Fprintf(stderr, "magic-go: %v\n", err)
		return exitSetup
	}
	defer cookie.Close()

	if databaseOnly {
		return runDatabase(cookie, db, &opts, stderr)
	}

	loaded, err := cookie.Load(db)
	if err != nil {
		fmt.Fprintf(stderr, "magic-go: load %s: %v\n", db, err)
		return exitSetup
	}
	defer loaded.Close()

	return report(describeAll(loaded, fs.Args(), cfg, stdin, stdout), stderr)
}

// report prints every error combined in err and returns the exit status.
func report(err error, stderr io.Writer) int {
	if err == nil {
		return exitOK
	}
	for _, e := range multierr.Errors(err) {
		fmt.Fprintf(stderr, "magic-go: %v\n", e)
	}
	return exitFailed
}

// databaseRunner is the part of a cookie used by --compile, --checking-printout
// and --list.
type databaseRunner interface {
	Check(db magic.Database) error
	Compile(db magic.Database) error
	List(db magic.Database) error
}

// describer is the part of a loaded cookie used to describe inputs.
type describer interface {
	File(path string) (string, error)
	Reader(r io.Reader, limit int64) (string, error)
}

func runDatabase(cookie databaseRunner, db magic.Database, opts *options, stderr io.Writer) int {
	var err error
	if opts.check {
		err = multierr.Append(err, cookie.Check(db))
	}
	if opts.compile {
		err = multierr.Append(err, cookie.Compile(db))
	}
	if opts.list {
		err = multierr.Append(err, cookie.List(db))
	}
	if err != nil {
		for _, e := range multierr.Errors(err) {
			fmt.Fprintf(stderr, "magic-go: %s: %v\n", db, e)
		}
		return exitFailed
	}
	return exitOK
}

// describeAll prints one line per name and returns the combined errors of
// the names that could not be described.
func describeAll(cookie describer, names []string, cfg *Config, stdin io.Reader, stdout io.Writer) error {
	var errs error
	for _, name := range names {
		var (
			desc string
			err  error
		)
		if name == "-" {
			desc, err = cookie.Reader(stdin, cfg.ReadLimit)
		} else {
			desc, err = cookie.File(name)
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		if cfg.Brief {
			fmt.Fprintln(stdout, desc)
		} else {
			fmt.Fprintf(stdout, "%s: %s\n", displayName(name), desc)
		}
	}
	return errs
}

func displayName(name string) string {
	if name == "-" {
		return "/dev/stdin"
	}
	return name
}

func newLogger(debug bool) (*zap.Logger, error) {
	if !debug {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}
