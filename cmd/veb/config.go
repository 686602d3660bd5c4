package main

import (
	"bufio"
	"errors"
	goflag "flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/glycerine/veb"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

const defaultUniverseBits = 32

type Config struct {
	UniverseBits uint
	Values       string // file of values to load at startup, "-" for stdin
	LogLevel     zapcore.Level
	NoColor      bool
	Log          *zap.Logger
}

func envOr(key, def string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return def
}

func defaultBits() uint {
	s := envOr("VEB_UNIVERSE_BITS", "")
	if s == "" {
		return defaultUniverseBits
	}
	b, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return defaultUniverseBits
	}
	return uint(b)
}

func (c *Config) AddFlags(flags *pflag.FlagSet) {
	if c.UniverseBits == 0 {
		c.UniverseBits = defaultBits()
	}
	flags.UintVarP(&c.UniverseBits, "universe-bits", "b", c.UniverseBits,
		"log2 of the universe size: 1, 2, 4, 8, 16, 32 or 64 (env VEB_UNIVERSE_BITS)")
	flags.StringVarP(&c.Values, "values", "f", c.Values,
		"load values from file, one per line (- for STDIN)")
	flags.BoolVar(&c.NoColor, "no-color", c.NoColor, "disable colored output")

	lvlFlag := &goflag.Flag{
		Name:     "log-level",
		Usage:    "set the log level",
		Value:    &c.LogLevel,
		DefValue: c.LogLevel.String(),
	}
	flags.AddFlag(pflag.PFlagFromGoFlag(lvlFlag))
}

// Init builds the logger and applies the color setting.
func (c *Config) Init() error {
	if c.NoColor {
		color.NoColor = true
	}
	log, err := newLogger(c.LogLevel)
	if err != nil {
		return err
	}
	c.Log = log
	return nil
}

// newLogger logs to stderr, since stdout carries results.
func newLogger(level zapcore.Level) (*zap.Logger, error) {
	var config zap.Config
	if term.IsTerminal(int(os.Stderr.Fd())) {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}
	config.Level = zap.NewAtomicLevelAt(level)
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	log, err := config.Build()
	if err != nil {
		return nil, err
	}
	return log.WithOptions(zap.AddStacktrace(zap.ErrorLevel)), nil
}

// NewTree creates the tree and loads the values file, if any.
func (c *Config) NewTree() (*veb.Tree, error) {
	tree, err := veb.New(c.UniverseBits)
	if err != nil {
		return nil, err
	}
	if c.Values == "" {
		return tree, nil
	}
	f, close, err := openFile(c.Values)
	if err != nil {
		return nil, err
	}
	defer close()
	vals, err := readValues(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Values, err)
	}
	if err := tree.InsertAll(vals...); err != nil {
		return nil, fmt.Errorf("%s: %w", c.Values, err)
	}
	if c.Log != nil {
		c.Log.Info("loaded values", zap.String("file", c.Values),
			zap.Int("lines", len(vals)), zap.Int("size", tree.Size()))
	}
	return tree, nil
}

func openFile(name string) (*os.File, func() error, error) {
	if name == "-" {
		return os.Stdin, func() error { return nil }, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// readValues reads one value per line. Blank lines
// and lines starting with '#' are skipped.
func readValues(rd io.Reader) ([]uint64, error) {
	var vals []uint64
	r := bufio.NewReaderSize(rd, 96*1024)
	lineno := 0
	for {
		s, e := r.ReadString('\n')
		lineno++
		s = strings.TrimSpace(s)
		if len(s) > 0 && s[0] != '#' {
			x, err := parseValue(s)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineno, err)
			}
			vals = append(vals, x)
		}
		if e != nil {
			if e != io.EOF {
				return nil, e
			}
			break
		}
	}
	return vals, nil
}

// parseValue accepts decimal, 0x hex, 0o octal
// and 0b binary, with optional underscores.
func parseValue(s string) (uint64, error) {
	x, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		var nerr *strconv.NumError
		if errors.As(err, &nerr) {
			return 0, fmt.Errorf("invalid value %q: %w", s, nerr.Err)
		}
		return 0, err
	}
	return x, nil
}
