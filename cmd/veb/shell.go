package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/glycerine/veb"
	"go.uber.org/zap"
)

var errQuit = errors.New("quit")

const shellHelp = `commands:
  insert x...   add values
  delete x...   remove values
  has x         membership test
  succ x        smallest value > x
  pred x        largest value < x
  min, max      smallest and largest value
  size          number of values
  dump          print the tree structure
  compact       release drained clusters
  clear         remove every value
  help          this text
  quit          leave the shell
values may be decimal, 0x hex, 0o octal or 0b binary.
`

// Shell runs line oriented commands against a tree.
type Shell struct {
	tree *veb.Tree
	out  io.Writer
	log  *zap.Logger

	errColor *color.Color
	valColor *color.Color
}

func NewShell(tree *veb.Tree, out io.Writer, log *zap.Logger) *Shell {
	if log == nil {
		log = zap.NewNop()
	}
	return &Shell{
		tree:     tree,
		out:      out,
		log:      log.Named("shell"),
		errColor: color.New(color.FgRed),
		valColor: color.New(color.FgGreen),
	}
}

// DisableColor turns off escape sequences,
// regardless of the global color setting.
func (s *Shell) DisableColor() {
	s.errColor.DisableColor()
	s.valColor.DisableColor()
}

// Run executes every line of r until EOF or quit.
// A failing line is reported and the shell continues.
func (s *Shell) Run(r io.Reader, prompt bool) error {
	sc := bufio.NewScanner(r)
	for {
		if prompt {
			fmt.Fprint(s.out, "veb> ")
		}
		if !sc.Scan() {
			break
		}
		err := s.Exec(sc.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			s.log.Warn("rejected", zap.String("line", sc.Text()), zap.Error(err))
			s.errColor.Fprintf(s.out, "error: %v\n", err)
		}
	}
	if prompt {
		fmt.Fprintln(s.out)
	}
	return sc.Err()
}

// Exec runs a single command line.
func (s *Shell) Exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}
	op, args := strings.ToLower(fields[0]), fields[1:]
	xs, err := s.values(args)
	if err != nil {
		return err
	}
	s.log.Debug("exec", zap.String("op", op), zap.Uint64s("x", xs))

	switch op {
	case "insert", "add":
		if len(xs) == 0 {
			return fmt.Errorf("%s: need at least one value", op)
		}
		before := s.tree.Size()
		if err := s.tree.InsertAll(xs...); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "added %d\n", s.tree.Size()-before)

	case "delete", "del":
		if len(xs) == 0 {
			return fmt.Errorf("%s: need at least one value", op)
		}
		// check them all before removing any.
		for _, x := range xs {
			if _, err := s.tree.Has(x); err != nil {
				return err
			}
		}
		n := 0
		for _, x := range xs {
			if deleted, _ := s.tree.Delete(x); deleted {
				n++
			}
		}
		fmt.Fprintf(s.out, "deleted %d\n", n)

	case "has", "succ", "pred":
		if len(xs) != 1 {
			return fmt.Errorf("%s: need exactly one value", op)
		}
		return s.query(op, xs[0])

	case "min", "max", "size", "dump", "compact", "clear", "help", "quit", "exit":
		if len(xs) != 0 {
			return fmt.Errorf("%s: takes no values", op)
		}
		return s.simple(op)

	default:
		return fmt.Errorf("unknown command %q; try help", op)
	}
	return nil
}

func (s *Shell) query(op string, x uint64) error {
	var (
		v     uint64
		found bool
		err   error
	)
	switch op {
	case "has":
		found, err = s.tree.Has(x)
		if err == nil {
			fmt.Fprintln(s.out, found)
		}
		s.log.Debug(op, zap.Uint64("x", x), zap.Bool("found", found))
		return err
	case "succ":
		v, found, err = s.tree.Successor(x)
	case "pred":
		v, found, err = s.tree.Predecessor(x)
	}
	if err != nil {
		return err
	}
	s.log.Debug(op, zap.Uint64("x", x), zap.Bool("found", found))
	s.printValue(v, found)
	return nil
}

func (s *Shell) simple(op string) error {
	switch op {
	case "min":
		s.printValue(s.tree.Min())
	case "max":
		s.printValue(s.tree.Max())
	case "size":
		fmt.Fprintln(s.out, s.tree.Size())
	case "dump":
		fmt.Fprintln(s.out, s.tree)
	case "compact":
		fmt.Fprintf(s.out, "reclaimed %d nodes\n", s.tree.Compact())
	case "clear":
		s.tree.Clear()
		fmt.Fprintln(s.out, "cleared")
	case "help":
		fmt.Fprint(s.out, shellHelp)
	case "quit", "exit":
		return errQuit
	}
	return nil
}

func (s *Shell) printValue(v uint64, found bool) {
	if !found {
		fmt.Fprintln(s.out, "none")
		return
	}
	s.valColor.Fprintf(s.out, "%d\n", v)
}

func (s *Shell) values(args []string) ([]uint64, error) {
	var xs []uint64
	for _, a := range args {
		x, err := parseValue(a)
		if err != nil {
			return nil, err
		}
		xs = append(xs, x)
	}
	return xs, nil
}
