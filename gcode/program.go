package gcode

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/VarKun/lineus-plot/paths"
)

// ErrBadCommand is returned for motion lines that don't have the
// G01 X<int> Y<int> Z<int> shape.
var ErrBadCommand = errors.New("bad command")

// A Command is one motion line of a program file.
type Command struct {
	Line int    // 1-based line number in the file
	Text string // trimmed line
}

// A Program is the sequence of commands read from a program file, with
// comments and blank lines removed.
type Program struct {
	Commands []Command
	Lines    int // lines in the file, including comments and blanks
}

// IsCommand reports whether a program line is a command, as opposed to a
// blank line or a ';' comment.
func IsCommand(line string) bool {
	line = strings.TrimSpace(line)
	return line != "" && !strings.HasPrefix(line, ";")
}

// ReadProgram reads a program, keeping only command lines.
func ReadProgram(r io.Reader) (*Program, error) {
	p := &Program{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		p.Lines++
		if !IsCommand(sc.Text()) {
			continue
		}
		p.Commands = append(p.Commands, Command{Line: p.Lines, Text: strings.TrimSpace(sc.Text())})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}
	return p, nil
}

// LoadProgram reads the program file at path.
func LoadProgram(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadProgram(f)
}

// Motion is a decoded motion command.
type Motion struct {
	X, Y, Z int
}

// ParseCommand decodes a G0/G1 motion line with X, Y and Z in that order.
func ParseCommand(s string) (Motion, error) {
	f := strings.Fields(s)
	if len(f) != 4 {
		return Motion{}, fmt.Errorf("%w %q: want 4 fields, got %d", ErrBadCommand, s, len(f))
	}
	switch strings.ToUpper(f[0]) {
	case "G0", "G00", "G1", "G01":
	default:
		return Motion{}, fmt.Errorf("%w %q: unknown code %s", ErrBadCommand, s, f[0])
	}
	var m Motion
	for i, dst := range []*int{&m.X, &m.Y, &m.Z} {
		axis := "XYZ"[i : i+1]
		if !strings.EqualFold(f[i+1][:1], axis) {
			return Motion{}, fmt.Errorf("%w %q: want axis %s, got %s", ErrBadCommand, s, axis, f[i+1])
		}
		v, err := strconv.Atoi(f[i+1][1:])
		if err != nil {
			return Motion{}, fmt.Errorf("%w %q: %v", ErrBadCommand, s, err)
		}
		*dst = v
	}
	return m, nil
}

// Check parses every command and reports the first malformed one,
// along with any move outside env when env is non-nil.
func (p *Program) Check(env *Envelope) error {
	for _, c := range p.Commands {
		m, err := ParseCommand(c.Text)
		if err != nil {
			return fmt.Errorf("line %d: %w", c.Line, err)
		}
		if env == nil {
			continue
		}
		inside := env.Bounds().Contains(paths.Vec2{float64(m.X), float64(m.Y)})
		home := m.X == env.Home.X && m.Y == env.Home.Y
		if !inside && !home {
			return fmt.Errorf("line %d: %w %q: outside the drawing area", c.Line, ErrBadCommand, c.Text)
		}
	}
	return nil
}
