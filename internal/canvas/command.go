package canvas

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/inamate/drawkit/internal/shape"
	"github.com/inamate/drawkit/internal/surface"
)

// Command is an editing command issued by a toolbar.
type Command string

const (
	CmdSetMode        Command = "SET_MODE"
	CmdSetStrokeWidth Command = "SET_STROKE_WIDTH"
	CmdSetStrokeColor Command = "SET_STROKE_COLOR"
	CmdSetFillColor   Command = "SET_FILL_COLOR"
	CmdSetFontSize    Command = "SET_FONT_SIZE"
	CmdBringUp        Command = "BRING_UP"
	CmdBringDown      Command = "BRING_DOWN"
	CmdBringToTop     Command = "BRING_TO_TOP"
	CmdBringToBottom  Command = "BRING_TO_BOTTOM"
	CmdCopy           Command = "COPY"
	CmdDelete         Command = "DELETE"
	CmdInsertImage    Command = "INSERT_IMAGE"
)

// ErrUnknownCommand is returned by Exec for commands it does not know.
var ErrUnknownCommand = errors.New("unknown command")

const (
	minStrokeWidth = 0.5
	minFontSize    = 4
	imagePrompt    = "Image URL:"
	imageDefault   = "http://"
)

// Exec applies a command to the current style and the selected shape.
func (c *Canvas) Exec(cmd Command, arg string) error {
	if c.frozen {
		return ErrFrozen
	}
	switch cmd {
	case CmdSetMode:
		c.SetMode(Mode(strings.ToLower(arg)))

	case CmdSetStrokeWidth:
		w, err := parseArg(cmd, arg)
		if err != nil {
			return err
		}
		c.strokeWidth = math.Max(w, minStrokeWidth)
		c.applyStroke()

	case CmdSetStrokeColor:
		c.strokeColor = arg
		c.applyStroke()

	case CmdSetFillColor:
		c.fill = nil
		if arg != "" {
			c.fill = surface.SolidFill(arg)
		}
		if s, ok := c.Shape(c.current).(shape.Styled); ok {
			s.SetFill(cloneFill(c.fill))
		}

	case CmdSetFontSize:
		size, err := parseArg(cmd, arg)
		if err != nil {
			return err
		}
		c.font = surface.Font{Size: math.Max(size, minFontSize), Family: c.font.Family}
		if t, ok := c.Shape(c.current).(*shape.Text); ok {
			index := c.current
			t.SetFont(c.font)
			c.SetCurrentShapeIndex(-1)
			c.ReconstructShapes()
			c.SetCurrentShapeIndex(index)
		}

	case CmdBringUp:
		c.BringTo(-1, true)
	case CmdBringDown:
		c.BringTo(1, true)
	case CmdBringToTop:
		c.BringTo(0, false)
	case CmdBringToBottom:
		c.BringTo(c.ShapeCount(), false)

	case CmdCopy:
		if c.current >= 0 {
			return c.CopyShape(c.current)
		}
	case CmdDelete:
		if c.current >= 0 {
			c.DeleteShape(c.current)
		}

	case CmdInsertImage:
		if arg != "" {
			c.InsertImage(arg)
			return nil
		}
		c.showPrompt(imagePrompt, imageDefault, c.InsertImage)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
	return nil
}

func parseArg(cmd Command, arg string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s: invalid number %q", cmd, arg)
	}
	return v, nil
}

func (c *Canvas) applyStroke() {
	if s, ok := c.Shape(c.current).(shape.Styled); ok {
		s.SetStroke(c.CurrentStroke())
	}
}

// InsertImage places an image in the middle of the surface, half its
// size, and selects it in move mode.
func (c *Canvas) InsertImage(url string) {
	if url == "" || c.frozen {
		return
	}
	c.SetMode(ModeMove)
	w, h := c.sf.Size()
	img := shape.NewImage(c.sf, url)
	img.SetTransform(w/2, h/2, w/4, h/4, 0, false)
	c.SetCurrentShapeIndex(-1)
	c.AddShape(img)
	c.SetCurrentShapeIndex(0)
}
