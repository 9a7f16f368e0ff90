package canvas

// Status is the toolbar-facing view of the canvas state.
type Status struct {
	Mode        Mode    `json:"mode"`
	StrokeWidth float64 `json:"strokeWidth"`
	StrokeColor string  `json:"strokeColor"`
	FillColor   string  `json:"fillColor"`
	FontSize    float64 `json:"fontSize"`
	IsPath      bool    `json:"isPath"`
	IsText      bool    `json:"isText"`
}

// Status returns the current mode, style and selection kind.
func (c *Canvas) Status() Status {
	st := Status{
		Mode:        c.mode,
		StrokeWidth: c.strokeWidth,
		StrokeColor: c.strokeColor,
		FontSize:    c.font.Size,
	}
	if c.fill != nil {
		st.FillColor = c.fill.Color
	}
	if s := c.Shape(c.current); s != nil {
		st.IsPath = s.IsPath()
		st.IsText = s.IsText()
	}
	return st
}

// OnStatusChanged registers fn to be called whenever the selection or
// the mode changes.
func (c *Canvas) OnStatusChanged(fn func(Status)) {
	c.listeners = append(c.listeners, fn)
}

func (c *Canvas) emitStatus() {
	if len(c.listeners) == 0 {
		return
	}
	st := c.Status()
	for _, fn := range c.listeners {
		fn(st)
	}
}
