package canvas

// Prompter asks the user for a line of text. The answer comes back
// through Canvas.ClosePrompt.
type Prompter interface {
	ShowPrompt(message, value string)
}

// PromptFunc adapts a function to the Prompter interface.
type PromptFunc func(message, value string)

func (f PromptFunc) ShowPrompt(message, value string) { f(message, value) }

// Prompt is a pending question.
type Prompt struct {
	Message string `json:"message"`
	Value   string `json:"value"`
}

// showPrompt freezes the canvas until the prompt is answered. An empty
// answer cancels and handle is not called.
func (c *Canvas) showPrompt(message, value string, handle func(result string)) {
	c.frozen = true
	c.pending = handle
	c.prompt = Prompt{Message: message, Value: value}
	c.log.Debug("prompt", "message", message)
	if c.prompter == nil {
		c.ClosePrompt("")
		return
	}
	c.prompter.ShowPrompt(message, value)
}

// PendingPrompt returns the open prompt, if any.
func (c *Canvas) PendingPrompt() (Prompt, bool) {
	if !c.frozen {
		return Prompt{}, false
	}
	return c.prompt, true
}

// ClosePrompt answers the open prompt and unfreezes the canvas.
func (c *Canvas) ClosePrompt(result string) {
	if !c.frozen {
		return
	}
	handle := c.pending
	c.frozen = false
	c.pending = nil
	c.prompt = Prompt{}
	if result != "" && handle != nil {
		handle(result)
	}
}
