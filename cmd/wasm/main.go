//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/inamate/drawkit/internal/document"
	"github.com/inamate/drawkit/internal/engine"
)

var eng *engine.Engine

func main() {
	eng = engine.NewEngine(document.DefaultWidth, document.DefaultHeight)

	drawkit := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	drawkit.Set("loadSVG", js.FuncOf(loadSVG))
	drawkit.Set("loadSampleDrawing", js.FuncOf(loadSampleDrawing))
	drawkit.Set("resize", js.FuncOf(resize))
	drawkit.Set("setOrigin", js.FuncOf(setOrigin))
	drawkit.Set("pointerDown", js.FuncOf(pointerDown))
	drawkit.Set("pointerMove", js.FuncOf(pointerMove))
	drawkit.Set("pointerUp", js.FuncOf(pointerUp))
	drawkit.Set("exec", js.FuncOf(exec))
	drawkit.Set("closePrompt", js.FuncOf(closePrompt))
	drawkit.Set("onPrompt", js.FuncOf(onPrompt))
	drawkit.Set("onStatus", js.FuncOf(onStatus))

	// --- Queries (frontend ← backend) ---
	drawkit.Set("render", js.FuncOf(render))
	drawkit.Set("revision", js.FuncOf(revision))
	drawkit.Set("exportSVG", js.FuncOf(exportSVG))
	drawkit.Set("status", js.FuncOf(status))
	drawkit.Set("hitTest", js.FuncOf(hitTest))
	drawkit.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	drawkit.Set("pendingPrompt", js.FuncOf(pendingPrompt))
	drawkit.Set("getMode", js.FuncOf(getMode))
	drawkit.Set("shapeCount", js.FuncOf(shapeCount))

	js.Global().Set("drawkitEngine", drawkit)
	js.Global().Set("drawkitWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errorResult(err error) js.Value {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func okResult() js.Value {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// --- Command Handlers ---

func loadSVG(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing SVG markup"})
	}
	if err := eng.LoadSVG(args[0].String()); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func loadSampleDrawing(this js.Value, args []js.Value) interface{} {
	if err := eng.LoadSampleDrawing(); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func resize(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	eng.Resize(args[0].Float(), args[1].Float())
	return nil
}

func setOrigin(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	eng.SetOrigin(args[0].Float(), args[1].Float())
	return nil
}

// pointerArgs reads (clientX, clientY, shiftKey, timeStamp); the last
// two are optional.
func pointerArgs(args []js.Value) (x, y float64, shift bool, timeMs float64, ok bool) {
	if len(args) < 2 {
		return 0, 0, false, 0, false
	}
	x, y = args[0].Float(), args[1].Float()
	if len(args) > 2 && args[2].Type() == js.TypeBoolean {
		shift = args[2].Bool()
	}
	if len(args) > 3 && args[3].Type() == js.TypeNumber {
		timeMs = args[3].Float()
	}
	return x, y, shift, timeMs, true
}

func pointerDown(this js.Value, args []js.Value) interface{} {
	if x, y, shift, ts, ok := pointerArgs(args); ok {
		eng.PointerDown(x, y, shift, ts)
	}
	return nil
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	if x, y, shift, ts, ok := pointerArgs(args); ok {
		eng.PointerMove(x, y, shift, ts)
	}
	return nil
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	if x, y, shift, ts, ok := pointerArgs(args); ok {
		eng.PointerUp(x, y, shift, ts)
	}
	return nil
}

func exec(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing command"})
	}
	arg := ""
	if len(args) > 1 && args[1].Type() == js.TypeString {
		arg = args[1].String()
	}
	if err := eng.Exec(args[0].String(), arg); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func closePrompt(this js.Value, args []js.Value) interface{} {
	result := ""
	if len(args) > 0 && args[0].Type() == js.TypeString {
		result = args[0].String()
	}
	eng.ClosePrompt(result)
	return nil
}

func onPrompt(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeFunction {
		eng.OnPrompt(nil)
		return nil
	}
	fn := args[0]
	eng.OnPrompt(func(message, value string) {
		fn.Invoke(message, value)
	})
	return nil
}

func onStatus(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeFunction {
		eng.OnStatus(nil)
		return nil
	}
	fn := args[0]
	eng.OnStatus(func(status string) {
		fn.Invoke(status)
	})
	return nil
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Render())
}

func revision(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Revision())
}

func exportSVG(this js.Value, args []js.Value) interface{} {
	markup, err := eng.ExportSVG()
	if err != nil {
		return errorResult(err)
	}
	return js.ValueOf(markup)
}

func status(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Status())
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(-1)
	}
	return js.ValueOf(eng.HitTest(args[0].Float(), args[1].Float()))
}

func getSelectionBounds(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.SelectionBounds())
}

func pendingPrompt(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.PendingPrompt())
}

func getMode(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Mode())
}

func shapeCount(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.ShapeCount())
}
