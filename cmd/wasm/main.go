//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"syscall/js"
	"time"

	"github.com/crk2/designer/internal/config"
	"github.com/crk2/designer/internal/document"
	"github.com/crk2/designer/internal/engine"
	"github.com/crk2/designer/internal/store"
)

var (
	session *engine.Session
	kv      store.KV
	designs *store.DesignLog
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))
	engine.SetLogger(slog.Default())

	kv = store.NewLocalStorage()
	designs = store.NewDesignLog(kv)

	// Create the engine API object
	editorEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	editorEngine.Set("start", js.FuncOf(start))
	editorEngine.Set("pointerDown", js.FuncOf(pointer(engine.PointerDown)))
	editorEngine.Set("pointerMove", js.FuncOf(pointer(engine.PointerMove)))
	editorEngine.Set("pointerUp", js.FuncOf(pointer(engine.PointerUp)))
	editorEngine.Set("pointerCancel", js.FuncOf(pointer(engine.PointerCancel)))
	editorEngine.Set("createText", js.FuncOf(createText))
	editorEngine.Set("createImage", js.FuncOf(createImage))
	editorEngine.Set("select", js.FuncOf(selectElement))
	editorEngine.Set("clearSelection", js.FuncOf(clearSelection))
	editorEngine.Set("deleteSelected", js.FuncOf(deleteSelected))
	editorEngine.Set("reset", js.FuncOf(reset))
	editorEngine.Set("setColor", js.FuncOf(setColor))
	editorEngine.Set("setFont", js.FuncOf(setFont))
	editorEngine.Set("selectProduct", js.FuncOf(selectProduct))
	editorEngine.Set("undo", js.FuncOf(undo))
	editorEngine.Set("redo", js.FuncOf(redo))
	editorEngine.Set("beginEdit", js.FuncOf(beginEdit))
	editorEngine.Set("setText", js.FuncOf(setText))
	editorEngine.Set("endEdit", js.FuncOf(endEdit))
	editorEngine.Set("saveDesign", js.FuncOf(saveDesign))
	editorEngine.Set("tick", js.FuncOf(tick))

	// --- Queries (frontend ← backend) ---
	editorEngine.Set("render", js.FuncOf(render))
	editorEngine.Set("hitTest", js.FuncOf(hitTest))
	editorEngine.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	editorEngine.Set("exportView", js.FuncOf(exportView))
	editorEngine.Set("getState", js.FuncOf(getState))
	editorEngine.Set("getGestureState", js.FuncOf(getGestureState))
	editorEngine.Set("getResources", js.FuncOf(getResources))

	// Register on global scope
	js.Global().Set("editorEngine", editorEngine)

	// Signal that WASM is ready
	js.Global().Set("editorWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func ok() any {
	return js.ValueOf(map[string]any{"ok": true})
}

func fail(err error) any {
	return js.ValueOf(map[string]any{"error": err.Error()})
}

func toJSON(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return js.ValueOf("null")
	}
	return js.ValueOf(string(data))
}

func argString(args []js.Value, i int) (string, bool) {
	if len(args) <= i || args[i].Type() != js.TypeString {
		return "", false
	}
	return args[i].String(), true
}

// eventTime reads an epoch-milliseconds argument, falling back to the wall clock.
func eventTime(args []js.Value, i int) time.Time {
	if len(args) <= i || args[i].Type() != js.TypeNumber {
		return time.Now()
	}
	return time.UnixMilli(int64(args[i].Float()))
}

// --- Command Handlers ---

// start opens the session from a catalog passed as JSON, or from the stored event config.
// Optional arguments: canvas width, height, history limit, long-press milliseconds.
// Callers redirect to setup when the result carries "setup": true.
func start(this js.Value, args []js.Value) any {
	var (
		res *document.Resources
		err error
	)
	if raw, given := argString(args, 0); given {
		res, err = config.ParseResources([]byte(raw))
	} else {
		res, err = config.LoadResources(context.Background(), kv)
	}
	if errors.Is(err, config.ErrNotConfigured) {
		return js.ValueOf(map[string]any{"error": err.Error(), "setup": true})
	}
	if err != nil {
		return fail(err)
	}

	opts := engine.Options{
		Exporter: jsExporter{},
		Designs:  designs,
	}
	if len(args) > 2 && args[1].Type() == js.TypeNumber && args[2].Type() == js.TypeNumber {
		opts.CanvasWidth = args[1].Float()
		opts.CanvasHeight = args[2].Float()
	}
	if len(args) > 3 && args[3].Type() == js.TypeNumber {
		opts.HistoryLimit = args[3].Int()
	}
	if len(args) > 4 && args[4].Type() == js.TypeNumber {
		opts.LongPress = time.Duration(args[4].Int()) * time.Millisecond
	}

	s, err := engine.NewSession(opts, res)
	if errors.Is(err, engine.ErrConfigMissing) {
		return js.ValueOf(map[string]any{"error": err.Error(), "setup": true})
	}
	if err != nil {
		return fail(err)
	}
	session = s
	return js.ValueOf(map[string]any{"ok": true, "sessionId": s.ID()})
}

// pointer builds the handler for one input phase: (id, x, y, timeMs).
func pointer(phase engine.PointerPhase) func(js.Value, []js.Value) any {
	return func(this js.Value, args []js.Value) any {
		if session == nil || len(args) < 3 {
			return nil
		}
		session.HandlePointer(engine.PointerEvent{
			Phase: phase,
			ID:    args[0].Int(),
			X:     args[1].Float(),
			Y:     args[2].Float(),
			Time:  eventTime(args, 3),
		})
		return nil
	}
}

func createText(this js.Value, args []js.Value) any {
	if session == nil {
		return js.ValueOf("")
	}
	text, given := argString(args, 0)
	if !given {
		text = document.DefaultText
	}
	return js.ValueOf(session.CreateTextElement(text))
}

func createImage(this js.Value, args []js.Value) any {
	src, given := argString(args, 0)
	if session == nil || !given {
		return js.ValueOf("")
	}
	return js.ValueOf(session.CreateImageElement(src))
}

func selectElement(this js.Value, args []js.Value) any {
	id, _ := argString(args, 0)
	if session == nil {
		return nil
	}
	if err := session.SelectElement(id); err != nil {
		return fail(err)
	}
	return ok()
}

func clearSelection(this js.Value, args []js.Value) any {
	if session != nil {
		session.ClearSelection()
	}
	return nil
}

func deleteSelected(this js.Value, args []js.Value) any {
	if session == nil {
		return js.ValueOf(false)
	}
	return js.ValueOf(session.DeleteSelected())
}

func reset(this js.Value, args []js.Value) any {
	if session != nil {
		session.ResetScene()
	}
	return nil
}

func setColor(this js.Value, args []js.Value) any {
	color, _ := argString(args, 0)
	if session == nil {
		return nil
	}
	if err := session.ChangeSelectedTextColor(color); err != nil {
		return fail(err)
	}
	return ok()
}

func setFont(this js.Value, args []js.Value) any {
	font, _ := argString(args, 0)
	if session == nil {
		return nil
	}
	if err := session.ApplyFontToSelected(font); err != nil {
		return fail(err)
	}
	return ok()
}

func selectProduct(this js.Value, args []js.Value) any {
	id, _ := argString(args, 0)
	if session == nil {
		return nil
	}
	if err := session.SelectProduct(id); err != nil {
		return fail(err)
	}
	return ok()
}

func undo(this js.Value, args []js.Value) any {
	if session == nil {
		return js.ValueOf(false)
	}
	return js.ValueOf(session.Undo())
}

func redo(this js.Value, args []js.Value) any {
	if session == nil {
		return js.ValueOf(false)
	}
	return js.ValueOf(session.Redo())
}

func beginEdit(this js.Value, args []js.Value) any {
	id, _ := argString(args, 0)
	if session == nil {
		return nil
	}
	if err := session.BeginTextEdit(id); err != nil {
		return fail(err)
	}
	return ok()
}

func setText(this js.Value, args []js.Value) any {
	id, _ := argString(args, 0)
	content, _ := argString(args, 1)
	if session == nil {
		return nil
	}
	if err := session.SetTextContent(id, content); err != nil {
		return fail(err)
	}
	return ok()
}

func endEdit(this js.Value, args []js.Value) any {
	id, _ := argString(args, 0)
	content, _ := argString(args, 1)
	if session == nil {
		return nil
	}
	if err := session.EndTextEdit(id, content); err != nil {
		return fail(err)
	}
	return ok()
}

// saveDesign returns a Promise resolving to the saved record as JSON. The export callback is
// asynchronous, so the save runs off the event loop.
func saveDesign(this js.Value, args []js.Value) any {
	client, _ := argString(args, 0)
	executor := js.FuncOf(func(_ js.Value, p []js.Value) any {
		resolve, reject := p[0], p[1]
		go func() {
			if session == nil {
				reject.Invoke(js.Global().Get("Error").New("session not started"))
				return
			}
			rec, err := session.SaveDesign(context.Background(), client)
			if err != nil {
				reject.Invoke(js.Global().Get("Error").New(err.Error()))
				return
			}
			data, _ := json.Marshal(rec)
			resolve.Invoke(string(data))
		}()
		return nil
	})
	defer executor.Release()
	return js.Global().Get("Promise").New(executor)
}

// tick is called from requestAnimationFrame with Date.now().
func tick(this js.Value, args []js.Value) any {
	if session == nil {
		return js.ValueOf("null")
	}
	return toJSON(session.Tick(eventTime(args, 0)))
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) any {
	if session == nil {
		return js.ValueOf("[]")
	}
	out, err := engine.DrawCommandsToJSON(session.Render())
	if err != nil {
		slog.Error("encode draw commands", "error", err)
	}
	return js.ValueOf(out)
}

func hitTest(this js.Value, args []js.Value) any {
	if session == nil || len(args) < 2 {
		return js.ValueOf("")
	}
	x := args[0].Float()
	y := args[1].Float()
	return js.ValueOf(session.HitTest(x, y))
}

func getSelectionBounds(this js.Value, args []js.Value) any {
	if session == nil {
		return js.ValueOf(engine.RectToJSON(engine.Rect{}))
	}
	return js.ValueOf(engine.RectToJSON(session.SelectionBounds()))
}

func exportView(this js.Value, args []js.Value) any {
	if session == nil {
		return js.ValueOf("null")
	}
	return toJSON(session.ExportView())
}

func getState(this js.Value, args []js.Value) any {
	if session == nil {
		return js.ValueOf("null")
	}
	product, _ := session.Product()
	return toJSON(map[string]any{
		"selected":     session.Selected(),
		"productId":    product.ID,
		"canUndo":      session.CanUndo(),
		"canRedo":      session.CanRedo(),
		"historyIndex": session.HistoryIndex(),
		"historyLen":   session.HistoryLen(),
		"elements":     session.Elements(),
	})
}

func getGestureState(this js.Value, args []js.Value) any {
	id, _ := argString(args, 0)
	if session == nil {
		return js.ValueOf(engine.GestureIdle.String())
	}
	return js.ValueOf(session.GestureState(id).String())
}

func getResources(this js.Value, args []js.Value) any {
	if session == nil {
		return js.ValueOf("null")
	}
	return toJSON(session.Resources())
}
