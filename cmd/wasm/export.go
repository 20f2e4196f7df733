//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"syscall/js"

	"github.com/crk2/designer/internal/document"
	"github.com/crk2/designer/internal/engine"
)

// jsExporter hands the view to the page's editorExport(viewJSON, clientName) function, which
// rasterizes the canvas and resolves to the downloaded file name.
type jsExporter struct{}

func (jsExporter) Export(ctx context.Context, view *document.ExportView, clientName string) (string, error) {
	fn := js.Global().Get("editorExport")
	if fn.Type() != js.TypeFunction {
		return "", engine.ErrExportUnavailable
	}
	data, err := json.Marshal(view)
	if err != nil {
		return "", fmt.Errorf("encode view: %w", err)
	}
	v, err := await(ctx, js.Global().Get("Promise").Call("resolve", fn.Invoke(string(data), clientName)))
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// await blocks the calling goroutine until the promise settles. It must not run on the
// event loop goroutine.
func await(ctx context.Context, promise js.Value) (js.Value, error) {
	type result struct {
		v   js.Value
		err error
	}
	done := make(chan result, 1)

	onResolve := js.FuncOf(func(_ js.Value, args []js.Value) any {
		v := js.Undefined()
		if len(args) > 0 {
			v = args[0]
		}
		done <- result{v: v}
		return nil
	})
	defer onResolve.Release()
	onReject := js.FuncOf(func(_ js.Value, args []js.Value) any {
		msg := "export rejected"
		if len(args) > 0 {
			msg = args[0].Call("toString").String()
		}
		done <- result{err: errors.New(msg)}
		return nil
	})
	defer onReject.Release()

	promise.Call("then", onResolve, onReject)

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		return js.Undefined(), ctx.Err()
	}
}
