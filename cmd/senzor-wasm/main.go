//go:build js && wasm

// Command senzor-wasm is the browser build of the agent. It registers a
// global senzor.init(config) and stays resident to serve page signals.
//
//	GOOS=js GOARCH=wasm go build -o senzor.wasm ./cmd/senzor-wasm
//
//	<script>
//	  const go = new Go();
//	  WebAssembly.instantiateStreaming(fetch("senzor.wasm"), go.importObject)
//	    .then(r => { go.run(r.instance); senzor.init({ webId: "w1" }); });
//	</script>
package main

import (
	"context"
	"log/slog"
	"syscall/js"

	"github.com/dmitrymomot/senzor"
	"github.com/dmitrymomot/senzor/pkg/browser/dom"
	"github.com/dmitrymomot/senzor/pkg/logger"
	"github.com/dmitrymomot/senzor/pkg/session"
)

func main() {
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)

	log := logger.New(
		logger.WithFormat(logger.FormatText),
		logger.WithLevel(level),
		logger.WithContextExtractors(session.LogExtractor),
		logger.WithAttr(slog.String("lib", "senzor")),
	)

	senzor.SetDefault(senzor.New(dom.New(), senzor.WithLogger(log)))

	initFn := js.FuncOf(func(_ js.Value, args []js.Value) any {
		cfg, debug := configFromJS(args)
		if debug {
			level.Set(slog.LevelDebug)
		}
		// Errors are already reported through the logger.
		_ = senzor.Init(context.Background(), cfg)
		return nil
	})

	js.Global().Set("senzor", js.ValueOf(map[string]any{"init": initFn}))

	select {}
}

func configFromJS(args []js.Value) (senzor.Config, bool) {
	var cfg senzor.Config
	if len(args) == 0 || args[0].Type() != js.TypeObject {
		return cfg, false
	}
	obj := args[0]
	if v := obj.Get("webId"); v.Type() == js.TypeString {
		cfg.WebID = v.String()
	}
	if v := obj.Get("endpoint"); v.Type() == js.TypeString {
		cfg.Endpoint = v.String()
	}
	return cfg, obj.Get("debug").Truthy()
}
