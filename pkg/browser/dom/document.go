//go:build js && wasm

package dom

import (
	"sync"
	"syscall/js"

	"github.com/dmitrymomot/senzor/pkg/browser"
	"github.com/dmitrymomot/senzor/pkg/session"
	"github.com/dmitrymomot/senzor/pkg/transport"
)

var _ browser.Host = (*Document)(nil)

// Document is the page the wasm module was loaded into.
type Document struct {
	mu    sync.Mutex
	funcs []js.Func
}

// New binds to the global window.
func New() *Document {
	return &Document{}
}

func window() js.Value   { return js.Global() }
func document() js.Value { return js.Global().Get("document") }
func location() js.Value { return js.Global().Get("location") }

func stringOf(get func() js.Value) string {
	var s string
	_ = try(func() {
		if v := get(); v.Type() == js.TypeString {
			s = v.String()
		}
	})
	return s
}

func (d *Document) URL() string {
	return stringOf(func() js.Value { return location().Get("href") })
}

func (d *Document) Path() string {
	return stringOf(func() js.Value { return location().Get("pathname") })
}

func (d *Document) Title() string {
	return stringOf(func() js.Value { return document().Get("title") })
}

func (d *Document) Referrer() string {
	return stringOf(func() js.Value { return document().Get("referrer") })
}

func (d *Document) Host() string {
	return stringOf(func() js.Value { return location().Get("host") })
}

func (d *Document) ViewportWidth() int {
	var w int
	_ = try(func() {
		if v := window().Get("innerWidth"); v.Type() == js.TypeNumber {
			w = v.Int()
		}
	})
	return w
}

func (d *Document) Timezone() string {
	return stringOf(func() js.Value {
		return js.Global().Get("Intl").Call("DateTimeFormat").Call("resolvedOptions").Get("timeZone")
	})
}

func (d *Document) DurableStorage() session.Scope { return webStorage{name: "localStorage"} }

func (d *Document) SessionStorage() session.Scope { return webStorage{name: "sessionStorage"} }

// Beacon returns nil when navigator.sendBeacon is missing.
func (d *Document) Beacon() transport.Beacon {
	var ok bool
	_ = try(func() {
		nav := window().Get("navigator")
		ok = !nav.IsUndefined() && isFunction(nav.Get("sendBeacon"))
	})
	if !ok {
		return nil
	}
	return transport.BeaconFunc(sendBeacon)
}

func sendBeacon(url, contentType string, body []byte) bool {
	var queued bool
	err := try(func() {
		buf := js.Global().Get("Uint8Array").New(len(body))
		js.CopyBytesToJS(buf, body)
		blob := js.Global().Get("Blob").New([]any{buf}, map[string]any{"type": contentType})
		queued = window().Get("navigator").Call("sendBeacon", url, blob).Truthy()
	})
	return err == nil && queued
}

func (d *Document) keep(fn js.Func) js.Func {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.funcs = append(d.funcs, fn)
	return fn
}

// InterceptNavigation replaces history.pushState with a wrapper that hands
// the original call to handler as next.
func (d *Document) InterceptNavigation(handler func(next func())) {
	_ = try(func() {
		history := window().Get("history")
		orig := history.Get("pushState")
		if !isFunction(orig) {
			return
		}
		wrapper := d.keep(js.FuncOf(func(this js.Value, args []js.Value) any {
			var ret js.Value
			handler(func() {
				ret = orig.Call("apply", this, toArray(args))
			})
			return ret
		}))
		history.Set("pushState", wrapper)
	})
}

func (d *Document) OnPopState(handler func()) {
	d.listen(window(), "popstate", func(js.Value) { handler() })
}

func (d *Document) OnVisibilityChange(handler func(hidden bool)) {
	d.listen(document(), "visibilitychange", func(js.Value) {
		handler(document().Get("visibilityState").String() == "hidden")
	})
}

func (d *Document) OnPageHide(handler func()) {
	d.listen(window(), "pagehide", func(js.Value) { handler() })
}

func (d *Document) listen(target js.Value, name string, handler func(ev js.Value)) {
	fn := d.keep(js.FuncOf(func(_ js.Value, args []js.Value) any {
		var ev js.Value
		if len(args) > 0 {
			ev = args[0]
		}
		handler(ev)
		return nil
	}))
	_ = try(func() { target.Call("addEventListener", name, fn) })
}

// Release frees the Go functions registered as JavaScript callbacks.
func (d *Document) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, fn := range d.funcs {
		fn.Release()
	}
	d.funcs = nil
}
