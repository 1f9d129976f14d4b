//go:build js && wasm

package dom

import (
	"errors"
	"fmt"
	"syscall/js"
)

var ErrJavaScript = errors.New("dom: javascript exception")

// try runs fn and converts a thrown JavaScript exception into an error.
func try(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if jsErr, ok := r.(js.Error); ok {
				err = fmt.Errorf("%w: %s", ErrJavaScript, jsErr.Error())
				return
			}
			err = fmt.Errorf("%w: %v", ErrJavaScript, r)
		}
	}()
	fn()
	return nil
}

func isFunction(v js.Value) bool {
	return v.Type() == js.TypeFunction
}

func toArray(args []js.Value) js.Value {
	arr := js.Global().Get("Array").New(len(args))
	for i, a := range args {
		arr.SetIndex(i, a)
	}
	return arr
}
