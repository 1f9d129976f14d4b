//go:build js && wasm

package dom

import (
	"context"
	"syscall/js"

	"github.com/dmitrymomot/senzor/pkg/session"
)

// webStorage is a session.Scope over window.localStorage or
// window.sessionStorage. The storage object is looked up on every call since
// merely touching it can throw.
type webStorage struct {
	name string
}

var _ session.Scope = webStorage{}

func (s webStorage) object() (js.Value, error) {
	var v js.Value
	err := try(func() { v = js.Global().Get(s.name) })
	if err != nil {
		return js.Value{}, err
	}
	if v.IsUndefined() || v.IsNull() {
		return js.Value{}, session.ErrScopeUnavailable
	}
	return v, nil
}

func (s webStorage) Get(_ context.Context, key string) (string, error) {
	obj, err := s.object()
	if err != nil {
		return "", err
	}
	var out string
	err = try(func() {
		v := obj.Call("getItem", key)
		if v.Type() == js.TypeString {
			out = v.String()
		}
	})
	return out, err
}

func (s webStorage) Set(_ context.Context, key, value string) error {
	if key == "" {
		return session.ErrInvalidKey
	}
	obj, err := s.object()
	if err != nil {
		return err
	}
	return try(func() { obj.Call("setItem", key, value) })
}

func (s webStorage) Delete(_ context.Context, key string) error {
	obj, err := s.object()
	if err != nil {
		return err
	}
	return try(func() { obj.Call("removeItem", key) })
}
