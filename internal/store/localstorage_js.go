//go:build js && wasm

package store

import (
	"context"
	"syscall/js"
)

type localStorage struct {
	ls js.Value
}

// NewLocalStorage wraps the browser's window.localStorage.
func NewLocalStorage() KV {
	return &localStorage{ls: js.Global().Get("localStorage")}
}

func (s *localStorage) Get(_ context.Context, key string) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	v := s.ls.Call("getItem", key)
	if v.IsNull() || v.IsUndefined() {
		return nil, ErrNotFound
	}
	return []byte(v.String()), nil
}

// Set reports a full quota as an error instead of panicking.
func (s *localStorage) Set(_ context.Context, key string, value []byte) (err error) {
	if err := validKey(key); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			jsErr, ok := r.(js.Error)
			if !ok {
				panic(r)
			}
			err = jsErr
		}
	}()
	s.ls.Call("setItem", key, string(value))
	return nil
}

func (s *localStorage) Delete(_ context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	s.ls.Call("removeItem", key)
	return nil
}

func (s *localStorage) Close() error { return nil }
