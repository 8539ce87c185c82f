// Package namegen hands out human-friendly names for hunt runs, so that logs
// and notifications read "misty-husky" instead of a counter.
package namegen

import (
	vendor "github.com/anandvarma/namegen"
)

var gen = vendor.New()

// Name identifies one hunt run.
type Name string

func Get() Name {
	return Name(gen.Get())
}

func (n Name) String() string {
	return string(n)
}
