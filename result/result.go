/*
Package result provides a generic Result type: the outcome of a
computation that may fail.

Host operations which are expected to fail under regular circumstances
(inserting rule text a CSS engine refuses, reading the rules of a
foreign-origin stylesheet) return a Result instead of panicking or
handing back a pair of values which have to be checked in a particular
order. Clients pattern-match on the result:

    switch m := r.Match(); m {
    case m.Ok(&v):
        …
    case m.Err(&err):
        …
    }

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package result

// Result is either Ok(value) or Err(error).
type Result[T any] interface {
	Match() Matcher[T]
	IsOk() bool
	Get() (T, error)
}

type result[T any] struct {
	value T
	err   error
}

// Ok wraps a successful value.
func Ok[T any](x T) Result[T] {
	return result[T]{value: x}
}

// Err wraps an error. A nil error is not allowed and is treated as Ok of
// the zero value.
func Err[T any](err error) Result[T] {
	return result[T]{err: err}
}

// Of converts a conventional (value, error) pair into a Result.
func Of[T any](x T, err error) Result[T] {
	if err != nil {
		return Err[T](err)
	}
	return Ok(x)
}

func (r result[T]) Match() Matcher[T] {
	return &matcher[T]{r: r}
}

func (r result[T]) IsOk() bool {
	return r.err == nil
}

// Get unwraps the result into a conventional (value, error) pair.
func (r result[T]) Get() (T, error) {
	return r.value, r.err
}

// WithDefault returns the value of an Ok result or def otherwise.
func WithDefault[T any](r Result[T], def T) T {
	if v, err := r.Get(); err == nil {
		return v
	}
	return def
}

// Map applies f to the value of an Ok result; errors pass through.
func Map[T, S any](r Result[T], f func(T) S) Result[S] {
	v, err := r.Get()
	if err != nil {
		return Err[S](err)
	}
	return Ok(f(v))
}

// --- Matching --------------------------------------------------------------

// Matcher is used in switch statements to destructure a Result.
// Every method returns the matcher itself on success and nil otherwise.
type Matcher[T any] interface {
	Ok(*T) Matcher[T]
	Err(*error) Matcher[T]
}

// matchers are compared by identity in switch statements
type matcher[T any] struct {
	r result[T]
}

func (rm *matcher[T]) Ok(v *T) Matcher[T] {
	if rm.r.err == nil {
		if v != nil {
			*v = rm.r.value
		}
		return rm
	}
	return nil
}

func (rm *matcher[T]) Err(err *error) Matcher[T] {
	if rm.r.err != nil {
		if err != nil {
			*err = rm.r.err
		}
		return rm
	}
	return nil
}
