package core

import "fmt"

// SignupResult is either a decoded signup or the error that prevented it.
// The zero value is a failure so an unset result can never pass as success.
type SignupResult struct {
	value ConsumerSessionSignup
	err   error
	ok    bool
}

func SignupSucceeded(value ConsumerSessionSignup) SignupResult {
	return SignupResult{value: value, ok: true}
}

func SignupFailed(err error) SignupResult {
	if err == nil {
		err = fmt.Errorf("core: signup failed without a cause")
	}
	return SignupResult{err: err}
}

func (r SignupResult) Succeeded() bool {
	return r.ok
}

// Value returns the signup payload and true only on the success arm.
func (r SignupResult) Value() (ConsumerSessionSignup, bool) {
	if !r.ok {
		return ConsumerSessionSignup{}, false
	}
	return r.value, true
}

func (r SignupResult) Err() error {
	if r.ok {
		return nil
	}
	if r.err == nil {
		return fmt.Errorf("core: signup result is empty")
	}
	return r.err
}

// Get folds the result into the usual (value, error) pair.
func (r SignupResult) Get() (ConsumerSessionSignup, error) {
	if !r.ok {
		return ConsumerSessionSignup{}, r.Err()
	}
	return r.value, nil
}
