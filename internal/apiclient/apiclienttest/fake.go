// Package apiclienttest provides an in-memory apiclient.API for service tests.
package apiclienttest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

type Call struct {
	Method string
	Path   string
	Body   json.RawMessage
}

// Fake records every call and answers from canned responses keyed by
// "METHOD path". Unknown keys answer with an empty body.
type Fake struct {
	mu        sync.Mutex
	calls     []Call
	responses map[string]interface{}
	errs      map[string]error
}

func NewFake() *Fake {
	return &Fake{
		responses: make(map[string]interface{}),
		errs:      make(map[string]error),
	}
}

func (f *Fake) Respond(method, path string, body interface{}) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[method+" "+path] = body
	return f
}

func (f *Fake) Fail(method, path string, err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[method+" "+path] = err
	return f
}

func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// LastBody decodes the body of the most recent call into out.
func (f *Fake) LastBody(out interface{}) error {
	calls := f.Calls()
	if len(calls) == 0 {
		return fmt.Errorf("no calls recorded")
	}
	return json.Unmarshal(calls[len(calls)-1].Body, out)
}

func (f *Fake) Get(ctx context.Context, path string, out interface{}) error {
	return f.do("GET", path, nil, out)
}

func (f *Fake) Post(ctx context.Context, path string, in, out interface{}) error {
	return f.do("POST", path, in, out)
}

func (f *Fake) Put(ctx context.Context, path string, in, out interface{}) error {
	return f.do("PUT", path, in, out)
}

func (f *Fake) Delete(ctx context.Context, path string, in, out interface{}) error {
	return f.do("DELETE", path, in, out)
}

func (f *Fake) do(method, path string, in, out interface{}) error {
	var body json.RawMessage
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = b
	}

	f.mu.Lock()
	f.calls = append(f.calls, Call{Method: method, Path: path, Body: body})
	key := method + " " + path
	err := f.errs[key]
	resp, ok := f.responses[key]
	f.mu.Unlock()

	if err != nil {
		return err
	}
	if !ok || out == nil {
		return nil
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
