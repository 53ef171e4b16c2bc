package booking

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"studiobook/models"
	"studiobook/services/calendly"
	"studiobook/services/clickup"
)

type recordingDispatcher struct {
	mu   sync.Mutex
	jobs []models.FollowUpJob
	err  error
}

func (d *recordingDispatcher) Dispatch(_ context.Context, job models.FollowUpJob) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.jobs = append(d.jobs, job)
	return d.err
}

func (d *recordingDispatcher) types() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []string
	for _, j := range d.jobs {
		out = append(out, j.Type)
	}
	return out
}

type fakeTasks struct {
	mu     sync.Mutex
	listID string
	tasks  []clickup.TaskRequest
	resp   json.RawMessage
	err    error
}

func (f *fakeTasks) CreateTask(_ context.Context, listID string, task clickup.TaskRequest) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listID = listID
	f.tasks = append(f.tasks, task)
	return f.resp, f.err
}

type fakeInvitees struct {
	mu       sync.Mutex
	requests []calendly.InviteeRequest
	resp     json.RawMessage
	err      error
}

func (f *fakeInvitees) CreateInvitee(_ context.Context, req calendly.InviteeRequest) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.resp, f.err
}

type fakePrompts struct {
	out    string
	err    error
	prompt string
}

func (f *fakePrompts) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.out, f.err
}

var errBoom = errors.New("boom")
