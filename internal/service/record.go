package service

import (
	"context"
	"errors"

	"github.com/marelvy/linkpulse/internal/model"
	"github.com/marelvy/linkpulse/internal/repository"
)

// ClickContext carries the request attributes a redirect contributes to
// a click event.
type ClickContext struct {
	UserAgent string
	IP        string
}

// RecordClick derives a click event from the request context and hands
// it to the store's atomic increment-and-append. The caller decides
// whether to wait: the redirect path fires this from a goroutine and
// only logs the error, but the durability outcome is always observable
// here.
//
// Recording never creates an alias; an unknown alias is ErrNotFound.
func (s *Service) RecordClick(ctx context.Context, alias string, click ClickContext) error {
	parsed := s.parse(click.UserAgent)

	var loc *model.Location
	if s.locate != nil {
		loc = s.locate(click.IP)
	}

	event := model.ClickEvent{
		Timestamp:  s.now().UTC(),
		UserAgent:  click.UserAgent,
		IPAddress:  click.IP,
		Location:   loc,
		OSType:     parsed.OS,
		DeviceType: parsed.Device,
	}

	err := s.store.RecordClick(ctx, alias, event)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
