package notifier

import (
	"context"
	"fmt"
	"io"
	"log"
	"slices"

	shoutrrr "github.com/nicholas-fedor/shoutrrr"
	"github.com/nicholas-fedor/shoutrrr/pkg/router"
	"github.com/nicholas-fedor/shoutrrr/pkg/types"
)

// Push delivers notifications to one or more shoutrrr service URLs
// (ntfy, telegram, discord, ...). A single sender handles all URLs.
type Push struct {
	sender *router.ServiceRouter
}

// NewPush validates the service URLs and returns a push notifier.
func NewPush(urls []string) (*Push, error) {
	if len(urls) == 0 {
		return nil, fmt.Errorf("at least one service URL is required")
	}

	sender, err := shoutrrr.CreateSender(slices.Clone(urls)...)
	if err != nil {
		return nil, fmt.Errorf("invalid push service URL: %w", err)
	}
	// shoutrrr's default logger writes to stderr; keep it quiet.
	sender.SetLogger(log.New(io.Discard, "", 0))

	return &Push{sender: sender}, nil
}

// Notify sends the notification body with the title as a parameter.
func (p *Push) Notify(_ context.Context, n Notification) error {
	params := types.Params{}
	if n.Title != "" {
		params.SetTitle(n.Title)
	}

	for _, err := range p.sender.Send(n.Body, &params) {
		if err != nil {
			return fmt.Errorf("push delivery failed: %w", err)
		}
	}
	return nil
}
