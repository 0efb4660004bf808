package navigation

import (
	"sync"

	"go.uber.org/atomic"

	"github.com/go-drift/nibel/pkg/errors"
	"github.com/go-drift/nibel/pkg/nibel"
)

// DeepLinkController listens for deep links and navigates to the external
// destination each link maps to.
//
// Links arriving before the runtime is configured are kept and navigated
// by RetryPending. Only the latest pending link is kept.
type DeepLinkController struct {
	// DestinationForLink maps a link to a destination. Links it rejects are
	// dropped.
	DestinationForLink func(link string) (nibel.ExternalDestination, bool)
	// Navigate performs the navigation, typically a controller's
	// NavigateToDestination.
	Navigate func(dest nibel.ExternalDestination) error
	// Dispatch runs f on the UI context. Nil runs f on the listener goroutine.
	Dispatch func(f func())
	// OnError receives navigation failures after they are reported.
	OnError func(err error)

	mu      sync.Mutex
	pending nibel.ExternalDestination
	started atomic.Bool
	stopCh  chan struct{}
	done    chan struct{}
}

// Start listens on links until Stop is called or links is closed.
// Calling Start on a running controller does nothing.
func (c *DeepLinkController) Start(links <-chan string) {
	if c == nil || c.DestinationForLink == nil || c.Navigate == nil {
		return
	}
	if c.started.Swap(true) {
		return
	}
	c.stopCh = make(chan struct{})
	c.done = make(chan struct{})
	go c.listen(links, c.stopCh, c.done)
}

func (c *DeepLinkController) listen(links <-chan string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer errors.Recover("navigation.DeepLinkController")
	for {
		select {
		case <-stop:
			return
		case link, ok := <-links:
			if !ok {
				return
			}
			c.handleLink(link)
		}
	}
}

// Stop stops listening and drops the pending link. It waits for the
// listener goroutine to exit.
func (c *DeepLinkController) Stop() {
	if c == nil || !c.started.Swap(false) {
		return
	}
	close(c.stopCh)
	<-c.done
	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()
}

// Pending returns the destination waiting for RetryPending.
func (c *DeepLinkController) Pending() (nibel.ExternalDestination, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending, c.pending != nil
}

// RetryPending navigates to the pending destination, if any.
func (c *DeepLinkController) RetryPending() {
	c.mu.Lock()
	dest := c.pending
	c.pending = nil
	c.mu.Unlock()
	if dest != nil {
		c.dispatch(func() { c.navigate(dest) })
	}
}

func (c *DeepLinkController) handleLink(link string) {
	dest, ok := c.DestinationForLink(link)
	if !ok || dest == nil {
		return
	}
	c.dispatch(func() { c.navigate(dest) })
}

func (c *DeepLinkController) dispatch(f func()) {
	if c.Dispatch != nil {
		c.Dispatch(f)
		return
	}
	f()
}

func (c *DeepLinkController) navigate(dest nibel.ExternalDestination) {
	err := c.Navigate(dest)
	if err == nil {
		return
	}
	if errors.Is(err, errors.ErrNotConfigured) {
		c.mu.Lock()
		c.pending = dest
		c.mu.Unlock()
		return
	}
	errors.ReportError("navigation.DeepLinkController", errors.KindBackend, err)
	if c.OnError != nil {
		c.OnError(err)
	}
}
