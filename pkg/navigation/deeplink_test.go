package navigation

import (
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/go-drift/nibel/pkg/errors"
	"github.com/go-drift/nibel/pkg/nibel"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func noteForLink(link string) (nibel.ExternalDestination, bool) {
	id, ok := strings.CutPrefix(link, "notes://note/")
	if !ok {
		return nil, false
	}
	n, err := strconv.Atoi(id)
	if err != nil {
		return nil, false
	}
	return NoteDestination{nibel.WithArgs(noteArgs{ID: n})}, true
}

type navRecorder struct {
	mu   sync.Mutex
	ids  []int
	fail error
	seen chan struct{}
}

func newNavRecorder() *navRecorder {
	return &navRecorder{seen: make(chan struct{}, 16)}
}

func (r *navRecorder) navigate(dest nibel.ExternalDestination) error {
	r.mu.Lock()
	defer func() {
		r.mu.Unlock()
		r.seen <- struct{}{}
	}()
	if r.fail != nil {
		err := r.fail
		r.fail = nil
		return err
	}
	r.ids = append(r.ids, dest.(NoteDestination).Args.ID)
	return nil
}

func (r *navRecorder) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.seen:
	case <-time.After(2 * time.Second):
		t.Fatal("navigation did not happen")
	}
}

func (r *navRecorder) navigated() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.ids...)
}

func TestDeepLinkNavigates(t *testing.T) {
	nav := newNavRecorder()
	c := &DeepLinkController{DestinationForLink: noteForLink, Navigate: nav.navigate}
	links := make(chan string)
	c.Start(links)
	defer c.Stop()

	links <- "notes://list"
	links <- "notes://note/4"
	nav.wait(t)
	assert.Equal(t, []int{4}, nav.navigated())
}

func TestDeepLinkKeepsPendingUntilConfigured(t *testing.T) {
	nav := newNavRecorder()
	nav.fail = errors.New("nibel.NewEntry", errors.KindConfig, errors.ErrNotConfigured)
	c := &DeepLinkController{DestinationForLink: noteForLink, Navigate: nav.navigate}
	links := make(chan string)
	c.Start(links)

	links <- "notes://note/9"
	nav.wait(t)
	require.Eventually(t, func() bool {
		_, ok := c.Pending()
		return ok
	}, 2*time.Second, 5*time.Millisecond)
	dest, _ := c.Pending()
	assert.Equal(t, 9, dest.(NoteDestination).Args.ID)

	c.RetryPending()
	nav.wait(t)
	assert.Equal(t, []int{9}, nav.navigated())
	_, ok := c.Pending()
	assert.False(t, ok)
	c.Stop()
}

func TestDeepLinkReportsErrors(t *testing.T) {
	var reported []*errors.NibelError
	defer errors.SetHandler(errors.SetHandler(handlerFunc(func(err *errors.NibelError) { reported = append(reported, err) })))

	nav := newNavRecorder()
	nav.fail = errors.ErrUnknownRoute
	var onError []error
	c := &DeepLinkController{
		DestinationForLink: noteForLink,
		Navigate:           nav.navigate,
		OnError:            func(err error) { onError = append(onError, err) },
	}
	links := make(chan string)
	c.Start(links)
	links <- "notes://note/1"
	nav.wait(t)
	c.Stop()

	require.Len(t, reported, 1)
	assert.Equal(t, errors.KindBackend, reported[0].Kind)
	require.Len(t, onError, 1)
	assert.True(t, errors.Is(onError[0], errors.ErrUnknownRoute))
}

func TestDeepLinkUsesDispatch(t *testing.T) {
	nav := newNavRecorder()
	var dispatched int
	var mu sync.Mutex
	c := &DeepLinkController{
		DestinationForLink: noteForLink,
		Navigate:           nav.navigate,
		Dispatch: func(f func()) {
			mu.Lock()
			dispatched++
			mu.Unlock()
			f()
		},
	}
	links := make(chan string, 1)
	c.Start(links)
	c.Start(links)
	links <- "notes://note/2"
	nav.wait(t)
	c.Stop()
	c.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, dispatched)
}

func TestDeepLinkStopsWhenChannelCloses(t *testing.T) {
	c := &DeepLinkController{DestinationForLink: noteForLink, Navigate: newNavRecorder().navigate}
	links := make(chan string)
	c.Start(links)
	close(links)
	c.Stop()
}

func TestDeepLinkWithoutMapperDoesNotStart(t *testing.T) {
	c := &DeepLinkController{}
	c.Start(make(chan string))
	c.Stop()
	var nilController *DeepLinkController
	nilController.Stop()
}

type handlerFunc func(*errors.NibelError)

func (f handlerFunc) HandleError(err *errors.NibelError) { f(err) }
func (f handlerFunc) HandlePanic(*errors.PanicError)     {}
