package registry

import (
	"errors"
	"sort"
	"strings"

	"defind/core/events"
	"defind/core/types"
	"defind/crypto"
	"defind/native/common"
)

var (
	errNilState = errors.New("registry engine: state not configured")

	// ErrEmptyLink rejects a description whose link is blank.
	ErrEmptyLink = errors.New("registry engine: link required")
)

type engineState interface {
	DescriptionGet(website types.Website) (*types.WebsiteDescription, bool, error)
	DescriptionPut(website types.Website, desc *types.WebsiteDescription) error
	DescriptionDelete(website types.Website) error
	SiteListGet(owner crypto.Identity) ([]string, error)
	SiteListPut(owner crypto.Identity, links []string) error
}

// Engine maintains the website description records and the per-owner site
// listing. Stake retraction on removal is coordinated by the node, which
// retracts before the record is deleted.
type Engine struct {
	state   engineState
	emitter events.Emitter
}

// NewEngine constructs a registry engine with default dependencies.
func NewEngine() *Engine {
	return &Engine{emitter: events.NoopEmitter{}}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetEmitter configures the event emitter used by the engine.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

func (e *Engine) emit(evt *types.Event) {
	if e == nil || evt == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(WrapEvent(evt))
}

// SetDescription creates or replaces the description record for the caller's
// website keyed by the description's link. First-time registration adds the
// link to the owner's site list in sorted order.
func (e *Engine) SetDescription(caller crypto.Identity, desc types.WebsiteDescription) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := common.RequireNonAnonymous(caller); err != nil {
		return err
	}
	link := strings.TrimSpace(desc.Link)
	if link == "" {
		return ErrEmptyLink
	}
	desc.Link = link
	website := types.Website{Owner: caller, Link: link}

	_, existed, err := e.state.DescriptionGet(website)
	if err != nil {
		return err
	}
	if err := e.state.DescriptionPut(website, &desc); err != nil {
		return err
	}
	if !existed {
		links, err := e.state.SiteListGet(caller)
		if err != nil {
			return err
		}
		idx := sort.SearchStrings(links, link)
		links = append(links, "")
		copy(links[idx+1:], links[idx:])
		links[idx] = link
		if err := e.state.SiteListPut(caller, links); err != nil {
			return err
		}
	}
	e.emit(DescriptionSetEvent(caller.String(), link))
	return nil
}

// Websites returns the caller's own description records in site-list order.
func (e *Engine) Websites(caller crypto.Identity) ([]types.WebsiteDescription, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := common.RequireNonAnonymous(caller); err != nil {
		return nil, err
	}
	links, err := e.state.SiteListGet(caller)
	if err != nil {
		return nil, err
	}
	descs := make([]types.WebsiteDescription, 0, len(links))
	for _, link := range links {
		desc, ok, err := e.state.DescriptionGet(types.Website{Owner: caller, Link: link})
		if err != nil {
			return nil, err
		}
		if ok {
			descs = append(descs, *desc)
		}
	}
	return descs, nil
}

// Remove deletes the caller's description record for the link and drops the
// link from the site list. Removing an unknown link is a no-op. The returned
// flag reports whether a record existed.
func (e *Engine) Remove(caller crypto.Identity, link string) (bool, error) {
	if e == nil || e.state == nil {
		return false, errNilState
	}
	if err := common.RequireNonAnonymous(caller); err != nil {
		return false, err
	}
	link = strings.TrimSpace(link)
	website := types.Website{Owner: caller, Link: link}
	_, existed, err := e.state.DescriptionGet(website)
	if err != nil {
		return false, err
	}
	if !existed {
		return false, nil
	}
	if err := e.state.DescriptionDelete(website); err != nil {
		return false, err
	}
	links, err := e.state.SiteListGet(caller)
	if err != nil {
		return false, err
	}
	filtered := links[:0]
	for _, l := range links {
		if l != link {
			filtered = append(filtered, l)
		}
	}
	if err := e.state.SiteListPut(caller, filtered); err != nil {
		return false, err
	}
	e.emit(WebsiteRemovedEvent(caller.String(), link))
	return true, nil
}
