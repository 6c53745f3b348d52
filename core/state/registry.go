package state

import (
	"defind/core/types"
	"defind/crypto"
)

// storedDescription is the RLP shape of a website description record.
type storedDescription struct {
	Name        string
	Link        string
	Description string
}

// DescriptionGet loads the description record for a website.
func (m *Manager) DescriptionGet(website types.Website) (*types.WebsiteDescription, bool, error) {
	var stored storedDescription
	ok, err := m.load(descKey(website.Owner, website.Link), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return &types.WebsiteDescription{
		Name:        stored.Name,
		Link:        stored.Link,
		Description: stored.Description,
	}, true, nil
}

// DescriptionPut stores the description record for a website.
func (m *Manager) DescriptionPut(website types.Website, desc *types.WebsiteDescription) error {
	return m.store(descKey(website.Owner, website.Link), &storedDescription{
		Name:        desc.Name,
		Link:        desc.Link,
		Description: desc.Description,
	})
}

// DescriptionDelete removes the description record for a website.
func (m *Manager) DescriptionDelete(website types.Website) error {
	return m.db.Delete(descKey(website.Owner, website.Link))
}

// SiteListGet returns the links registered by an owner in stored order.
func (m *Manager) SiteListGet(owner crypto.Identity) ([]string, error) {
	var links []string
	if _, err := m.load(siteListKey(owner), &links); err != nil {
		return nil, err
	}
	return links, nil
}

// SiteListPut replaces the links registered by an owner. An empty slice
// removes the list entirely.
func (m *Manager) SiteListPut(owner crypto.Identity, links []string) error {
	key := siteListKey(owner)
	if len(links) == 0 {
		return m.db.Delete(key)
	}
	return m.store(key, links)
}
