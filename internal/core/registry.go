package core

import "sort"

// Registry maps a user id to its current live connection handle.
// It is not safe for concurrent use; the Hub loop owns it.
type Registry struct {
	byUser map[string]*Client
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{byUser: make(map[string]*Client)}
}

// Register binds userID to c, overwriting any existing binding.
// It returns the handle previously bound to userID, or nil.
func (r *Registry) Register(userID string, c *Client) *Client {
	prev := r.byUser[userID]
	r.byUser[userID] = c
	c.UserID = userID
	return prev
}

// Unregister removes every entry bound to c and returns the removed user ids.
func (r *Registry) Unregister(c *Client) []string {
	var removed []string
	for userID, bound := range r.byUser {
		if bound == c {
			delete(r.byUser, userID)
			removed = append(removed, userID)
		}
	}
	sort.Strings(removed)
	return removed
}

// Lookup returns the live handle for userID.
func (r *Registry) Lookup(userID string) (*Client, bool) {
	c, ok := r.byUser[userID]
	return c, ok
}

// Len returns the number of registered user ids.
func (r *Registry) Len() int {
	return len(r.byUser)
}
