// In-memory model of the managed clients and desks. Implements the window
// manager side of dispatch.WM; the effects on real windows go through a
// Backend.
package wmstate

import (
	"github.com/jmigpin/wm/core/action"
	"github.com/jmigpin/wm/core/dispatch"
)

type Window uint32

// Backend applies the state changes to real windows. All methods are
// optional effects; the model is the source of truth.
type Backend interface {
	Focus(w Window)
	Map(w Window)
	Unmap(w Window)
	Close(w Window)
	SetFullscreen(w Window, on bool)
	DrawFrame(w Window, focused bool)
}

//----------

type Client struct {
	Win  Window
	desk int

	iconified  bool
	fullscreen bool
	mapped     bool // as last requested from the backend
}

func (c *Client) Desk() int        { return c.desk }
func (c *Client) Iconified() bool  { return c.iconified }
func (c *Client) Fullscreen() bool { return c.fullscreen }

func (c *Client) onDesk(d int) bool {
	return d == action.AllDesks || c.desk == d || c.desk == action.AllDesks
}

//----------

type State struct {
	Backend Backend

	OnLauncher func()
	OnTeardown func()
	OnShutdown func()

	clients []*Client // focus order, most recent first
	focused *Client
	curDesk int
	nDesks  int
}

func NewState(nDesks int, b Backend) *State {
	if nDesks < 1 {
		nDesks = 1
	}
	return &State{nDesks: nDesks, Backend: b}
}

//----------

func (s *State) Add(w Window) *Client {
	if c := s.Client(w); c != nil {
		return c
	}
	c := &Client{Win: w, desk: s.curDesk}
	if s.curDesk == action.AllDesks {
		c.desk = 0
	}
	s.clients = append(s.clients, c)
	c.mapped = true
	if s.Backend != nil {
		s.Backend.Map(w)
	}
	s.focus(c)
	return c
}

func (s *State) Remove(w Window) {
	for i, c := range s.clients {
		if c.Win == w {
			s.clients = append(s.clients[:i], s.clients[i+1:]...)
			if s.focused == c {
				s.focused = nil
				s.focusTopVisible()
			}
			return
		}
	}
}

func (s *State) Client(w Window) *Client {
	for _, c := range s.clients {
		if c.Win == w {
			return c
		}
	}
	return nil
}

func (s *State) Clients() []*Client {
	u := make([]*Client, len(s.clients))
	copy(u, s.clients)
	return u
}

//----------

func (s *State) Focused() dispatch.Client {
	if s.focused == nil {
		return nil
	}
	return s.focused
}

func (s *State) FocusedClient() *Client {
	return s.focused
}

func (s *State) Focus(c0 dispatch.Client, force bool) {
	c := c0.(*Client)
	if s.index(c) < 0 { // removed
		return
	}
	if c == s.focused && !force {
		return
	}
	s.focus(c)
}

func (s *State) focus(c *Client) {
	prev := s.focused
	s.focused = c
	s.toFront(c)
	if s.Backend != nil {
		if prev != nil && prev != c {
			s.Backend.DrawFrame(prev.Win, false)
		}
		// an unmapped window can't take the input focus, it gets it when
		// uniconified
		if c.mapped {
			s.Backend.Focus(c.Win)
		}
		s.Backend.DrawFrame(c.Win, true)
	}
}

func (s *State) toFront(c *Client) {
	for i, c2 := range s.clients {
		if c2 == c {
			copy(s.clients[1:i+1], s.clients[:i])
			s.clients[0] = c
			return
		}
	}
}

func (s *State) focusTopVisible() {
	for _, c := range s.clients {
		if !c.iconified && c.onDesk(s.curDesk) {
			s.focus(c)
			return
		}
	}
	s.focused = nil
}

//----------

// Cycles through the clients of the current desk and the iconified ones.
func (s *State) NextForFocus(anchor0 dispatch.Client, reverse bool) dispatch.Client {
	anchor := anchor0.(*Client)
	i := s.index(anchor)
	if i < 0 {
		return nil
	}
	var next *Client
	for _, c := range s.clients[i+1:] {
		if !c.iconified && !c.onDesk(s.curDesk) {
			continue
		}
		next = c
		if !reverse {
			break
		}
	}
	if next == nil {
		return nil
	}
	return next
}

func (s *State) InvertOrder() {
	for i, j := 0, len(s.clients)-1; i < j; i, j = i+1, j-1 {
		s.clients[i], s.clients[j] = s.clients[j], s.clients[i]
	}
}

func (s *State) RedrawUnfocused(c0 dispatch.Client) {
	if s.Backend != nil {
		s.Backend.DrawFrame(c0.(*Client).Win, false)
	}
}

func (s *State) index(c *Client) int {
	for i, c2 := range s.clients {
		if c2 == c {
			return i
		}
	}
	return -1
}

//----------

func (s *State) Iconify(c0 dispatch.Client) {
	c := c0.(*Client)
	if c.iconified {
		return
	}
	c.iconified = true
	s.updateMapped(c)
	if c == s.focused {
		s.focusTopVisible()
	}
}

func (s *State) Uniconify(c0 dispatch.Client) {
	c := c0.(*Client)
	if !c.iconified {
		return
	}
	c.iconified = false
	s.updateMapped(c)
	if c == s.focused && c.mapped && s.Backend != nil {
		s.Backend.Focus(c.Win)
		s.Backend.DrawFrame(c.Win, true)
	}
}

// Maps or unmaps the window only when its visibility changed. An unmapped
// window gets no unmap notification, so the backend's count of own unmaps
// must not see it twice.
func (s *State) updateMapped(c *Client) {
	visible := !c.iconified && c.onDesk(s.curDesk)
	if visible == c.mapped {
		return
	}
	c.mapped = visible
	if s.Backend == nil {
		return
	}
	if visible {
		s.Backend.Map(c.Win)
	} else {
		s.Backend.Unmap(c.Win)
	}
}

func (s *State) Fullscreen(c0 dispatch.Client) {
	s.setFullscreen(c0.(*Client), true)
}

func (s *State) Unfullscreen(c0 dispatch.Client) {
	s.setFullscreen(c0.(*Client), false)
}

func (s *State) setFullscreen(c *Client, on bool) {
	c.fullscreen = on
	if s.Backend != nil {
		s.Backend.SetFullscreen(c.Win, on)
	}
}

func (s *State) SendClose(c0 dispatch.Client) {
	if s.Backend != nil {
		s.Backend.Close(c0.(*Client).Win)
	}
}

func (s *State) SetDesk(c0 dispatch.Client, desk int) {
	c0.(*Client).desk = desk
}

//----------

func (s *State) GotoDesk(desk int) {
	if desk != action.AllDesks && (desk < 0 || desk >= s.nDesks) {
		return
	}
	s.curDesk = desk
	for _, c := range s.clients {
		s.updateMapped(c)
	}
	if s.focused == nil || s.focused.iconified || !s.focused.onDesk(desk) {
		s.focusTopVisible()
	}
}

func (s *State) CurrentDesk() int {
	return s.curDesk
}

func (s *State) DeskCount() int {
	return s.nDesks
}

//----------

func (s *State) ShowLauncher() {
	if s.OnLauncher != nil {
		s.OnLauncher()
	}
}

func (s *State) Teardown() {
	if s.OnTeardown != nil {
		s.OnTeardown()
	}
}

func (s *State) Shutdown() {
	if s.OnShutdown != nil {
		s.OnShutdown()
	}
}
