package wmprotocols

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/jmigpin/wm/driver/xdriver/xutil"
)

// https://tronche.com/gui/x/icccm/sec-4.html#s-4.2.8.1

type WMP struct {
	xu *xgbutil.XUtil
}

func NewWMP(xu *xgbutil.XUtil) (*WMP, error) {
	if err := xutil.LoadAtoms(xu.Conn(), &atoms, false); err != nil {
		return nil, err
	}
	return &WMP{xu: xu}, nil
}

func (wmp *WMP) SupportsDelete(win xproto.Window) bool {
	names, err := icccm.WmProtocolsGet(wmp.xu, win)
	if err != nil {
		return false
	}
	for _, n := range names {
		if n == "WM_DELETE_WINDOW" {
			return true
		}
	}
	return false
}

// Asks the client to close the window. Clients that do not take part in
// the protocol are disconnected from the server.
func (wmp *WMP) Close(win xproto.Window) {
	if !wmp.SupportsDelete(win) {
		_ = xproto.KillClient(wmp.xu.Conn(), uint32(win))
		return
	}
	data := xproto.ClientMessageDataUnionData32New([]uint32{
		uint32(atoms.WM_DELETE_WINDOW),
		uint32(xproto.TimeCurrentTime),
		0, 0, 0,
	})
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   atoms.WM_PROTOCOLS,
		Data:   data,
	}
	_ = xproto.SendEvent(wmp.xu.Conn(), false, win, xproto.EventMaskNoEvent, string(ev.Bytes()))
}

var atoms struct {
	WM_PROTOCOLS     xproto.Atom
	WM_DELETE_WINDOW xproto.Atom
}
