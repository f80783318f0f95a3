package xutil

import (
	"reflect"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// Tags can be used with: `loadAtoms:"atomname"`.
// "st" should be a pointer to a struct with xproto.Atom fields.
// "onlyIfExists" asks the x server to assign a value only if the atom exists.
func LoadAtoms(conn *xgb.Conn, st interface{}, onlyIfExists bool) error {
	// request all before reading any reply
	typ := reflect.Indirect(reflect.ValueOf(st)).Type()
	var cookies []xproto.InternAtomCookie
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		name := sf.Name
		if tag := sf.Tag.Get("loadAtoms"); tag != "" {
			name = tag
		}
		cookie := xproto.InternAtom(conn, onlyIfExists, uint16(len(name)), name)
		cookies = append(cookies, cookie)
	}
	val := reflect.Indirect(reflect.ValueOf(st))
	for i := 0; i < val.NumField(); i++ {
		reply, err := cookies[i].Reply()
		if err != nil {
			return err
		}
		val.Field(i).Set(reflect.ValueOf(reply.Atom))
	}
	return nil
}

//----------

// Sets the border width and color of a window.
func SetBorder(conn *xgb.Conn, win xproto.Window, width uint32, pixel uint32) {
	_ = xproto.ChangeWindowAttributes(conn, win, xproto.CwBorderPixel, []uint32{pixel})
	_ = xproto.ConfigureWindow(conn, win, xproto.ConfigWindowBorderWidth, []uint32{width})
}
