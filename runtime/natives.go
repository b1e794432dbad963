package runtime

import (
	"time"

	"github.com/dsocolobsky/lox/lang"
)

// now is replaced in tests.
var now = time.Now

func installNatives(in *lang.Interpreter) {
	define := func(name string, arity int, fn lang.NativeFunc) {
		in.Globals.Define(name, lang.NativeValue(lang.NewNative(name, arity, fn)))
	}

	define("clock", 0, nativeClock)
}

// nativeClock returns the seconds since the Unix epoch.
func nativeClock(_ *lang.Interpreter, _ []lang.Value) (lang.Value, error) {
	t := now()
	return lang.NumberValue(float64(t.UnixNano()) / float64(time.Second)), nil
}
