package consolesignal

import (
	"runtime"
	"strings"
	"testing"
)

func TestSignalString(t *testing.T) {
	cases := map[Signal]string{
		ControlC:     "CTRL_C",
		ControlBreak: "CTRL_BREAK",
		Signal(99):   "UNKNOWN",
	}
	for sig, want := range cases {
		if got := sig.String(); got != want {
			t.Errorf("Signal(%d).String() = %q, want %q", sig, got, want)
		}
	}
}

func TestHelperAssetNameMatchesRuntime(t *testing.T) {
	name := helperAssetName()
	if name == "" {
		t.Fatal("helperAssetName() returned empty string")
	}
	if want := runtime.GOOS + "_" + runtime.GOARCH; !strings.Contains(name, want) {
		t.Fatalf("helperAssetName() = %q, want it to contain %q", name, want)
	}
}

func TestRunHelperWithoutEmbeddedBinaryFails(t *testing.T) {
	// A source checkout never ships real binaries under dist/, so this must
	// consistently report ErrHelperUnavailable rather than panicking or
	// hanging.
	ok, err := runHelper(1, ControlC)
	if ok {
		t.Fatalf("runHelper() reported success with no embedded binaries")
	}
	if err != ErrHelperUnavailable {
		t.Fatalf("runHelper() err = %v, want ErrHelperUnavailable", err)
	}
}
