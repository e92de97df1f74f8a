package attach_test

import (
	"testing"

	"github.com/cvsouth/keri-go/pkg/keriox/attach"
	"github.com/cvsouth/keri-go/pkg/keriox/event"
)

// FuzzAttachmentParser feeds arbitrary attachment text, for both dispatch
// branches Parse can take, and requires it never panic and never report
// consuming more than it was given.
func FuzzAttachmentParser(f *testing.F) {
	f.Add("-AABAAyIoOoziM1_fGb-1gKWY_LtlKiZIwuaJ5iPkYflmqOxxBn6MspbvCcLf8bF_uAgxCVLG1W4IMEhvDi_8rPORgDw", "icp")
	f.Add("-AAA", "icp")
	f.Add("", "rct")
	f.Add("-A", "rct")
	f.Add("garbage", "vrc")

	f.Fuzz(func(t *testing.T, s string, kind string) {
		var typ event.Type
		switch kind {
		case "rct":
			typ = event.TypeRct
		case "icp":
			typ = event.TypeIcp
		default:
			typ = event.TypeVrc
		}
		group, rest, err := attach.Parse(s, typ)
		if err != nil {
			return
		}
		if len(rest) > len(s) {
			t.Fatalf("rest longer than input: %d > %d", len(rest), len(s))
		}
		_ = group
	})
}
