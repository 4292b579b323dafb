package pkgspecifier

import "testing"

func TestFromNpmSpecifier(t *testing.T) {
	cases := []struct {
		in      string
		want    PackageMappedSpecifier
		wantOK  bool
	}{
		{"npm:chalk", PackageMappedSpecifier{Name: "chalk"}, true},
		{"npm:chalk@5.0.0", PackageMappedSpecifier{Name: "chalk", Version: "5.0.0"}, true},
		{"npm:chalk/subpath", PackageMappedSpecifier{Name: "chalk", SubPath: "subpath"}, true},
		{"npm:chalk@5.0.0/subpath", PackageMappedSpecifier{Name: "chalk", Version: "5.0.0", SubPath: "subpath"}, true},
		{"npm:@scope/name", PackageMappedSpecifier{Name: "@scope/name"}, true},
		{"npm:@scope/name@1.2.3", PackageMappedSpecifier{Name: "@scope/name", Version: "1.2.3"}, true},
		{"npm:@scope/name/sub", PackageMappedSpecifier{Name: "@scope/name", SubPath: "sub"}, true},
		{"npm:@scope/name@1.2.3/sub", PackageMappedSpecifier{Name: "@scope/name", Version: "1.2.3", SubPath: "sub"}, true},
		{"https://esm.sh/chalk", PackageMappedSpecifier{}, false},
	}
	for _, c := range cases {
		got, ok := FromNpmSpecifier(c.in)
		if ok != c.wantOK {
			t.Errorf("FromNpmSpecifier(%q) ok = %v, want %v", c.in, ok, c.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if got != c.want {
			t.Errorf("FromNpmSpecifier(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestSpecifierText(t *testing.T) {
	p := PackageMappedSpecifier{Name: "chalk", SubPath: "ansi"}
	if got := p.SpecifierText(); got != "chalk/ansi" {
		t.Errorf("SpecifierText() = %q, want chalk/ansi", got)
	}
	p2 := PackageMappedSpecifier{Name: "chalk"}
	if got := p2.SpecifierText(); got != "chalk" {
		t.Errorf("SpecifierText() = %q, want chalk", got)
	}
}
